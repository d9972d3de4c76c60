package service

import (
	"context"
	"dyslexiatutor/internal/config"
	"dyslexiatutor/internal/model"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// TutorClient generates the tutor's feedback for a prompt, given the
// conversation so far.
type TutorClient interface {
	Generate(ctx context.Context, prompt string, history []model.Turn) (string, error)
}

// NewTutorClient builds the backend selected by cfg.Provider.
func NewTutorClient(ctx context.Context, cfg *config.AIConfig) (TutorClient, error) {
	var (
		tutor TutorClient
		err   error
	)
	switch cfg.Provider {
	case config.ProviderGemini:
		tutor, err = NewGeminiTutor(ctx, cfg.GeminiAPIKey, cfg.Models.Gemini)
	case config.ProviderAnthropic:
		tutor, err = NewAnthropicTutor(cfg.AnthropicAPIKey, cfg.Models.Anthropic)
	case config.ProviderOpenAI:
		tutor, err = NewOpenAITutor(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Models.OpenAI)
	case config.ProviderOffline, "":
		return OfflineTutor{}, nil
	default:
		return nil, fmt.Errorf("unknown tutor provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s tutor: %w", cfg.Provider, err)
	}
	return tutor, nil
}

// GeminiTutor implements TutorClient with the Google Gemini SDK.
type GeminiTutor struct {
	client *genai.Client
	model  string
}

// NewGeminiTutor creates a Gemini-backed tutor.
func NewGeminiTutor(ctx context.Context, apiKey, modelName string) (*GeminiTutor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiTutor{client: client, model: modelName}, nil
}

// Generate sends the history as a chat transcript followed by the prompt as
// the newest user message.
func (t *GeminiTutor) Generate(ctx context.Context, prompt string, history []model.Turn) (string, error) {
	contents := buildGeminiContents(history, prompt)

	result, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", errors.New("empty response from Gemini")
	}
	return text, nil
}

func buildGeminiContents(history []model.Turn, prompt string) []*genai.Content {
	out := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		role := "user"
		if turn.Role == model.RoleAssistant {
			role = "model"
		}
		out = append(out, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: turn.Content}},
		})
	}
	return append(out, &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	})
}

// OfflineTutor stands in for the model when no API key is configured. It
// replies with fixed encouragement so the rest of the flow can be exercised.
type OfflineTutor struct{}

func (OfflineTutor) Generate(_ context.Context, _ string, history []model.Turn) (string, error) {
	last := ""
	if n := len(history); n > 0 {
		last = history[n-1].Content
	}
	if strings.TrimSpace(last) == "" {
		return "I didn't catch that. Could you try again?", nil
	}
	return fmt.Sprintf("Thanks, I heard %q. Nice effort! Say next when you're ready to continue.", last), nil
}
