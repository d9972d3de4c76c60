package service

import (
	"context"
	"dyslexiatutor/internal/model"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAITutor implements TutorClient with the OpenAI chat completions API.
// BaseURL makes it usable against OpenAI-compatible servers.
type OpenAITutor struct {
	client *openai.Client
	model  string
}

// NewOpenAITutor creates an OpenAI-backed tutor.
func NewOpenAITutor(apiKey, baseURL, modelName string) (*OpenAITutor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAITutor{client: openai.NewClientWithConfig(cfg), model: modelName}, nil
}

func (t *OpenAITutor) Generate(ctx context.Context, prompt string, history []model.Turn) (string, error) {
	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    t.model,
		Messages: buildOpenAIMessages(history, prompt),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in OpenAI response")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty response from OpenAI")
	}
	return text, nil
}

func buildOpenAIMessages(history []model.Turn, prompt string) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == model.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}
	return append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})
}
