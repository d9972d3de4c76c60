package service

import (
	"context"
	"dyslexiatutor/internal/model"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 512

// AnthropicTutor implements TutorClient with the Anthropic Messages API.
type AnthropicTutor struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicTutor creates an Anthropic-backed tutor. Extra options are
// passed to the SDK client.
func NewAnthropicTutor(apiKey, modelName string, opts ...option.RequestOption) (*AnthropicTutor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	client := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &AnthropicTutor{client: &client, model: modelName}, nil
}

func (t *AnthropicTutor) Generate(ctx context.Context, prompt string, history []model.Turn) (string, error) {
	system, messages := buildAnthropicMessages(history, prompt)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(t.model),
		MaxTokens: anthropicMaxTokens,
		Messages:  messages,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := t.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", errors.New("empty response from Anthropic")
	}
	return text, nil
}

// buildAnthropicMessages converts the transcript. Messages must open with a
// user turn, so assistant turns before the first learner turn (the greeting)
// move into the system prompt.
func buildAnthropicMessages(history []model.Turn, prompt string) (string, []anthropic.MessageParam) {
	var opening []string
	i := 0
	for ; i < len(history) && history[i].Role == model.RoleAssistant; i++ {
		opening = append(opening, history[i].Content)
	}

	var system string
	if len(opening) > 0 {
		system = "You opened this practice session by saying: " + strings.Join(opening, " ")
	}

	out := make([]anthropic.MessageParam, 0, len(history)-i+1)
	for _, turn := range history[i:] {
		role := anthropic.MessageParamRoleUser
		if turn.Role == model.RoleAssistant {
			role = anthropic.MessageParamRoleAssistant
		}
		out = append(out, anthropic.MessageParam{
			Role:    role,
			Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(turn.Content)},
		})
	}
	out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)))
	return system, out
}
