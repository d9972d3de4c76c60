package config

import (
	"os"
	"time"
)

// DefaultAdvancePhrase is the sentence the tutor model is asked to say when the
// learner should move on. Its presence in a reply advances the session.
const DefaultAdvancePhrase = "let's move to the next question"

// Tutor providers
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderOffline   = "offline"
)

// TutorModels defines which model each provider uses for per-turn feedback
type TutorModels struct {
	Gemini    string `json:"gemini"`
	Anthropic string `json:"anthropic"`
	OpenAI    string `json:"openai"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	// Provider is one of gemini, anthropic, openai or offline.
	Provider string `json:"provider"`

	GeminiAPIKey    string `json:"-"` // Never serialize
	AnthropicAPIKey string `json:"-"`
	OpenAIAPIKey    string `json:"-"`
	// OpenAIBaseURL points the OpenAI client at a compatible API.
	OpenAIBaseURL string `json:"openaiBaseUrl,omitempty"`

	Models    TutorModels `json:"models"`
	TimeoutMS int         `json:"timeoutMs"`

	// AdvancePhrase is matched case-insensitively against tutor replies.
	AdvancePhrase string `json:"advancePhrase"`
	// AdvanceTag, when set, is requested from the model as a machine-readable
	// advancement marker and stripped from the reply before narration.
	AdvanceTag string `json:"advanceTag,omitempty"`
}

// DefaultAIConfig returns the default AI configuration. TUTOR_PROVIDER picks the
// backend explicitly; otherwise the first provider with an API key wins, in the
// order Gemini, OpenAI, Anthropic.
func DefaultAIConfig() *AIConfig {
	cfg := &AIConfig{
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		Models: TutorModels{
			Gemini:    getEnvOrDefault("GEMINI_MODEL_TUTOR", "gemini-2.0-flash"),
			Anthropic: getEnvOrDefault("ANTHROPIC_MODEL_TUTOR", "claude-haiku-4-5-20251001"),
			OpenAI:    getEnvOrDefault("OPENAI_MODEL_TUTOR", "gpt-4o-mini"),
		},
		TimeoutMS:     getInt("AI_TIMEOUT_MS", 10000),
		AdvancePhrase: getEnvOrDefault("TUTOR_ADVANCE_PHRASE", DefaultAdvancePhrase),
		AdvanceTag:    os.Getenv("TUTOR_ADVANCE_TAG"),
	}
	cfg.Provider = getEnvOrDefault("TUTOR_PROVIDER", cfg.discoverProvider())
	return cfg
}

func (c *AIConfig) discoverProvider() string {
	switch {
	case c.GeminiAPIKey != "":
		return ProviderGemini
	case c.OpenAIAPIKey != "":
		return ProviderOpenAI
	case c.AnthropicAPIKey != "":
		return ProviderAnthropic
	}
	return ProviderOffline
}

// IsEnabled returns true if a hosted model is configured
func (c *AIConfig) IsEnabled() bool {
	return c.Provider != "" && c.Provider != ProviderOffline
}

// TutorModel returns the model name for the selected provider.
func (c *AIConfig) TutorModel() string {
	switch c.Provider {
	case ProviderGemini:
		return c.Models.Gemini
	case ProviderAnthropic:
		return c.Models.Anthropic
	case ProviderOpenAI:
		return c.Models.OpenAI
	}
	return ""
}

// Timeout is the per-call deadline for the tutor model.
func (c *AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
