package service

import (
	"dyslexiatutor/internal/config"
	"dyslexiatutor/internal/model"
	"fmt"
	"strings"
)

// PromptBuilder renders the per-turn instruction sent to the tutor model.
type PromptBuilder struct {
	advancePhrase string
	advanceTag    string
}

// NewPromptBuilder creates a prompt builder that asks the model to use the
// configured advancement phrase (and tag, if any).
func NewPromptBuilder(cfg *config.AIConfig) PromptBuilder {
	phrase := cfg.AdvancePhrase
	if phrase == "" {
		phrase = config.DefaultAdvancePhrase
	}
	return PromptBuilder{advancePhrase: phrase, advanceTag: cfg.AdvanceTag}
}

// Build returns the instruction for one learner response. The question must
// be a live question; callers check the session has not run out first.
func (b PromptBuilder) Build(mode model.Mode, q model.Question, userResponse string) string {
	switch mode {
	case model.ModePhonological:
		return b.phonologicalPrompt(q, userResponse)
	case model.ModeSurface:
		return surfacePrompt(q, userResponse)
	default:
		return rapidNamingPrompt(q, userResponse)
	}
}

func (b PromptBuilder) phonologicalPrompt(q model.Question, userResponse string) string {
	return fmt.Sprintf(`You are a supportive AI tutor helping someone with phonological dyslexia.
Current question: %s
Options: %s
Correct answer: %s
User response: %s

Respond in a friendly, supportive way. If they answered correctly, give positive feedback.
If they answered incorrectly, gently correct them and offer encouragement.
If they asked for a hint, provide a helpful clue without giving away the answer.
%s
Keep your responses brief but helpful.`,
		q.Question, strings.Join(q.Choices, " | "), q.Answer, userResponse, b.advanceInstruction())
}

func (b PromptBuilder) advanceInstruction() string {
	s := fmt.Sprintf(`Only if the user says they want to continue AND their previous answer was correct, end your reply with the exact sentence "%s".`, capitalize(b.advancePhrase))
	if b.advanceTag != "" {
		s += fmt.Sprintf(` In that case also append the marker %s at the very end.`, b.advanceTag)
	}
	return s
}

func surfacePrompt(q model.Question, userResponse string) string {
	return fmt.Sprintf(`You are a supportive AI tutor helping someone with surface dyslexia.
Current word: %s
Difficulty: %s
User response: %s

Respond in a friendly, supportive way and give brief feedback on their pronunciation.
If they need help, explain how to pronounce the word.
If they ask for an explanation, explain the pronunciation rules.
Do not repeat feedback you have already given in this conversation.`,
		q.Word, q.Difficulty, userResponse)
}

func rapidNamingPrompt(q model.Question, userResponse string) string {
	return fmt.Sprintf(`You are a supportive AI tutor helping with rapid naming practice.
Image category: %s
Correct label: %s
Difficulty: %s
User response: %s

Reply with a single short, encouraging sentence confirming whether their answer was correct.
This is rapid-fire practice, so keep it quick.`,
		q.Category, q.Answer, q.Difficulty, userResponse)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
