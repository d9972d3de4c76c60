package service

import (
	"dyslexiatutor/internal/config"
	"dyslexiatutor/internal/model"
	"regexp"
	"strings"
)

// AdvanceKeywords in a learner's reply move the session on without
// consulting the tutor's text.
var AdvanceKeywords = []string{"next", "continue", "yes"}

// ResponseInterpreter decides correctness and advancement for a turn.
//
// Advancement is partly driven by the tutor model's free text: a reply
// containing the advance phrase moves the session on. That match is exact
// and fragile against a non-deterministic generator; AdvanceTag offers a
// machine-readable alternative when configured.
type ResponseInterpreter struct {
	advancePhrase string         // lower-cased
	advanceTag    *regexp.Regexp // case-insensitive literal; nil when disabled
}

func NewResponseInterpreter(cfg *config.AIConfig) ResponseInterpreter {
	phrase := cfg.AdvancePhrase
	if phrase == "" {
		phrase = config.DefaultAdvancePhrase
	}
	var tag *regexp.Regexp
	if cfg.AdvanceTag != "" {
		tag = regexp.MustCompile("(?i)" + regexp.QuoteMeta(cfg.AdvanceTag))
	}
	return ResponseInterpreter{
		advancePhrase: strings.ToLower(phrase),
		advanceTag:    tag,
	}
}

// IsCorrect scores the learner's raw text. Modes 1 and 3 require an exact,
// case-insensitive match with the answer; surrounding whitespace counts.
// Mode 2 cannot check pronunciation and accepts any response that contains
// the word "correct".
func (ResponseInterpreter) IsCorrect(mode model.Mode, q model.Question, userResponse string) bool {
	if mode == model.ModeSurface {
		return strings.Contains(strings.ToLower(userResponse), "correct")
	}
	return strings.EqualFold(userResponse, q.Answer)
}

// NearMiss reports whether a wrong spelling or name sounds like the answer.
// Mode 2 has no spelling to compare and never reports a near miss.
func (i ResponseInterpreter) NearMiss(mode model.Mode, q model.Question, userResponse string) bool {
	if mode == model.ModeSurface || i.IsCorrect(mode, q, userResponse) {
		return false
	}
	return SoundsLike(userResponse, q.Answer)
}

// ShouldAdvance reports whether the session moves to the next question.
// Learner keywords are checked first; the tutor reply is the fallback.
func (i ResponseInterpreter) ShouldAdvance(userResponse, aiResponse string) bool {
	user := strings.ToLower(userResponse)
	for _, kw := range AdvanceKeywords {
		if strings.Contains(user, kw) {
			return true
		}
	}

	reply := strings.ToLower(aiResponse)
	if strings.Contains(reply, i.advancePhrase) {
		return true
	}
	return i.advanceTag != nil && i.advanceTag.MatchString(aiResponse)
}

// StripTag removes the advance marker, in any letter case, so it is never
// shown or spoken.
func (i ResponseInterpreter) StripTag(aiResponse string) string {
	if i.advanceTag == nil || !i.advanceTag.MatchString(aiResponse) {
		return aiResponse
	}
	return strings.TrimSpace(i.advanceTag.ReplaceAllLiteralString(aiResponse, ""))
}
