package model

import "time"

// Role is the speaker of a conversation turn.
type Role string

const (
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// Turn is one entry in a session's conversation history.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SessionPhase is the position of a session in its lifecycle.
type SessionPhase string

const (
	PhaseAwaitingMode SessionPhase = "awaiting_mode"
	PhaseInQuestion   SessionPhase = "in_question"
	PhaseComplete     SessionPhase = "complete"
)

// Session is the tutoring state for one learner. It is owned by a single
// session identity and is only mutated by the request holding that
// identity's lock.
type Session struct {
	ID            string      `json:"id"`
	Mode          Mode        `json:"mode,omitempty"`
	Questions     QuestionSet `json:"questions,omitempty"`
	Cursor        int         `json:"cursor"`
	History       []Turn      `json:"history"`
	Score         int         `json:"score"`
	AnsweredCount int         `json:"answeredCount"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// NewSession returns an empty session awaiting a mode.
func NewSession(id string) *Session {
	s := &Session{ID: id}
	s.Reset()
	return s
}

// Reset clears all tutoring state, keeping the identity.
func (s *Session) Reset() {
	s.Mode = ""
	s.Questions = nil
	s.Cursor = 0
	s.History = []Turn{}
	s.Score = 0
	s.AnsweredCount = 0
}

// Begin starts a mode with a sampled question set and the opening greeting.
// It returns the first question, or nil when the set is empty.
func (s *Session) Begin(mode Mode, questions QuestionSet) *Question {
	s.Reset()
	s.Mode = mode
	s.Questions = questions
	s.RecordTurn(RoleAssistant, mode.Greeting())
	return s.CurrentQuestion()
}

// Phase reports where the session is in its lifecycle.
func (s *Session) Phase() SessionPhase {
	if s.Mode == "" {
		return PhaseAwaitingMode
	}
	if s.Cursor >= len(s.Questions) {
		return PhaseComplete
	}
	return PhaseInQuestion
}

// CurrentQuestion returns the question under the cursor, or nil once the
// cursor has run past the set.
func (s *Session) CurrentQuestion() *Question {
	if s.Cursor < 0 || s.Cursor >= len(s.Questions) {
		return nil
	}
	q := s.Questions[s.Cursor]
	return &q
}

// RecordTurn appends to the history.
func (s *Session) RecordTurn(role Role, content string) {
	s.History = append(s.History, Turn{Role: role, Content: content})
}

// ApplyScoring credits a correct answer by the question's difficulty weight.
func (s *Session) ApplyScoring(q Question, correct bool) {
	if !correct {
		return
	}
	s.Score += q.Difficulty.Points()
	s.AnsweredCount++
}

// Advance moves the cursor forward and returns the new current question.
// The cursor never moves beyond len(Questions).
func (s *Session) Advance() *Question {
	if s.Cursor < len(s.Questions) {
		s.Cursor++
	}
	return s.CurrentQuestion()
}

// RecentHistory returns at most limit trailing turns. A limit <= 0 returns all.
func (s *Session) RecentHistory(limit int) []Turn {
	if limit <= 0 || len(s.History) <= limit {
		return s.History
	}
	return s.History[len(s.History)-limit:]
}

// Clone returns a deep copy, so a turn can be staged without touching the
// stored state until it succeeds.
func (s *Session) Clone() *Session {
	c := *s
	c.Questions = make(QuestionSet, len(s.Questions))
	for i, q := range s.Questions {
		q.Choices = append([]string(nil), q.Choices...)
		c.Questions[i] = q
	}
	c.History = append([]Turn{}, s.History...)
	return &c
}
