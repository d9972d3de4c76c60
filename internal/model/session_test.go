package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoQuestions() QuestionSet {
	return QuestionSet{
		{Question: "q1", Choices: []string{"a", "b"}, Answer: "a", Difficulty: "Easy"},
		{Question: "q2", Choices: []string{"c", "d"}, Answer: "d", Difficulty: "Hard"},
	}
}

func TestSession_Begin(t *testing.T) {
	s := NewSession("s1")
	s.Score = 9
	s.RecordTurn(RoleUser, "stale")

	first := s.Begin(ModePhonological, twoQuestions())

	require.NotNil(t, first)
	assert.Equal(t, "q1", first.Question)
	assert.Equal(t, 0, s.Cursor)
	assert.Equal(t, 0, s.Score)
	assert.Equal(t, PhaseInQuestion, s.Phase())
	require.Len(t, s.History, 1)
	assert.Equal(t, Turn{Role: RoleAssistant, Content: ModePhonological.Greeting()}, s.History[0])
}

func TestSession_BeginEmptySetIsComplete(t *testing.T) {
	s := NewSession("s1")

	first := s.Begin(ModeSurface, nil)

	assert.Nil(t, first)
	assert.Equal(t, PhaseComplete, s.Phase())
}

func TestSession_PhaseAwaitingModeByDefault(t *testing.T) {
	assert.Equal(t, PhaseAwaitingMode, NewSession("s1").Phase())
}

func TestSession_AdvanceStopsAtEnd(t *testing.T) {
	s := NewSession("s1")
	s.Begin(ModePhonological, twoQuestions())

	next := s.Advance()
	require.NotNil(t, next)
	assert.Equal(t, "q2", next.Question)

	assert.Nil(t, s.Advance())
	assert.Equal(t, 2, s.Cursor)
	assert.Equal(t, PhaseComplete, s.Phase())

	// Further advances never run past the set
	assert.Nil(t, s.Advance())
	assert.Equal(t, 2, s.Cursor)
	assert.Nil(t, s.CurrentQuestion())
}

func TestSession_ApplyScoring(t *testing.T) {
	tests := []struct {
		name         string
		difficulty   Difficulty
		correct      bool
		wantScore    int
		wantAnswered int
	}{
		{"easy correct", "easy", true, 1, 1},
		{"medium correct", "Medium", true, 2, 1},
		{"hard correct", "Hard", true, 3, 1},
		{"unknown difficulty scores as easy", "brutal", true, 1, 1},
		{"missing difficulty scores as easy", "", true, 1, 1},
		{"incorrect leaves totals", "Hard", false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession("s1")
			s.ApplyScoring(Question{Difficulty: tt.difficulty}, tt.correct)
			assert.Equal(t, tt.wantScore, s.Score)
			assert.Equal(t, tt.wantAnswered, s.AnsweredCount)
		})
	}
}

func TestSession_ResetIsIdempotent(t *testing.T) {
	s := NewSession("s1")
	s.Begin(ModeRapidNaming, twoQuestions())
	s.ApplyScoring(Question{Difficulty: "hard"}, true)

	s.Reset()
	s.Reset()

	assert.Equal(t, "s1", s.ID)
	assert.Empty(t, s.Mode)
	assert.Empty(t, s.History)
	assert.Zero(t, s.Score)
	assert.Zero(t, s.AnsweredCount)
	assert.Equal(t, PhaseAwaitingMode, s.Phase())
}

func TestSession_RecentHistory(t *testing.T) {
	s := NewSession("s1")
	for _, c := range []string{"a", "b", "c", "d"} {
		s.RecordTurn(RoleUser, c)
	}

	assert.Len(t, s.RecentHistory(0), 4)
	assert.Len(t, s.RecentHistory(10), 4)

	recent := s.RecentHistory(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].Content)
	assert.Equal(t, "d", recent[1].Content)
}

func TestSession_CloneIsIndependent(t *testing.T) {
	s := NewSession("s1")
	s.Begin(ModePhonological, twoQuestions())

	c := s.Clone()
	c.RecordTurn(RoleUser, "x")
	c.ApplyScoring(c.Questions[0], true)
	c.Questions[0].Choices[0] = "mutated"
	c.Advance()

	assert.Len(t, s.History, 1)
	assert.Zero(t, s.Score)
	assert.Zero(t, s.Cursor)
	assert.Equal(t, "a", s.Questions[0].Choices[0])
}
