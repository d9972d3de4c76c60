package service

import (
	"context"
	"dyslexiatutor/internal/model"
	"errors"
	"fmt"
	"sync"
)

// TutorCall records one Generate invocation.
type TutorCall struct {
	Prompt  string
	History []model.Turn
}

// MockTutor is a deterministic TutorClient for tests. It returns canned
// replies in FIFO order, then Default, and records every call.
type MockTutor struct {
	mu      sync.Mutex
	replies []string
	Default string
	Err     error
	Calls   []TutorCall
}

// NewMockTutor creates a MockTutor with the given canned replies.
func NewMockTutor(replies ...string) *MockTutor {
	return &MockTutor{replies: replies, Default: "Good try!"}
}

func (m *MockTutor) Generate(_ context.Context, prompt string, history []model.Turn) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, TutorCall{Prompt: prompt, History: append([]model.Turn(nil), history...)})
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.replies) == 0 {
		return m.Default, nil
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	return reply, nil
}

// CallCount returns the number of Generate calls made.
func (m *MockTutor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockNarrator is a NarrationClient for tests that hands out numbered references.
type MockNarrator struct {
	mu    sync.Mutex
	Err   error
	Texts []string
}

func (m *MockNarrator) Synthesize(_ context.Context, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	if text == "" {
		return "", errors.New("empty text")
	}
	m.Texts = append(m.Texts, text)
	return fmt.Sprintf("/audio/speech_%d.mp3", len(m.Texts)), nil
}
