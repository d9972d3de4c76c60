package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMode     = errors.New("mode must be one of 1, 2 or 3")
	ErrEmptyInput      = errors.New("text must not be empty")
	ErrNoActiveSession = errors.New("no practice mode selected")
	ErrSessionComplete = errors.New("all questions in this session have been answered")
	ErrSessionBusy     = errors.New("another request for this session is in progress")
)

// UpstreamError wraps a failure from the tutor model or the narration service.
// The turn that hit it is abandoned; nothing is retried.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s service failed: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
