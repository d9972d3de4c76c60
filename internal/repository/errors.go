package repository

import (
	"dyslexiatutor/internal/model"
	"fmt"
)

// DataLoadError reports a question bank that is missing, unreadable or malformed.
type DataLoadError struct {
	Mode   model.Mode
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load question bank for mode %s from %s: %v", e.Mode, e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }
