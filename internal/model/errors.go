package model

import (
	"errors"
	"fmt"
)

// ErrEmptySummary is returned when a backend answers without any text.
var ErrEmptySummary = errors.New("model returned an empty summary")

// ValidationError reports a bad request input such as an out-of-range slider.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ModelError wraps a failure of the external summarization backend.
type ModelError struct {
	Backend string
	Err     error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("summarization with %s failed: %v", e.Backend, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}
