package inference

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for inference errors.
var (
	ErrValidation      = errors.New("invalid prediction input")
	ErrInference       = errors.New("model inference failed")
	ErrUnexpectedLabel = errors.New("model returned a label outside the binary contract")
)

// ValidationError is returned before the model is called when the input
// cannot form a vector. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Disease string
	Want    int
	Got     int
	Missing []string
	Invalid []string
	Unknown []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if e.Want != e.Got {
		parts = append(parts, fmt.Sprintf("expected %d values, got %d", e.Want, e.Got))
	}
	if len(e.Missing) > 0 {
		parts = append(parts, "all fields required: missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "not a number: "+strings.Join(e.Invalid, ", "))
	}
	if len(e.Unknown) > 0 {
		parts = append(parts, "unknown fields: "+strings.Join(e.Unknown, ", "))
	}
	if len(parts) == 0 {
		return ErrValidation.Error()
	}
	return e.Disease + ": " + strings.Join(parts, "; ")
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) empty() bool {
	return e.Want == e.Got && len(e.Missing) == 0 && len(e.Invalid) == 0 && len(e.Unknown) == 0
}

// InferenceError wraps a failure of the model call itself. It matches
// ErrInference with errors.Is.
type InferenceError struct {
	Disease string
	Err     error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Disease, ErrInference, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// Is reports whether target is ErrInference.
func (e *InferenceError) Is(target error) bool { return target == ErrInference }
