package app

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation indicates invalid input from the caller. The HTTP layer maps
// it to 400 with errors.Is.
var ErrValidation = errors.New("validation error")

// ValidationError wraps ErrValidation with a descriptive message.
func ValidationError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrValidation)
}

// ValidationMessage returns the caller-facing part of a validation error.
func ValidationMessage(err error) string {
	msg := err.Error()
	if trimmed, ok := strings.CutSuffix(msg, ": "+ErrValidation.Error()); ok {
		return trimmed
	}
	return msg
}
