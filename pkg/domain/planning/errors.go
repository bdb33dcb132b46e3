package planning

import (
	"errors"
	"strings"
)

// ErrInvalidPlan is the sentinel behind every ValidationError.
var ErrInvalidPlan = errors.New("invalid plan")

// ValidationError reports why a payload cannot be used as a plan. Callers
// treat it as "insufficient information" and ask the user for more detail.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return ErrInvalidPlan.Error()
	}
	return ErrInvalidPlan.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidPlan
}

// NewValidationError creates a ValidationError from one or more problems.
func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}
