package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/felixgeelhaar/cadence/pkg/domain/ai"
	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
	"github.com/felixgeelhaar/cadence/pkg/domain/session"
)

// ExitInvalidInput is returned for plans and conversations that fail validation.
const ExitInvalidInput = 2

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return err
	}

	var vErr *planning.ValidationError
	if errors.As(err, &vErr) {
		e := NewCLIError("not enough information for a plan", "Describe goal, timeline and key tasks", err)
		e.ExitCode = ExitInvalidInput
		return e
	}

	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return NewCLIError("session not found", "Run 'cadence session list' to see available sessions", err)
	case errors.Is(err, session.ErrInvalidID):
		return NewCLIError("invalid session id", "Session ids are UUIDs; run 'cadence session list'", err)
	case errors.Is(err, session.ErrInvalidTransition):
		return NewCLIError("session cannot take that action", "Run 'cadence session reset <id>' to start over", err)
	case errors.Is(err, ai.ErrMissingAPIKey):
		return NewCLIError("AI provider API key is not set", "Export GROQ_API_KEY (or OPENAI_API_KEY), or run 'cadence init --provider ollama'", err)
	case errors.Is(err, ai.ErrEmptyResponse):
		return NewCLIError("AI provider returned no content", "Retry, or check the model in .cadence/config.yaml", err)
	case errors.Is(err, os.ErrNotExist):
		return NewCLIError("file not found", "Check the path and try again", err)
	}

	return err
}
