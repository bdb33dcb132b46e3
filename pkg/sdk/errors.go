package sdk

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoContent means the server answered a tool call with no content.
	ErrNoContent = errors.New("cadence: empty tool result")
	// ErrInvalidPlan matches tool errors caused by a plan argument the server
	// rejected at its schema boundary.
	ErrInvalidPlan = errors.New("cadence: invalid plan")
)

// planArgPrefixes are the messages the server uses for rejected plan arguments.
var planArgPrefixes = []string{"invalid plan", "invalid previous", "invalid current"}

// ToolError carries the message of a tool result flagged as an error.
type ToolError struct {
	Tool    string
	Message string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("cadence: %s failed: %s", e.Tool, e.Message)
}

// Unwrap lets errors.Is(err, ErrInvalidPlan) classify plan rejections.
func (e *ToolError) Unwrap() error {
	for _, p := range planArgPrefixes {
		if strings.HasPrefix(e.Message, p) {
			return ErrInvalidPlan
		}
	}
	return nil
}
