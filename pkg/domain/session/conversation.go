package session

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
)

// Conversation limits accepted from a client.
const (
	MaxMessages      = 50
	MaxMessageLength = 2000
	MinMessages      = 1
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Message is one turn of the conversation.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// ValidateConversation checks a conversation before it is sent to the plan
// generator. All problems are reported together.
func ValidateConversation(messages []Message) error {
	var problems []string

	if n := len(messages); n < MinMessages || n > MaxMessages {
		problems = append(problems, fmt.Sprintf("conversation must have between %d and %d messages, got %d", MinMessages, MaxMessages, n))
	}

	hasUser := false
	for i, m := range messages {
		if !m.Role.IsValid() {
			problems = append(problems, fmt.Sprintf("messages[%d]: unknown role %q", i, m.Role))
		}
		if m.Role == RoleUser {
			hasUser = true
		}
		if n := utf8.RuneCountInString(m.Content); n > MaxMessageLength {
			problems = append(problems, fmt.Sprintf("messages[%d]: content exceeds %d characters (%d)", i, MaxMessageLength, n))
		}
	}
	if len(messages) > 0 && !hasUser {
		problems = append(problems, "conversation must contain at least one user message")
	}

	if len(problems) > 0 {
		return planning.NewValidationError(problems...)
	}
	return nil
}
