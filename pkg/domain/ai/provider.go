package ai

import (
	"context"
	"errors"
)

var (
	// ErrMissingAPIKey is returned when a hosted provider has no credentials.
	ErrMissingAPIKey = errors.New("AI provider API key not provided")
	// ErrEmptyResponse is returned when the provider answered without content.
	ErrEmptyResponse = errors.New("AI provider returned an empty response")
)

// Message is a single chat turn sent to the provider.
type Message struct {
	Role    string
	Content string
}

// CompletionRequest represents a prompt to the AI.
type CompletionRequest struct {
	System      string
	Messages    []Message
	Prompt      string // appended as a final user message when set
	Temperature float32
	MaxTokens   int
}

// CompletionResponse represents the AI's answer.
type CompletionResponse struct {
	Text  string
	Usage TokenUsage
	Model string
}

// TokenUsage tracks costs.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
}

// Provider is the interface for all AI backends.
type Provider interface {
	ID() string
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// ChatMessages flattens the request into the ordered message list sent to a
// chat-completions style API.
func (r CompletionRequest) ChatMessages() []Message {
	out := make([]Message, 0, len(r.Messages)+2)
	if r.System != "" {
		out = append(out, Message{Role: "system", Content: r.System})
	}
	out = append(out, r.Messages...)
	if r.Prompt != "" {
		out = append(out, Message{Role: "user", Content: r.Prompt})
	}
	return out
}
