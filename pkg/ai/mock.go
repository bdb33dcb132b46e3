package ai

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/cadence/pkg/domain/ai"
)

// MockProvider returns canned responses. Responses are consumed in order;
// the last one repeats once the list is exhausted.
type MockProvider struct {
	Model     string
	Responses []string
	Err       error

	mu       sync.Mutex
	requests []ai.CompletionRequest
}

func (p *MockProvider) ID() string {
	return "mock:" + p.Model
}

func (p *MockProvider) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)

	if p.Err != nil {
		return nil, p.Err
	}
	if len(p.Responses) == 0 {
		return nil, ai.ErrEmptyResponse
	}

	i := len(p.requests) - 1
	if i >= len(p.Responses) {
		i = len(p.Responses) - 1
	}
	return &ai.CompletionResponse{Text: p.Responses[i], Model: p.Model}, nil
}

// Requests returns the requests received so far.
func (p *MockProvider) Requests() []ai.CompletionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ai.CompletionRequest(nil), p.requests...)
}
