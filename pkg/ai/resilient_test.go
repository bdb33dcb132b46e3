package ai_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	infraAI "github.com/felixgeelhaar/cadence/pkg/ai"
	"github.com/felixgeelhaar/cadence/pkg/domain/ai"
)

type flakyProvider struct {
	failures int32
	calls    atomic.Int32
}

func (f *flakyProvider) ID() string { return "flaky" }

func (f *flakyProvider) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	n := f.calls.Add(1)
	if n <= f.failures {
		return nil, errors.New("temporary failure")
	}
	return &ai.CompletionResponse{Text: "ok"}, nil
}

func TestResilientProvider_ID_Delegates(t *testing.T) {
	inner := &infraAI.MockProvider{Model: "test-model"}
	p := infraAI.NewResilientProvider(inner)
	if p.ID() != "mock:test-model" {
		t.Errorf("expected ID 'mock:test-model', got %q", p.ID())
	}
}

func TestResilientProvider_DefaultConfig(t *testing.T) {
	cfg := infraAI.DefaultResilienceConfig()
	if cfg.MaxRetries != 2 {
		t.Errorf("expected MaxRetries 2, got %d", cfg.MaxRetries)
	}
	if cfg.RetryDelay != time.Second {
		t.Errorf("expected RetryDelay 1s, got %v", cfg.RetryDelay)
	}
	if cfg.Timeout != 300*time.Second {
		t.Errorf("expected Timeout 300s, got %v", cfg.Timeout)
	}
}

func TestResilientProvider_ZeroConfigGetsDefaults(t *testing.T) {
	p := infraAI.NewResilientProviderWithConfig(&infraAI.MockProvider{}, infraAI.ResilienceConfig{})
	if p.Config() != infraAI.DefaultResilienceConfig() {
		t.Errorf("Config() = %+v", p.Config())
	}
}

func TestResilientProvider_RetriesTransientFailure(t *testing.T) {
	inner := &flakyProvider{failures: 1}
	p := infraAI.NewResilientProviderWithConfig(inner, infraAI.ResilienceConfig{
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
		Timeout:    5 * time.Second,
	})

	resp, err := p.Complete(context.Background(), ai.CompletionRequest{Prompt: "x"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Text != "ok" {
		t.Errorf("Text = %q", resp.Text)
	}
	if got := inner.calls.Load(); got != 2 {
		t.Errorf("expected 2 calls, got %d", got)
	}
}

func TestResilientProvider_GivesUp(t *testing.T) {
	inner := &flakyProvider{failures: 100}
	p := infraAI.NewResilientProviderWithConfig(inner, infraAI.ResilienceConfig{
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		Timeout:    5 * time.Second,
	})

	if _, err := p.Complete(context.Background(), ai.CompletionRequest{Prompt: "x"}); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if got := inner.calls.Load(); got < 2 {
		t.Errorf("expected the call to be retried, got %d attempts", got)
	}
}

func TestMockProvider_ResponsesInOrder(t *testing.T) {
	m := &infraAI.MockProvider{Model: "m", Responses: []string{"one", "two"}}
	for _, want := range []string{"one", "two", "two"} {
		resp, err := m.Complete(context.Background(), ai.CompletionRequest{Prompt: "x"})
		if err != nil {
			t.Fatal(err)
		}
		if resp.Text != want {
			t.Errorf("Text = %q, want %q", resp.Text, want)
		}
	}
	if len(m.Requests()) != 3 {
		t.Errorf("expected 3 recorded requests, got %d", len(m.Requests()))
	}
}

func TestMockProvider_NoResponses(t *testing.T) {
	m := &infraAI.MockProvider{}
	if _, err := m.Complete(context.Background(), ai.CompletionRequest{}); !errors.Is(err, ai.ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
}
