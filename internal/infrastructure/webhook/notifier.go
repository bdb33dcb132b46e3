// Package webhook delivers plan change events to configured HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/felixgeelhaar/cadence/internal/infrastructure/config"
	"github.com/felixgeelhaar/cadence/pkg/application"
)

const (
	SignatureHeader = "X-Cadence-Signature"
	userAgent       = "Cadence-Webhook/1.0"

	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
)

var _ application.ChangeNotifier = (*Notifier)(nil)

// Notifier posts plan change events to every subscribed endpoint.
// Delivery runs in the background; call Wait before exiting.
type Notifier struct {
	endpoints  []config.WebhookConfig
	client     *http.Client
	deadLetter *DeadLetterStore
	logger     *slog.Logger
	now        func() time.Time
	wg         sync.WaitGroup
}

// NewNotifier creates a notifier. Disabled endpoints are skipped and a nil
// deadLetter drops failed deliveries after logging them.
func NewNotifier(endpoints []config.WebhookConfig, deadLetter *DeadLetterStore, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		endpoints: endpoints,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		deadLetter: deadLetter,
		logger:     logger,
		now:        time.Now,
	}
}

// Payload is the JSON body sent to webhook endpoints.
type Payload struct {
	EventType string                       `json:"event_type"`
	Timestamp time.Time                    `json:"timestamp"`
	Data      application.PlanChangedEvent `json:"data"`
}

// Notify starts delivery of event to all matching endpoints. Deliveries are
// detached from ctx cancellation so an interrupted command still flushes.
func (n *Notifier) Notify(ctx context.Context, event application.PlanChangedEvent) {
	ctx = context.WithoutCancel(ctx)
	for _, ep := range n.endpoints {
		if ep.Disabled || !matchesFilter(ep, event.Type) {
			continue
		}
		body, err := encode(ep, event)
		if err != nil {
			n.logger.Error("webhook payload", "webhook", ep.Name, "error", err)
			continue
		}
		n.wg.Add(1)
		go func(ep config.WebhookConfig) {
			defer n.wg.Done()
			n.deliver(ctx, ep, event.Type, body)
		}(ep)
	}
}

// Wait blocks until every started delivery has finished or been dead-lettered.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func encode(ep config.WebhookConfig, event application.PlanChangedEvent) ([]byte, error) {
	if ep.Format == FormatSlack {
		return slackBody(event)
	}
	return json.Marshal(Payload{
		EventType: event.Type,
		Timestamp: event.Timestamp,
		Data:      event,
	})
}

func matchesFilter(ep config.WebhookConfig, eventType string) bool {
	return len(ep.Events) == 0 || slices.Contains(ep.Events, eventType)
}

func (n *Notifier) deliver(ctx context.Context, ep config.WebhookConfig, eventType string, body []byte) {
	maxRetries := ep.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	retryDelay := time.Duration(ep.RetryDelayMs) * time.Millisecond
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}

	r := retry.New[struct{}](retry.Config{
		MaxAttempts:   maxRetries,
		InitialDelay:  retryDelay,
		BackoffPolicy: retry.BackoffExponential,
	})
	attempts := 0
	_, err := r.Do(ctx, func(ctx context.Context) (struct{}, error) {
		attempts++
		return struct{}{}, n.send(ctx, ep, body)
	})
	if err == nil {
		n.logger.Debug("webhook delivered", "webhook", ep.Name, "event", eventType, "attempts", attempts)
		return
	}

	n.logger.Warn("webhook delivery failed", "webhook", ep.Name, "event", eventType, "attempts", attempts, "error", err)
	if n.deadLetter == nil {
		return
	}
	dl := DeadLetter{
		Timestamp:   n.now(),
		WebhookName: ep.Name,
		URL:         ep.URL,
		EventType:   eventType,
		Payload:     string(body),
		Error:       err.Error(),
		Attempts:    attempts,
	}
	if err := n.deadLetter.Append(dl); err != nil {
		n.logger.Error("dead letter append", "webhook", ep.Name, "error", err)
	}
}

func (n *Notifier) send(ctx context.Context, ep config.WebhookConfig, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if ep.Secret != "" {
		req.Header.Set(SignatureHeader, Sign(body, ep.Secret))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// Sign computes the HMAC-SHA256 signature receivers use to verify a payload.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
