package sdk

import (
	"time"

	"github.com/felixgeelhaar/fortify/retry"
)

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request. Chat waits on the server's AI provider,
// so chat-heavy callers raise it well above the 30s default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetry retries transport failures up to maxAttempts times with
// exponential backoff starting at initialDelay. Tool errors are never retried.
func WithRetry(maxAttempts int, initialDelay time.Duration) Option {
	return func(c *Client) {
		c.retryCfg.MaxAttempts = maxAttempts
		c.retryCfg.InitialDelay = initialDelay
	}
}

// WithoutRetry makes every call a single attempt.
func WithoutRetry() Option {
	return WithRetry(1, 0)
}

func defaultRetry() retry.Config {
	return retry.Config{
		MaxAttempts:   3,
		InitialDelay:  500 * time.Millisecond,
		BackoffPolicy: retry.BackoffExponential,
	}
}
