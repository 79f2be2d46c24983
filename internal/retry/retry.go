package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/derekbar90/zenhub-mcp/internal/domain"
)

// =============================================================================
// Config
// =============================================================================

// Config controls retry behaviour for upstream calls.
type Config struct {
	MaxRetries     int           `json:"maxRetries"`     // Maximum number of retry attempts (0 = no retries)
	InitialBackoff time.Duration `json:"initialBackoff"` // Delay before first retry
	MaxBackoff     time.Duration `json:"maxBackoff"`     // Upper bound on backoff duration
	Multiplier     float64       `json:"multiplier"`     // Backoff multiplier (e.g. 2.0 for exponential)
}

// DefaultConfig returns the readiness-poll defaults: five retries starting at
// 500ms and doubling, roughly 15s in total before giving up.
func DefaultConfig() Config {
	return Config{
		MaxRetries:     5,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     8 * time.Second,
		Multiplier:     2.0,
	}
}

// FromDomain converts the millisecond-based config file representation. Zero
// fields fall back to DefaultConfig values; MaxRetries is taken as-is.
func FromDomain(c domain.RetryConfig) Config {
	cfg := DefaultConfig()
	cfg.MaxRetries = c.MaxRetries
	if c.InitialBackoff > 0 {
		cfg.InitialBackoff = time.Duration(c.InitialBackoff) * time.Millisecond
	}
	if c.MaxBackoff > 0 {
		cfg.MaxBackoff = time.Duration(c.MaxBackoff) * time.Millisecond
	}
	if c.Multiplier > 0 {
		cfg.Multiplier = float64(c.Multiplier)
	}
	return cfg
}

// Validate checks that all Config fields are within acceptable ranges.
func (c Config) Validate() error {
	if c.MaxRetries < 0 {
		return errors.New("retry: MaxRetries must be >= 0")
	}
	if c.InitialBackoff <= 0 {
		return errors.New("retry: InitialBackoff must be > 0")
	}
	if c.MaxBackoff <= 0 {
		return errors.New("retry: MaxBackoff must be > 0")
	}
	if c.Multiplier < 1.0 {
		return errors.New("retry: Multiplier must be >= 1.0")
	}
	return nil
}

// =============================================================================
// Error Classification
// =============================================================================

// retryableStatusCodes are HTTP status codes that indicate a transient failure.
var retryableStatusCodes = []string{"429", "500", "502", "503", "504"}

// IsRetryable returns true when err represents a transient failure that may
// succeed on retry (5xx, 429, timeout, connection refused, EOF).
// Context errors (Canceled, DeadlineExceeded) are never retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := err.Error()
	for _, code := range retryableStatusCodes {
		if strings.Contains(msg, code) {
			return true
		}
	}
	if strings.Contains(msg, "connection refused") {
		return true
	}
	if strings.Contains(msg, "EOF") {
		return true
	}
	return false
}

// =============================================================================
// Retrier
// =============================================================================

// Option configures a Retrier.
type Option func(*Retrier)

// WithRetryable replaces IsRetryable as the classifier. If fn is nil it is ignored.
func WithRetryable(fn func(error) bool) Option {
	return func(r *Retrier) {
		if fn != nil {
			r.retryable = fn
		}
	}
}

// WithSleep replaces the context-aware sleep; tests use it to avoid real delays.
func WithSleep(fn func(context.Context, time.Duration) error) Option {
	return func(r *Retrier) {
		if fn != nil {
			r.sleepFunc = fn
		}
	}
}

// Retrier runs an operation with exponential backoff between attempts.
type Retrier struct {
	config    Config
	retryable func(error) bool
	sleepFunc func(context.Context, time.Duration) error
}

// New returns a Retrier for cfg. Invalid configs are replaced by DefaultConfig.
func New(cfg Config, opts ...Option) *Retrier {
	if cfg.Validate() != nil {
		cfg = DefaultConfig()
	}
	r := &Retrier{
		config:    cfg,
		retryable: IsRetryable,
		sleepFunc: sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the effective configuration.
func (r *Retrier) Config() Config { return r.config }

// Do calls op until it succeeds, returns a non-retryable error, the context is
// done, or retries are exhausted. The last error is returned wrapped.
func (r *Retrier) Do(ctx context.Context, op func(context.Context) error) error {
	var lastErr error
	backoff := r.config.InitialBackoff

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !r.retryable(err) {
			return err
		}
		if attempt == r.config.MaxRetries {
			break
		}
		if err := r.sleepFunc(ctx, backoff); err != nil {
			return err
		}

		next := time.Duration(float64(backoff) * r.config.Multiplier)
		if next > r.config.MaxBackoff {
			next = r.config.MaxBackoff
		}
		backoff = next
	}

	return fmt.Errorf("retries exhausted after %d attempts: %w", r.config.MaxRetries+1, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
