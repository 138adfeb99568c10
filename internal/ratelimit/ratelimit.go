// Package ratelimit bounds how often a key may be used inside a time window.
// The share service uses it to cap verification code submissions per token.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed bool
	// Remaining is the number of calls left in the current window. -1 means unlimited.
	Remaining int
	// RetryAfter is set when Allowed is false.
	RetryAfter time.Duration
}

// Limiter consumes one attempt for key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Noop never limits.
type Noop struct{}

var _ Limiter = Noop{}

// Allow always allows.
func (Noop) Allow(context.Context, string) (Decision, error) {
	return Decision{Allowed: true, Remaining: -1}, nil
}
