package llm

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
)

// RetryPolicy decides, from the error kind alone, whether a failed attempt is
// followed by another one and how long to wait first.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy returns 3 attempts with a 1s linear step
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultMaxAttempts, BaseDelay: DefaultBaseDelay}
}

// ShouldRetry reports whether attempt (1-based, the one that just failed with
// kind) may be followed by another
func (p RetryPolicy) ShouldRetry(kind Kind, attempt int) bool {
	return kind.Retryable() && attempt < p.maxAttempts()
}

// Delay is the wait after the given failed attempt: attempt × BaseDelay
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		return 0
	}
	return time.Duration(attempt) * p.BaseDelay
}

func (p RetryPolicy) maxAttempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// NewBackOff returns a fresh backoff.BackOff following the policy. The
// returned value carries attempt state and must not be shared between calls.
func (p RetryPolicy) NewBackOff() backoff.BackOff {
	return &policyBackOff{policy: p}
}

// policyBackOff counts failures; kind filtering happens in the operation via
// backoff.Permanent.
type policyBackOff struct {
	policy  RetryPolicy
	attempt int
}

func (b *policyBackOff) NextBackOff() time.Duration {
	b.attempt++
	if b.attempt >= b.policy.maxAttempts() {
		return backoff.Stop
	}
	return b.policy.Delay(b.attempt)
}

func (b *policyBackOff) Reset() {
	b.attempt = 0
}
