package outcome

import "time"

// RetryPolicy is a passive configuration value describing how a caller may
// retry a failed operation. The core never executes retries; the policy
// exists so that hosts can thread one retry description through their own
// scheduling machinery.
type RetryPolicy struct {
	timeout     time.Duration
	maxAttempts int
	delay       time.Duration
	isRetryable func(Error) bool
}

// DefaultRetryPolicy allows 3 attempts 100ms apart with no overall timeout,
// retrying wrapped faults only. Domain errors and cancellations are not
// retried.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		maxAttempts: 3,
		delay:       100 * time.Millisecond,
		isRetryable: func(e Error) bool { return e.Kind == KindException },
	}
}

// WithTimeout returns a copy with an overall deadline for all attempts.
func (p RetryPolicy) WithTimeout(timeout time.Duration) RetryPolicy {
	p.timeout = timeout
	return p
}

// WithMaxAttempts returns a copy with the attempt ceiling set.
func (p RetryPolicy) WithMaxAttempts(attempts int) RetryPolicy {
	p.maxAttempts = attempts
	return p
}

// WithDelay returns a copy with the between-attempt delay set.
func (p RetryPolicy) WithDelay(delay time.Duration) RetryPolicy {
	p.delay = delay
	return p
}

// WithRetryable returns a copy with the fault-selection predicate set.
func (p RetryPolicy) WithRetryable(pred func(Error) bool) RetryPolicy {
	p.isRetryable = pred
	return p
}

// Timeout returns the overall deadline, zero meaning none.
func (p RetryPolicy) Timeout() time.Duration {
	return p.timeout
}

// MaxAttempts returns the attempt ceiling.
func (p RetryPolicy) MaxAttempts() int {
	return p.maxAttempts
}

// Delay returns the between-attempt delay.
func (p RetryPolicy) Delay() time.Duration {
	return p.delay
}

// ShouldRetry reports whether a caller-driven retry loop may attempt again
// after the given error, where attempt is the 1-based count of attempts made
// so far.
func (p RetryPolicy) ShouldRetry(attempt int, e Error) bool {
	if attempt >= p.maxAttempts {
		return false
	}
	if p.isRetryable == nil {
		return true
	}
	return p.isRetryable(e)
}
