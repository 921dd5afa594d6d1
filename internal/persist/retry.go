package persist

import "time"

// RetryPolicy shapes the backoff between snapshot flush attempts. Zero
// fields fall back to DefaultRetryPolicy figures.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryPolicy is tuned for the snapshot flusher: a transient
// sqlite lock clears well within three doubling waits.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:    3,
		InitialDelay:  time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2,
	}
}

// NextDelay returns the wait before the next flush attempt (1-based),
// clamped to MaxDelay.
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	def := DefaultRetryPolicy()
	if r.InitialDelay <= 0 {
		r.InitialDelay = def.InitialDelay
	}
	if r.BackoffFactor <= 0 {
		r.BackoffFactor = def.BackoffFactor
	}

	d := r.InitialDelay
	for i := 1; i < attempt; i++ {
		d = time.Duration(float64(d) * r.BackoffFactor)
		if r.MaxDelay > 0 && d >= r.MaxDelay {
			return r.MaxDelay
		}
	}
	if d <= 0 {
		return def.InitialDelay
	}
	return d
}
