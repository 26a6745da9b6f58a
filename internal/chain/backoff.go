package chain

import (
	"math/rand"
	"time"
)

// RetryPolicy describes how a failed sub-batch is retried: up to MaxAttempts
// tries, delays doubling from BaseDelay, capped at MaxDelay, with up to
// JitterFactor of extra random delay on top.
type RetryPolicy struct {
	MaxAttempts  int
	BaseDelay    time.Duration
	MaxDelay     time.Duration
	JitterFactor float64
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  4,
		BaseDelay:    time.Second,
		MaxDelay:     10 * time.Second,
		JitterFactor: 0.3,
	}
}

// Delay returns the backoff to wait before retry attempt n (1 = first
// retry). The jitter source is injected so the schedule is testable without
// a real clock.
func (p RetryPolicy) Delay(attempt int, jitter func() float64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= p.MaxDelay {
			d = p.MaxDelay
			break
		}
	}
	if d > p.MaxDelay {
		d = p.MaxDelay
	}
	if p.JitterFactor > 0 && jitter != nil {
		d += time.Duration(float64(d) * p.JitterFactor * jitter())
	}
	return d
}

// Delays materializes the full retry schedule (MaxAttempts-1 waits).
func (p RetryPolicy) Delays(jitter func() float64) []time.Duration {
	if p.MaxAttempts <= 1 {
		return nil
	}
	out := make([]time.Duration, 0, p.MaxAttempts-1)
	for i := 1; i < p.MaxAttempts; i++ {
		out = append(out, p.Delay(i, jitter))
	}
	return out
}

func defaultJitter() float64 {
	return rand.Float64()
}
