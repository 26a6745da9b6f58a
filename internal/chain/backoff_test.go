package chain

import (
	"testing"
	"time"
)

func TestRetryPolicyDelaySchedule(t *testing.T) {
	p := DefaultRetryPolicy()
	noJitter := func() float64 { return 0 }

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 10 * time.Second}, // capped
		{6, 10 * time.Second},
		{0, time.Second}, // clamped to the first retry
	}
	for _, tt := range tests {
		got := p.Delay(tt.attempt, noJitter)
		if got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestRetryPolicyJitterBounds(t *testing.T) {
	p := DefaultRetryPolicy()
	fullJitter := func() float64 { return 1 }

	base := p.Delay(2, func() float64 { return 0 })
	jittered := p.Delay(2, fullJitter)

	maxExtra := time.Duration(float64(base) * p.JitterFactor)
	if jittered != base+maxExtra {
		t.Errorf("full jitter delay = %v, want %v", jittered, base+maxExtra)
	}
	if half := p.Delay(2, func() float64 { return 0.5 }); half <= base || half >= jittered {
		t.Errorf("half jitter delay %v not between %v and %v", half, base, jittered)
	}
}

func TestRetryPolicyDelays(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 4, BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}
	got := p.Delays(nil)
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}
	if len(got) != len(want) {
		t.Fatalf("got %d delays, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("delay %d = %v, want %v", i, got[i], want[i])
		}
	}

	if ds := (RetryPolicy{MaxAttempts: 1}).Delays(nil); ds != nil {
		t.Errorf("a single-attempt policy has no retry delays, got %v", ds)
	}
}
