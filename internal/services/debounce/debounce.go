// Package debounce coalesces bursts of input changes before they trigger an
// estimate. Changes to the amount or either token selector within the window
// collapse into one trigger carrying the final values; this is what makes
// inputs "stable" at the estimator boundary.
package debounce

import (
	"math/big"
	"sync"
	"time"

	"github.com/kaonlabs/splitswap/internal/domain"
)

// Input is one snapshot of the swap form.
type Input struct {
	From   domain.Token
	To     domain.Token
	Amount *big.Int
}

// Debouncer fires the callback once per burst, with the last Input seen,
// after the window has elapsed without further updates. Fire runs on the
// timer goroutine; callbacks serialize estimator invocations by construction
// because a new burst resets the timer rather than starting a second one.
type Debouncer struct {
	window time.Duration
	fire   func(Input)

	mu      sync.Mutex
	pending *Input
	timer   *time.Timer
	gen     uint64
	stopped bool
}

func New(window time.Duration, fire func(Input)) *Debouncer {
	return &Debouncer{window: window, fire: fire}
}

// Update records a new input snapshot and (re)starts the window. Each update
// advances a generation counter; a timer that already fired but lost the
// race to the lock carries a stale generation and must not consume the
// replaced input. timer.Stop alone cannot rule that out.
func (d *Debouncer) Update(in Input) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = &in
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() { d.flush(gen) })
}

func (d *Debouncer) flush(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.stopped || d.pending == nil {
		d.mu.Unlock()
		return
	}
	in := *d.pending
	d.pending = nil
	d.mu.Unlock()
	d.fire(in)
}

// Flush fires immediately with any pending input, bypassing the window.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.mu.Unlock()
	d.flush(gen)
}

// Stop cancels any pending trigger. Further updates are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = nil
}
