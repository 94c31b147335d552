package query

import (
	"sync"
	"time"
)

// DefaultSearchDelay is how long the live term must stay unchanged before it
// is applied.
const DefaultSearchDelay = 300 * time.Millisecond

// Stopper cancels a scheduled task. *time.Timer satisfies it.
type Stopper interface {
	Stop() bool
}

// AfterFunc schedules f after d.
type AfterFunc func(d time.Duration, f func()) Stopper

func timeAfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// Debouncer delays a search term until input pauses. It holds at most one
// pending task; each Set cancels the previous one so only the newest term
// is ever applied.
type Debouncer struct {
	delay     time.Duration
	afterFunc AfterFunc
	onSettle  func(term string)

	mu      sync.Mutex
	live    string
	settled string
	pending bool
	seq     uint64
	timer   Stopper
}

// DebounceOption customizes a Debouncer.
type DebounceOption func(*Debouncer)

// WithAfterFunc replaces the timer source.
func WithAfterFunc(fn AfterFunc) DebounceOption {
	return func(d *Debouncer) {
		if fn != nil {
			d.afterFunc = fn
		}
	}
}

// NewDebouncer returns a Debouncer that waits delay (DefaultSearchDelay when
// non-positive) and calls onSettle once per settled term. onSettle runs on
// the timer goroutine unless the term was settled with Flush.
func NewDebouncer(delay time.Duration, onSettle func(term string), opts ...DebounceOption) *Debouncer {
	if delay <= 0 {
		delay = DefaultSearchDelay
	}
	d := &Debouncer{
		delay:     delay,
		afterFunc: timeAfterFunc,
		onSettle:  onSettle,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Set records a new live term and restarts the delay. Repeating the
// current live term changes nothing.
func (d *Debouncer) Set(term string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if term == d.live && (d.pending || term == d.settled) {
		return
	}
	d.live = term
	d.cancelLocked()
	d.pending = true
	seq := d.seq
	d.timer = d.afterFunc(d.delay, func() { d.fire(seq) })
}

// Flush applies the live term immediately if one is pending.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	d.cancelLocked()
	term := d.settleLocked()
	d.mu.Unlock()
	d.notify(term)
}

// Stop cancels any pending task without applying it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.cancelLocked()
	d.pending = false
	d.live = d.settled
	d.mu.Unlock()
}

// Term is the live, possibly unsettled, term.
func (d *Debouncer) Term() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live
}

// Settled is the term the pipeline should search with.
func (d *Debouncer) Settled() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settled
}

// Searching reports whether a term is waiting to settle.
func (d *Debouncer) Searching() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	if seq != d.seq || !d.pending {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	term := d.settleLocked()
	d.mu.Unlock()
	d.notify(term)
}

// cancelLocked stops the current timer and invalidates callbacks that
// already fired but have not yet taken the lock.
func (d *Debouncer) cancelLocked() {
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) settleLocked() string {
	d.settled = d.live
	d.pending = false
	return d.settled
}

func (d *Debouncer) notify(term string) {
	if d.onSettle != nil {
		d.onSettle(term)
	}
}
