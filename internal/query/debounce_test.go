package query

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(_ time.Duration, fn func()) Stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// elapse fires every timer that has not been stopped.
func (c *fakeClock) elapse() {
	c.mu.Lock()
	timers := append([]*fakeTimer(nil), c.timers...)
	c.mu.Unlock()
	for _, t := range timers {
		if !t.stopped {
			t.stopped = true
			t.fn()
		}
	}
}

func newTestDebouncer(t *testing.T) (*Debouncer, *fakeClock, *[]string) {
	t.Helper()
	clock := &fakeClock{}
	var settled []string
	d := NewDebouncer(0, func(term string) {
		settled = append(settled, term)
	}, WithAfterFunc(clock.AfterFunc))
	return d, clock, &settled
}

func TestDebouncer_LastKeystrokeWins(t *testing.T) {
	d, clock, settled := newTestDebouncer(t)

	d.Set("a")
	assert.True(t, d.Searching())
	d.Set("ab")
	assert.True(t, d.Searching())
	assert.Equal(t, "ab", d.Term())
	assert.Equal(t, "", d.Settled())

	clock.elapse()

	assert.Equal(t, "ab", d.Settled())
	assert.False(t, d.Searching())
	assert.Equal(t, []string{"ab"}, *settled, "settles exactly once")
	require.Len(t, clock.timers, 2)
	assert.True(t, clock.timers[0].stopped)
}

func TestDebouncer_StaleTimerIsIgnored(t *testing.T) {
	d, clock, settled := newTestDebouncer(t)

	d.Set("a")
	first := clock.timers[0]
	d.Set("ab")

	// A timer that had already fired before Stop reached it.
	first.fn()
	assert.Equal(t, "", d.Settled())
	assert.True(t, d.Searching())
	assert.Empty(t, *settled)

	clock.elapse()
	assert.Equal(t, []string{"ab"}, *settled)
}

func TestDebouncer_RepeatedTermDoesNotReschedule(t *testing.T) {
	d, clock, settled := newTestDebouncer(t)

	d.Set("claim")
	d.Set("claim")
	assert.Len(t, clock.timers, 1)

	clock.elapse()
	d.Set("claim")
	assert.Len(t, clock.timers, 1)
	assert.False(t, d.Searching())
	assert.Equal(t, []string{"claim"}, *settled)
}

func TestDebouncer_FlushAndStop(t *testing.T) {
	d, clock, settled := newTestDebouncer(t)

	d.Set("x")
	d.Flush()
	assert.Equal(t, "x", d.Settled())
	assert.False(t, d.Searching())
	clock.elapse()
	assert.Equal(t, []string{"x"}, *settled, "flushed timer must not settle again")

	d.Flush()
	assert.Equal(t, []string{"x"}, *settled, "flush without pending term is a no-op")

	d.Set("xy")
	d.Stop()
	clock.elapse()
	assert.Equal(t, "x", d.Settled())
	assert.Equal(t, "x", d.Term())
	assert.False(t, d.Searching())
	assert.Equal(t, []string{"x"}, *settled)
}

func TestDebouncer_RealTimer(t *testing.T) {
	done := make(chan string, 1)
	d := NewDebouncer(10*time.Millisecond, func(term string) { done <- term })

	d.Set("a")
	d.Set("ab")

	select {
	case got := <-done:
		assert.Equal(t, "ab", got)
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer never settled")
	}
	assert.False(t, d.Searching())
	assert.Equal(t, "ab", d.Settled())
}
