package sampler

import "time"

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the real-time clock, unaffected by any time scale.
var SystemClock Clock = systemClock{}

// Timer is a cooperative repeating callback.
// It never sleeps nor spawns anything, the owner polls it from its own loop
// and the callback runs inside Poll once the interval has elapsed.
type Timer struct {
	clock    Clock
	interval time.Duration
	fn       func()

	next    time.Time
	running bool
	fired   int
}

func NewTimer(clock Clock, interval time.Duration, fn func()) *Timer {
	if clock == nil {
		clock = SystemClock
	}
	return &Timer{clock: clock, interval: interval, fn: fn}
}

// Start schedules the first fire one interval from now,
// restarting a running timer reschedules it.
func (t *Timer) Start() {
	t.next = t.clock.Now().Add(t.interval)
	t.running = true
}

func (t *Timer) Stop() {
	t.running = false
}

func (t *Timer) Running() bool {
	return t.running
}

func (t *Timer) Interval() time.Duration {
	return t.interval
}

func (t *Timer) Fired() int {
	return t.fired
}

// Poll fires at most once per call,
// the wait for the next fire starts after the callback returns.
func (t *Timer) Poll() bool {
	if !t.running {
		return false
	}
	if t.clock.Now().Before(t.next) {
		return false
	}
	t.fired++
	if t.fn != nil {
		t.fn()
	}
	if t.running {
		t.next = t.clock.Now().Add(t.interval)
	}
	return true
}
