package sampler

import (
	"testing"
	"time"
)

func TestTimerPoll(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	calls := 0
	tm := NewTimer(clock, time.Second, func() { calls++ })

	if tm.Poll() {
		t.Fatalf("stopped timer fired")
	}

	tm.Start()
	clock.Advance(999 * time.Millisecond)
	if tm.Poll() {
		t.Fatalf("timer fired before its interval")
	}
	clock.Advance(time.Millisecond)
	if !tm.Poll() || calls != 1 {
		t.Fatalf("timer did not fire at its interval, calls = %d", calls)
	}
	if tm.Poll() {
		t.Fatalf("timer fired twice for one interval")
	}

	clock.Advance(5 * time.Second)
	tm.Poll()
	tm.Poll()
	if calls != 2 {
		t.Fatalf("calls = %d after a stall, want 2", calls)
	}

	tm.Stop()
	clock.Advance(time.Hour)
	if tm.Poll() || tm.Running() {
		t.Fatalf("stopped timer still fires")
	}
	if tm.Fired() != 2 {
		t.Fatalf("Fired() = %d, want 2", tm.Fired())
	}
}

func TestTimerStopFromCallback(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	var tm *Timer
	tm = NewTimer(clock, time.Millisecond, func() { tm.Stop() })
	tm.Start()
	clock.Advance(time.Millisecond)
	if !tm.Poll() {
		t.Fatalf("timer did not fire")
	}
	clock.Advance(time.Millisecond)
	if tm.Poll() {
		t.Fatalf("timer stopped in its callback fired again")
	}
}
