package alert

import (
	"testing"
	"time"
)

func TestTrigger(t *testing.T) {
	base := time.Unix(0, 0)
	at := func(ms int) time.Time { return base.Add(time.Duration(ms) * time.Millisecond) }

	tr := Trigger{Threshold: 30, Cooldown: time.Second}
	steps := []struct {
		ms   int
		fps  float64
		want bool
	}{
		{0, 60, false},
		{10, 0, false}, // no frame yet
		{20, 25, true},
		{30, 20, false}, // cooling down
		{1020, 20, true},
		{1030, 45, false},
		{1040, 29.9, true}, // recovered, fires again at once
		{1050, 30, false},  // boundary is not below
	}
	for i, s := range steps {
		if got := tr.Observe(at(s.ms), s.fps); got != s.want {
			t.Fatalf("step %d (%dms, %v fps) = %v, want %v", i, s.ms, s.fps, got, s.want)
		}
	}
}

func TestTriggerDisabled(t *testing.T) {
	tr := Trigger{}
	if tr.Observe(time.Now(), 1) {
		t.Fatalf("zero threshold fired")
	}
}

func TestBeeperSilentWithoutSpeaker(t *testing.T) {
	b := New(30)
	now := time.Now()
	if b.Observe(now, 10) {
		t.Fatalf("uninitialized beeper reported a beep")
	}
	b.Observe(now.Add(time.Millisecond), 10)
	b.Observe(now.Add(2*DEFAULT_COOLDOWN), 10)
	if b.Alerts() != 2 {
		t.Fatalf("Alerts() = %d, want 2", b.Alerts())
	}
	b.Close()
}
