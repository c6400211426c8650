package fps

import (
	"time"

	"github.com/Miuzarte/StatsHUD/history"
)

type state struct {
	fps       float64
	frametime time.Duration
	frames    int
	history   *history.Ring
}

// Counter tracks the instantaneous frame rate of every frame
// and keeps a rolling window of them for the moving average.
type Counter struct {
	*state
}

func NewCounter(averageRange int) Counter {
	return Counter{state: &state{history: history.New(averageRange)}}
}

// Tick records one frame that took elapsed,
// non-positive durations are dropped.
func (fc *Counter) Tick(elapsed time.Duration) bool {
	if elapsed <= 0 {
		return false
	}
	fc.frames++
	fc.frametime = elapsed
	fc.fps = 1 / elapsed.Seconds()
	fc.history.Push(fc.fps)
	return true
}

func (fc *Counter) Count() (fps float64, frametime time.Duration) {
	return fc.fps, fc.frametime
}

func (fc *Counter) Average() float64 {
	return fc.history.Average()
}

func (fc *Counter) Frames() int {
	return fc.frames
}

func (fc *Counter) History() *history.Ring {
	return fc.history
}

func (fc *Counter) Reset() {
	fc.fps = 0
	fc.frametime = 0
	fc.frames = 0
	fc.history.Reset()
}

// Delta measures unscaled time between consecutive frames.
type Delta struct {
	last time.Time
}

// Lap returns the time since the previous lap, 0 on the first one.
func (d *Delta) Lap(now time.Time) (elapsed time.Duration) {
	if !d.last.IsZero() {
		elapsed = now.Sub(d.last)
	}
	d.last = now
	return
}
