// Package alert beeps when the frame rate drops below a threshold.
package alert

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog/log"
)

const (
	SAMPLE_RATE      = beep.SampleRate(44100)
	TONE_FREQUENCY   = 880
	TONE_DURATION    = 80 * time.Millisecond
	DEFAULT_COOLDOWN = 3 * time.Second
)

// Trigger fires when a value crosses below Threshold,
// and again every Cooldown while it stays below.
// A non-positive Threshold disables it, non-positive values are ignored.
type Trigger struct {
	Threshold float64
	Cooldown  time.Duration

	below bool
	last  time.Time
}

func (t *Trigger) Observe(now time.Time, v float64) bool {
	if t.Threshold <= 0 || v <= 0 {
		return false
	}
	if v >= t.Threshold {
		t.below = false
		return false
	}
	if t.below && now.Sub(t.last) < t.Cooldown {
		return false
	}
	t.below = true
	t.last = now
	return true
}

// Beeper plays a short sine tone whenever its Trigger fires.
type Beeper struct {
	Trigger

	mu          sync.Mutex
	initialized bool
	beeps       int
}

func New(threshold float64) *Beeper {
	return &Beeper{Trigger: Trigger{Threshold: threshold, Cooldown: DEFAULT_COOLDOWN}}
}

// Init opens the speaker, a Beeper that failed to init stays silent.
func (b *Beeper) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}
	err := speaker.Init(SAMPLE_RATE, SAMPLE_RATE.N(time.Second/10))
	if err != nil {
		return fmt.Errorf("failed to init speaker: %w", err)
	}
	b.initialized = true
	return nil
}

// Observe feeds the current frame rate, it reports whether it beeped.
func (b *Beeper) Observe(now time.Time, fps float64) bool {
	if !b.Trigger.Observe(now, fps) {
		return false
	}
	log.Debug().Float64("fps", fps).Float64("threshold", b.Threshold).Msg("frame rate alert")

	b.mu.Lock()
	defer b.mu.Unlock()
	b.beeps++
	if !b.initialized {
		return false
	}
	sine, err := generators.SineTone(SAMPLE_RATE, TONE_FREQUENCY)
	if err != nil {
		log.Warn().Err(err).Msg("failed to generate tone")
		return false
	}
	speaker.Play(beep.Take(SAMPLE_RATE.N(TONE_DURATION), sine))
	return true
}

// Alerts counts every fire, audible or not.
func (b *Beeper) Alerts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.beeps
}

func (b *Beeper) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		speaker.Close()
		b.initialized = false
	}
}
