package sampler

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Miuzarte/StatsHUD/counter"
	"github.com/Miuzarte/StatsHUD/fps"
	"github.com/Miuzarte/StatsHUD/presenter"
)

const (
	DEFAULT_AVERAGE_RANGE = 60
	MAX_DELAY             = 10 * time.Second
)

// Builtin render counters, in display order.
var Builtins = [...]counter.Spec{
	{Category: counter.CATEGORY_RENDER, Label: "Draw Calls", Marker: "Draw Calls Count"},
	{Category: counter.CATEGORY_RENDER, Label: "Batches", Marker: "Batches Count"},
	{Category: counter.CATEGORY_RENDER, Label: "SetPass Calls", Marker: "SetPass Calls Count"},
	{Category: counter.CATEGORY_RENDER, Label: "Triangles", Marker: "Triangles Count"},
	{Category: counter.CATEGORY_RENDER, Label: "Vertices", Marker: "Vertices Count"},
}

type Options struct {
	DrawCalls    bool
	Batches      bool
	SetPassCalls bool
	Triangles    bool
	Vertices     bool

	Custom []counter.Spec

	// Delay between counter refreshes, 0 refreshes on every tick.
	Delay        time.Duration
	AverageRange int
}

func DefaultOptions() Options {
	return Options{
		DrawCalls:    true,
		Batches:      true,
		SetPassCalls: true,
		Triangles:    true,
		Vertices:     true,
		AverageRange: DEFAULT_AVERAGE_RANGE,
	}
}

func (o Options) builtinEnabled() [len(Builtins)]bool {
	return [len(Builtins)]bool{o.DrawCalls, o.Batches, o.SetPassCalls, o.Triangles, o.Vertices}
}

// Sink receives the rendered display.
type Sink interface {
	SetText(text string)
	SetVisible(visible bool)
}

// Sampler owns the counters of one display
// and refreshes it from the host's frame loop.
// It is not safe for concurrent use, call everything from the loop.
type Sampler struct {
	provider counter.Provider
	sink     Sink

	counters  []*counter.Counter
	fps       fps.Counter
	timer     *Timer
	timeScale float64
	delay     time.Duration

	enabled   bool
	display   string
	resamples int
}

func New(provider counter.Provider, sink Sink, clock Clock, opts Options) *Sampler {
	s := &Sampler{
		provider:  provider,
		sink:      sink,
		fps:       fps.NewCounter(opts.AverageRange),
		timeScale: 1,
		delay:     min(max(opts.Delay, 0), MAX_DELAY),
	}

	enabled := opts.builtinEnabled()
	for i, spec := range Builtins {
		if enabled[i] {
			s.counters = append(s.counters, counter.New(spec))
		}
	}
	for _, spec := range opts.Custom {
		s.counters = append(s.counters, counter.New(spec))
	}

	if s.delay > 0 {
		s.timer = NewTimer(clock, s.delay, s.Resample)
	}
	return s
}

// Enable opens every feed, one failing feed only invalidates its own counter.
// A panicking provider leaves no feed open behind.
func (s *Sampler) Enable() {
	if s.enabled {
		return
	}

	ok := false
	defer func() {
		if !ok {
			s.closeAll()
		}
	}()

	failed := 0
	for _, c := range s.counters {
		if c.Open(s.provider) != nil {
			failed++
		}
	}
	ok = true

	s.enabled = true
	if s.timer != nil {
		s.timer.Start()
	}
	log.Debug().
		Int("counters", len(s.counters)).
		Int("failed", failed).
		Dur("delay", s.delay).
		Msg("sampler enabled")
}

// Disable closes every open feed, calling it while disabled is a no-op.
func (s *Sampler) Disable() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.closeAll()
	if s.enabled {
		log.Debug().Msg("sampler disabled")
	}
	s.enabled = false
}

func (s *Sampler) closeAll() {
	var errs []error
	for _, c := range s.counters {
		if err := c.Close(s.provider); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		log.Warn().Err(err).Msg("failed to close feeds")
	}
}

// Show toggles sampling and the visibility of the sink together.
func (s *Sampler) Show(visible bool) {
	if visible {
		s.Enable()
	} else {
		s.Disable()
	}
	if s.sink != nil {
		s.sink.SetVisible(visible)
	}
}

// Tick is called once per host frame with the unscaled frame duration.
// The frame rate history is fed on every call,
// counters are refreshed every call or when the delay timer fires.
func (s *Sampler) Tick(elapsed time.Duration) {
	s.fps.Tick(elapsed)

	if !s.enabled {
		return
	}
	if s.timer == nil {
		s.Resample()
		return
	}
	s.timer.Poll()
}

// Resample reads every counter and pushes a fresh display to the sink.
func (s *Sampler) Resample() {
	if !s.enabled {
		return
	}
	s.resamples++

	state := s.State()
	s.display = presenter.Format(state)
	if s.sink != nil {
		s.sink.SetText(s.display)
	}
}

// State samples the counters into a presenter state.
func (s *Sampler) State() presenter.State {
	framerate, frametime := s.fps.Count()
	state := presenter.State{
		Framerate: framerate,
		Average:   s.fps.Average(),
		Frametime: frametime,
		TimeScale: s.timeScale,
		Lines:     make([]presenter.Line, len(s.counters)),
	}
	for i, c := range s.counters {
		v, valid := c.Sample(s.provider)
		state.Lines[i] = presenter.Line{Label: c.Label, Value: v, Valid: valid}
	}
	return state
}

func (s *Sampler) SetTimeScale(scale float64) {
	s.timeScale = scale
}

func (s *Sampler) Enabled() bool {
	return s.enabled
}

func (s *Sampler) Display() string {
	return s.display
}

func (s *Sampler) Resamples() int {
	return s.resamples
}

func (s *Sampler) Delay() time.Duration {
	return s.delay
}

func (s *Sampler) FPS() *fps.Counter {
	return &s.fps
}

func (s *Sampler) Counters() []*counter.Counter {
	return s.counters
}

// OpenFeeds returns the number of counters currently holding a feed.
func (s *Sampler) OpenFeeds() (n int) {
	for _, c := range s.counters {
		if c.IsOpen() {
			n++
		}
	}
	return
}
