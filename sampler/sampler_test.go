package sampler

import (
	"strings"
	"testing"
	"time"

	"github.com/Miuzarte/StatsHUD/counter"
	"github.com/Miuzarte/StatsHUD/counter/countertest"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeSink struct {
	texts   []string
	visible bool
}

func (s *fakeSink) SetText(text string) { s.texts = append(s.texts, text) }
func (s *fakeSink) SetVisible(vis bool) { s.visible = vis }

func (s *fakeSink) last() string {
	if len(s.texts) == 0 {
		return ""
	}
	return s.texts[len(s.texts)-1]
}

func publishBuiltins(p *countertest.Provider) {
	for i, spec := range Builtins {
		p.Set(spec.Category, spec.Marker, float64(100*(i+1)))
	}
}

func TestEnableDisableBalanced(t *testing.T) {
	p := countertest.New()
	publishBuiltins(p)
	p.Set(counter.CATEGORY_PHYSICS, "Contacts", 4)

	opts := DefaultOptions()
	opts.Custom = []counter.Spec{
		{Category: counter.CATEGORY_PHYSICS, Label: "Contacts"},
		{Category: counter.CATEGORY_AUDIO, Label: "Missing"},
	}
	s := New(p, nil, nil, opts)

	s.Enable()
	s.Enable()
	if p.Opens != 6 {
		t.Fatalf("Opens = %d, want 6", p.Opens)
	}
	if s.OpenFeeds() != 6 {
		t.Fatalf("OpenFeeds() = %d, want 6", s.OpenFeeds())
	}

	s.Disable()
	s.Disable()
	if p.Opens != p.Closes {
		t.Fatalf("opens %d != closes %d", p.Opens, p.Closes)
	}
	if p.OpenHandles() != 0 || s.OpenFeeds() != 0 {
		t.Fatalf("feeds left open: provider %d, sampler %d", p.OpenHandles(), s.OpenFeeds())
	}
}

func TestDisableWithoutEnable(t *testing.T) {
	p := countertest.New()
	s := New(p, nil, nil, DefaultOptions())
	s.Disable()
	if p.Closes != 0 {
		t.Fatalf("Closes = %d on a never enabled sampler", p.Closes)
	}
}

func TestSetPassClosedSymmetrically(t *testing.T) {
	p := countertest.New()
	publishBuiltins(p)
	opts := Options{SetPassCalls: true}
	s := New(p, nil, nil, opts)
	for range 3 {
		s.Enable()
		s.Disable()
	}
	if p.Opens != 3 || p.Closes != 3 {
		t.Fatalf("opens %d closes %d, want 3/3", p.Opens, p.Closes)
	}
}

func TestPanicDuringEnableReleasesFeeds(t *testing.T) {
	p := countertest.New()
	publishBuiltins(p)
	p.Set(counter.CATEGORY_AI, "Agents", 1)
	p.PanicOn = "Agents"

	opts := DefaultOptions()
	opts.Custom = []counter.Spec{{Category: counter.CATEGORY_AI, Label: "Agents"}}
	s := New(p, nil, nil, opts)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("Enable did not propagate the panic")
			}
		}()
		s.Enable()
	}()

	if p.OpenHandles() != 0 || p.Opens != p.Closes {
		t.Fatalf("feeds leaked after panic: open %d, opens %d closes %d", p.OpenHandles(), p.Opens, p.Closes)
	}
	if s.Enabled() {
		t.Fatalf("sampler enabled after a panicking Enable")
	}
}

func TestFailedCustomCounterOnlyMarksItsLine(t *testing.T) {
	p := countertest.New()
	publishBuiltins(p)
	p.Set(counter.CATEGORY_PHYSICS, "Contacts", 4)
	p.Set(counter.CATEGORY_SCRIPTS, "Broken", 1)
	p.Break(counter.CATEGORY_SCRIPTS, "Broken")
	p.Set(counter.CATEGORY_NETWORK, "Packets", 9)

	opts := DefaultOptions()
	opts.Custom = []counter.Spec{
		{Category: counter.CATEGORY_PHYSICS, Label: "Contacts"},
		{Category: counter.CATEGORY_SCRIPTS, Label: "Broken"},
		{Category: counter.CATEGORY_NETWORK, Label: "Packets"},
	}
	sink := &fakeSink{}
	s := New(p, sink, nil, opts)
	s.Show(true)
	s.Tick(time.Second / 50)

	lines := strings.Split(strings.TrimSuffix(sink.last(), "\n"), "\n")
	want := []string{
		"Draw Calls: 100",
		"Batches: 200",
		"SetPass Calls: 300",
		"Triangles: 400",
		"Vertices: 500",
		"Contacts: 4",
		"Broken: <color=red>recorder invalid</color>",
		"Packets: 9",
	}
	if len(lines) != 3+len(want) {
		t.Fatalf("display has %d lines, want %d:\n%s", len(lines), 3+len(want), sink.last())
	}
	if !strings.HasPrefix(lines[0], "<color=green>Framerate: 50.00 FPS</color> [50.00FPS]") {
		t.Fatalf("framerate line = %q", lines[0])
	}
	for i, w := range want {
		if lines[3+i] != w {
			t.Fatalf("line %d = %q, want %q", 3+i, lines[3+i], w)
		}
	}
}

func TestDisabledBuiltinsAreSkipped(t *testing.T) {
	p := countertest.New()
	publishBuiltins(p)
	opts := Options{Batches: true, Vertices: true}
	sink := &fakeSink{}
	s := New(p, sink, nil, opts)
	s.Enable()
	s.Tick(time.Second / 60)

	got := sink.last()
	if strings.Contains(got, "Draw Calls") || strings.Contains(got, "Triangles") {
		t.Fatalf("disabled builtins rendered:\n%s", got)
	}
	if !strings.Contains(got, "Batches: 200\nVertices: 500\n") {
		t.Fatalf("enabled builtins missing or out of order:\n%s", got)
	}
}

func TestTickEveryCallWithoutDelay(t *testing.T) {
	p := countertest.New()
	publishBuiltins(p)
	sink := &fakeSink{}
	s := New(p, sink, nil, DefaultOptions())
	s.Enable()

	const k = 17
	for range k {
		s.Tick(time.Second / 60)
	}
	if s.Resamples() != k || len(sink.texts) != k {
		t.Fatalf("resamples %d, sink updates %d, want %d", s.Resamples(), len(sink.texts), k)
	}
}

func TestTickThrottledByDelay(t *testing.T) {
	p := countertest.New()
	publishBuiltins(p)
	clock := &fakeClock{now: time.Unix(1000, 0)}
	opts := DefaultOptions()
	opts.Delay = 100 * time.Millisecond
	s := New(p, nil, clock, opts)
	s.Enable()

	// 60 frames of 10ms: a resample is due every 100ms of real time
	for range 60 {
		clock.Advance(10 * time.Millisecond)
		s.Tick(10 * time.Millisecond)
	}
	if s.Resamples() != 6 {
		t.Fatalf("Resamples() = %d, want 6", s.Resamples())
	}
	if s.FPS().History().Len() != 60 {
		t.Fatalf("history = %d samples, want every frame recorded", s.FPS().History().Len())
	}

	// a long stall fires once, not once per missed interval
	clock.Advance(time.Second)
	s.Tick(time.Second)
	if s.Resamples() != 7 {
		t.Fatalf("Resamples() after stall = %d, want 7", s.Resamples())
	}
}

func TestTickWhileDisabledTracksFramerateOnly(t *testing.T) {
	p := countertest.New()
	publishBuiltins(p)
	s := New(p, nil, nil, DefaultOptions())

	s.Tick(time.Second / 20)
	s.Tick(time.Second / 40)
	if s.Resamples() != 0 || p.Reads != 0 {
		t.Fatalf("disabled sampler resampled %d times, %d reads", s.Resamples(), p.Reads)
	}
	if s.FPS().History().Len() != 2 {
		t.Fatalf("history = %d, want 2", s.FPS().History().Len())
	}

	s.Enable()
	s.Disable()
	s.Tick(time.Second / 40)
	if p.ReadsOnStale != 0 {
		t.Fatalf("closed feeds were read %d times", p.ReadsOnStale)
	}
}

func TestMovingAverageWindow(t *testing.T) {
	p := countertest.New()
	sink := &fakeSink{}
	opts := Options{AverageRange: 2}
	s := New(p, sink, nil, opts)
	s.Enable()
	s.Tick(time.Second / 10)
	s.Tick(time.Second / 20)
	s.Tick(time.Second / 40)
	if !strings.HasPrefix(sink.last(), "<color=green>Framerate: 40.00 FPS</color> [30.00FPS]\n") {
		t.Fatalf("display = %q", sink.last())
	}
}

func TestShowTogglesSink(t *testing.T) {
	p := countertest.New()
	publishBuiltins(p)
	sink := &fakeSink{}
	s := New(p, sink, nil, DefaultOptions())

	s.Show(true)
	if !sink.visible || !s.Enabled() {
		t.Fatalf("Show(true): visible %v enabled %v", sink.visible, s.Enabled())
	}
	s.Show(false)
	if sink.visible || s.Enabled() || p.OpenHandles() != 0 {
		t.Fatalf("Show(false): visible %v enabled %v open %d", sink.visible, s.Enabled(), p.OpenHandles())
	}
}

func TestTimeScaleLine(t *testing.T) {
	p := countertest.New()
	sink := &fakeSink{}
	s := New(p, sink, nil, Options{})
	s.SetTimeScale(0.25)
	s.Enable()
	s.Tick(time.Second / 60)
	if !strings.Contains(sink.last(), "\nTimeScale: 0.250\n") {
		t.Fatalf("display = %q", sink.last())
	}
}

func TestDelayClamped(t *testing.T) {
	p := countertest.New()
	if d := New(p, nil, nil, Options{Delay: time.Minute}).Delay(); d != MAX_DELAY {
		t.Fatalf("Delay() = %v, want %v", d, MAX_DELAY)
	}
	if d := New(p, nil, nil, Options{Delay: -time.Second}).Delay(); d != 0 {
		t.Fatalf("Delay() = %v, want 0", d)
	}
}
