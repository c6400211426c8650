package feeds

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Miuzarte/StatsHUD/counter"
	"github.com/Miuzarte/StatsHUD/counter/countertest"
)

func TestTable(t *testing.T) {
	calls := 0
	tb := newTable("test", map[string]readFunc{
		"ok": func() (float64, error) {
			calls++
			return 3, nil
		},
		"bad": func() (float64, error) {
			return 0, errors.New("boom")
		},
	})

	if _, err := tb.Open(counter.CATEGORY_AI, "missing"); !errors.Is(err, counter.ErrUnknownCounter) {
		t.Fatalf("Open(missing) err = %v", err)
	}

	h, err := tb.Open(counter.CATEGORY_AI, "ok")
	if err != nil {
		t.Fatalf("Open(ok): %v", err)
	}
	if v, ok := tb.Read(h); !ok || v != 3 {
		t.Fatalf("Read(ok) = %v, %v", v, ok)
	}

	hb, _ := tb.Open(counter.CATEGORY_AI, "bad")
	if _, ok := tb.Read(hb); ok {
		t.Fatalf("failing read reported valid")
	}

	if err := tb.Close(h); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := tb.Read(h); ok || calls != 1 {
		t.Fatalf("closed handle read, calls = %d", calls)
	}
	if err := tb.Close(h); !errors.Is(err, counter.ErrClosed) {
		t.Fatalf("double Close err = %v", err)
	}
	tb.Close(hb)
	if tb.OpenHandles() != 0 {
		t.Fatalf("OpenHandles() = %d", tb.OpenHandles())
	}
	if m := tb.Markers(); len(m) != 2 || m[0] != "bad" || m[1] != "ok" {
		t.Fatalf("Markers() = %v", m)
	}
}

func TestMuxRoutes(t *testing.T) {
	render := countertest.New()
	render.Set(counter.CATEGORY_RENDER, "Draw Calls Count", 10)
	fallback := countertest.New()
	fallback.Set(counter.CATEGORY_AUDIO, "Voices", 2)
	fallback.Set(counter.CATEGORY_RENDER, "Draw Calls Count", 99)

	mux := NewMux(fallback).Handle(render, counter.CATEGORY_RENDER)

	hr, err := mux.Open(counter.CATEGORY_RENDER, "Draw Calls Count")
	if err != nil {
		t.Fatalf("Open render: %v", err)
	}
	ha, err := mux.Open(counter.CATEGORY_AUDIO, "Voices")
	if err != nil {
		t.Fatalf("Open audio: %v", err)
	}
	if hr == ha {
		t.Fatalf("mux reused handle %d", hr)
	}

	if v, _ := mux.Read(hr); v != 10 {
		t.Fatalf("render routed to fallback, got %v", v)
	}
	if v, _ := mux.Read(ha); v != 2 {
		t.Fatalf("audio read = %v, want 2", v)
	}

	mux.Close(hr)
	mux.Close(ha)
	if render.Opens != render.Closes || fallback.Opens != fallback.Closes || mux.OpenHandles() != 0 {
		t.Fatalf("unbalanced: render %d/%d fallback %d/%d mux %d",
			render.Opens, render.Closes, fallback.Opens, fallback.Closes, mux.OpenHandles())
	}
	if _, ok := mux.Read(hr); ok {
		t.Fatalf("closed mux handle read valid")
	}
}

func TestMuxWithoutFallback(t *testing.T) {
	mux := NewMux(nil)
	if _, err := mux.Open(counter.CATEGORY_VR, "x"); !errors.Is(err, ErrNoProvider) {
		t.Fatalf("Open err = %v, want ErrNoProvider", err)
	}
	if err := mux.Close(42); !errors.Is(err, counter.ErrClosed) {
		t.Fatalf("Close err = %v", err)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	g := r.Gauge(counter.CATEGORY_RENDER, "Draw Calls Count")
	if r.Gauge(counter.CATEGORY_RENDER, "Draw Calls Count") != g {
		t.Fatalf("Gauge() did not return the cached gauge")
	}
	g.Set(5)
	g.Add(2.5)

	if _, err := r.Open(counter.CATEGORY_RENDER, "Batches Count"); !errors.Is(err, counter.ErrUnknownCounter) {
		t.Fatalf("Open unpublished err = %v", err)
	}

	h, err := r.Open(counter.CATEGORY_RENDER, "Draw Calls Count")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if v, ok := r.Read(h); !ok || v != 7.5 {
		t.Fatalf("Read = %v, %v, want 7.5", v, ok)
	}

	r.Remove(counter.CATEGORY_RENDER, "Draw Calls Count")
	if _, ok := r.Read(h); ok {
		t.Fatalf("removed gauge still valid")
	}
	if r.Has(counter.CATEGORY_RENDER, "Draw Calls Count") {
		t.Fatalf("Has() after Remove")
	}
	if err := r.Close(h); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if r.OpenHandles() != 0 {
		t.Fatalf("OpenHandles() = %d", r.OpenHandles())
	}
}

func TestRegistryRangeSorted(t *testing.T) {
	r := NewRegistry()
	r.Gauge(counter.CATEGORY_RENDER, "b")
	r.Gauge(counter.CATEGORY_AI, "z")
	r.Gauge(counter.CATEGORY_RENDER, "a")

	var got []string
	r.Range(func(c counter.Category, m string, _ *Gauge) {
		got = append(got, c.String()+"/"+m)
	})
	want := []string{"AI/z", "Render/a", "Render/b"}
	if len(got) != len(want) {
		t.Fatalf("Range() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Range() = %v, want %v", got, want)
		}
	}
	if r.Count() != 3 {
		t.Fatalf("Count() = %d", r.Count())
	}
}

func TestDisplays(t *testing.T) {
	n := 2
	d := newDisplays(
		func() int { return n },
		func(i int) image.Rectangle {
			if i == 0 {
				return image.Rect(0, 0, 1920, 1080)
			}
			return image.Rect(1920, 0, 1920+2560, 1440)
		},
	)

	read := func(marker string) (float64, bool) {
		h, err := d.Open(counter.CATEGORY_VIDEO, marker)
		if err != nil {
			return 0, false
		}
		defer d.Close(h)
		return d.Read(h)
	}

	if v, _ := read("Display Width"); v != 2560 {
		t.Fatalf("Display Width = %v, want 2560", v)
	}
	if v, _ := read("Desktop Width"); v != 4480 {
		t.Fatalf("Desktop Width = %v, want 4480", v)
	}
	if v, _ := read("Displays"); v != 2 {
		t.Fatalf("Displays = %v", v)
	}

	n = 0
	if _, err := d.Open(counter.CATEGORY_VIDEO, "Display Height"); !errors.Is(err, ErrNoDisplay) {
		t.Fatalf("Open without displays err = %v", err)
	}
	if v, ok := read("Displays"); !ok || v != 0 {
		t.Fatalf("Displays without displays = %v, %v", v, ok)
	}
	if d.OpenHandles() != 0 {
		t.Fatalf("OpenHandles() = %d", d.OpenHandles())
	}
}

func TestRuntime(t *testing.T) {
	rt := NewRuntime()
	h, err := rt.Open(counter.CATEGORY_SCRIPTS, "Goroutines")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rt.Close(h)
	if v, ok := rt.Read(h); !ok || v < 1 {
		t.Fatalf("Goroutines = %v, %v", v, ok)
	}
}

func TestProcessSelf(t *testing.T) {
	p, err := NewSelf()
	if err != nil {
		t.Fatalf("NewSelf: %v", err)
	}
	if int(p.Pid()) != os.Getpid() {
		t.Fatalf("Pid() = %d", p.Pid())
	}
	if _, err := p.Open(counter.CATEGORY_INTERNAL, "Nonsense"); !errors.Is(err, counter.ErrUnknownCounter) {
		t.Fatalf("Open unknown err = %v", err)
	}
	for _, marker := range p.Markers() {
		h, err := p.Open(counter.CATEGORY_INTERNAL, marker)
		if err != nil {
			t.Fatalf("Open(%q): %v", marker, err)
		}
		// values depend on the platform, reading must just not panic
		p.Read(h)
		if err := p.Close(h); err != nil {
			t.Fatalf("Close(%q): %v", marker, err)
		}
	}
	if p.OpenHandles() != 0 {
		t.Fatalf("OpenHandles() = %d", p.OpenHandles())
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	w := NewWatch()

	if _, err := w.Open(counter.CATEGORY_FILE_IO, filepath.Join(dir, "missing")); err == nil {
		t.Fatalf("Open on a missing path succeeded")
	}

	h, err := w.Open(counter.CATEGORY_FILE_IO, dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if v, ok := w.Read(h); !ok || v != 0 {
		t.Fatalf("Read before any event = %v, %v", v, ok)
	}

	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		v, ok := w.Read(h)
		if !ok {
			t.Fatalf("watch became invalid")
		}
		if v >= 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("no event counted")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := w.Close(h); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := w.Read(h); ok {
		t.Fatalf("closed watch read valid")
	}
	if w.OpenHandles() != 0 {
		t.Fatalf("OpenHandles() = %d", w.OpenHandles())
	}
}

func TestHostMuxFallsBackToRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Gauge(counter.CATEGORY_RENDER, "Draw Calls Count").Set(12)
	mux, err := NewHostMux(reg)
	if err != nil {
		t.Fatalf("NewHostMux: %v", err)
	}
	h, err := mux.Open(counter.CATEGORY_RENDER, "Draw Calls Count")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if v, ok := mux.Read(h); !ok || v != 12 {
		t.Fatalf("Read = %v, %v", v, ok)
	}
	mux.Close(h)

	h, err = mux.Open(counter.CATEGORY_SCRIPTS, "Goroutines")
	if err != nil {
		t.Fatalf("Scripts not routed to runtime: %v", err)
	}
	mux.Close(h)
	if mux.OpenHandles() != 0 || reg.OpenHandles() != 0 {
		t.Fatalf("handles left open: mux %d registry %d", mux.OpenHandles(), reg.OpenHandles())
	}
}
