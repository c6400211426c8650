package main

import (
	"image/color"
	"unicode"

	"github.com/Miuzarte/StatsHUD/feeds"
	"github.com/Miuzarte/StatsHUD/presenter"
	"github.com/Miuzarte/StatsHUD/sampler"
)

// hud is the sampler sink every host draws from.
// It is written and read from the host loop only.
type hud struct {
	text      string
	lines     [][]presenter.Span
	buildInfo string
	visible   bool
	dirty     bool

	textColor       color.NRGBA
	backgroundColor color.NRGBA
}

func newHud(cfg *Config) *hud {
	h := &hud{buildInfo: cfg.BuildInfo()}
	h.textColor, _ = presenter.ParseColor(cfg.TextColor)
	h.backgroundColor, _ = presenter.ParseColor(cfg.BackgroundColor)
	return h
}

func (h *hud) SetText(text string) {
	h.text = text
	h.lines = presenter.Parse(text)
	h.dirty = true
}

func (h *hud) SetVisible(visible bool) {
	h.visible = visible
	h.dirty = true
}

// Lines returns the build info followed by the stats, nil while hidden.
func (h *hud) Lines() [][]presenter.Span {
	if !h.visible {
		return nil
	}
	if h.buildInfo == "" {
		return h.lines
	}
	lines := presenter.Parse(h.buildInfo)
	return append(lines, h.lines...)
}

// Text is the full markup, build info included.
func (h *hud) Text() string {
	if h.buildInfo == "" {
		return h.text
	}
	return h.buildInfo + "\n" + h.text
}

// takeDirty reports whether anything changed since the last call.
func (h *hud) takeDirty() bool {
	d := h.dirty
	h.dirty = false
	return d
}

func (h *hud) spanColor(s presenter.Span) color.NRGBA {
	if s.Color == "" {
		return h.textColor
	}
	c, ok := presenter.ParseColor(s.Color)
	if !ok {
		return h.textColor
	}
	return c
}

// frameStats is what a host spent drawing the hud,
// every glyph is one quad.
type frameStats struct {
	DrawCalls    int // non-empty spans
	Batches      int // non-empty lines
	SetPassCalls int // colour switches
	Triangles    int
	Vertices     int
}

func measure(lines [][]presenter.Span) (st frameStats) {
	var last string
	first := true
	for _, line := range lines {
		drawn := false
		for _, span := range line {
			glyphs := 0
			for _, r := range span.Text {
				if !unicode.IsSpace(r) {
					glyphs++
				}
			}
			if glyphs == 0 {
				continue
			}
			drawn = true
			st.DrawCalls++
			st.Triangles += 2 * glyphs
			st.Vertices += 4 * glyphs
			if first || span.Color != last {
				st.SetPassCalls++
				last = span.Color
				first = false
			}
		}
		if drawn {
			st.Batches++
		}
	}
	return
}

// renderGauges publishes frameStats under the builtin render markers.
type renderGauges [len(sampler.Builtins)]*feeds.Gauge

func newRenderGauges(reg *feeds.Registry) (g renderGauges) {
	for i, spec := range sampler.Builtins {
		g[i] = reg.Gauge(spec.Category, spec.Marker)
	}
	return
}

func (g renderGauges) publish(st frameStats) {
	g[0].Set(float64(st.DrawCalls))
	g[1].Set(float64(st.Batches))
	g[2].Set(float64(st.SetPassCalls))
	g[3].Set(float64(st.Triangles))
	g[4].Set(float64(st.Vertices))
}
