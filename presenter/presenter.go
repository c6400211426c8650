package presenter

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	COLOR_RED    = "red"
	COLOR_YELLOW = "yellow"
	COLOR_GREEN  = "green"
	COLOR_CYAN   = "#00FFFF"
	COLOR_WHITE  = "white"
)

const INVALID_MARKER = "<color=" + COLOR_RED + ">recorder invalid</color>"

// Line is one counter row.
type Line struct {
	Label string
	Value float64
	Valid bool
}

// State is everything a display depends on.
type State struct {
	Framerate float64
	Average   float64
	Frametime time.Duration
	TimeScale float64
	Lines     []Line
}

// FramerateColor picks the tag by half-open brackets,
// a boundary value belongs to the upper bracket.
func FramerateColor(fps float64) string {
	switch {
	case fps < 10:
		return COLOR_RED
	case fps < 30:
		return COLOR_YELLOW
	case fps < 60:
		return COLOR_GREEN
	default:
		return COLOR_CYAN
	}
}

// Format renders the state into a single multi-line string.
func Format(s State) string {
	var sb strings.Builder
	sb.Grow(128 + 32*len(s.Lines))

	sb.WriteString("<color=")
	sb.WriteString(FramerateColor(s.Framerate))
	sb.WriteString(">Framerate: ")
	sb.WriteString(strconv.FormatFloat(s.Framerate, 'f', 2, 64))
	sb.WriteString(" FPS</color> [")
	sb.WriteString(strconv.FormatFloat(s.Average, 'f', 2, 64))
	sb.WriteString("FPS]\n")

	sb.WriteString("<color=" + COLOR_WHITE + ">Frametime: ")
	sb.WriteString(strconv.FormatFloat(float64(s.Frametime)/float64(time.Millisecond), 'f', 2, 64))
	sb.WriteString(" ms</color>\n")

	sb.WriteString("TimeScale: ")
	sb.WriteString(strconv.FormatFloat(s.TimeScale, 'f', 3, 64))
	sb.WriteByte('\n')

	for _, l := range s.Lines {
		sb.WriteString(FormatLine(l))
		sb.WriteByte('\n')
	}

	return sb.String()
}

func FormatLine(l Line) string {
	if !l.Valid {
		return l.Label + ": " + INVALID_MARKER
	}
	return l.Label + ": " + FormatValue(l.Value)
}

// FormatValue prints integral values as integers, others with two decimals.
func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v), math.IsInf(v, 0):
		return strconv.FormatFloat(v, 'f', -1, 64)
	case v == math.Trunc(v) && math.Abs(v) < 1<<53:
		return strconv.FormatInt(int64(v), 10)
	default:
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
}

// BuildInfo composes the build label shown above the stats.
func BuildInfo(product, version string) string {
	return product + " v" + version + "\n(Development Build)"
}
