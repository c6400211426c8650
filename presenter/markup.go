package presenter

import (
	"encoding/hex"
	"image/color"
	"strings"
)

// Span is a run of text sharing one colour, an empty Color means default.
type Span struct {
	Text  string
	Color string
}

// Parse splits a display string into lines of coloured spans.
// Only <color=...> and </color> tags are understood, nesting is a stack,
// anything else passes through as text.
func Parse(text string) [][]Span {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	rawLines := strings.Split(text, "\n")
	lines := make([][]Span, 0, len(rawLines))

	var stack []string
	for _, raw := range rawLines {
		var spans []Span
		var buf strings.Builder
		flush := func() {
			if buf.Len() == 0 {
				return
			}
			var c string
			if len(stack) > 0 {
				c = stack[len(stack)-1]
			}
			spans = append(spans, Span{Text: buf.String(), Color: c})
			buf.Reset()
		}

		for len(raw) > 0 {
			switch {
			case strings.HasPrefix(raw, "</color>"):
				flush()
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				raw = raw[len("</color>"):]

			case strings.HasPrefix(raw, "<color="):
				end := strings.IndexByte(raw, '>')
				if end < 0 {
					buf.WriteString(raw)
					raw = ""
					continue
				}
				flush()
				stack = append(stack, strings.Trim(raw[len("<color="):end], `"'`))
				raw = raw[end+1:]

			default:
				next := strings.IndexByte(raw[1:], '<')
				if next < 0 {
					buf.WriteString(raw)
					raw = ""
				} else {
					buf.WriteString(raw[:next+1])
					raw = raw[next+1:]
				}
			}
		}
		flush()
		lines = append(lines, spans)
	}
	return lines
}

// Strip removes colour tags.
func Strip(text string) string {
	var sb strings.Builder
	for i, line := range Parse(text) {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, s := range line {
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

var namedColors = map[string]color.NRGBA{
	"white":   {0xFF, 0xFF, 0xFF, 0xFF},
	"black":   {0x00, 0x00, 0x00, 0xFF},
	"red":     {0xFF, 0x00, 0x00, 0xFF},
	"yellow":  {0xFF, 0xEB, 0x04, 0xFF},
	"green":   {0x00, 0xFF, 0x00, 0xFF},
	"cyan":    {0x00, 0xFF, 0xFF, 0xFF},
	"blue":    {0x00, 0x00, 0xFF, 0xFF},
	"magenta": {0xFF, 0x00, 0xFF, 0xFF},
	"orange":  {0xFF, 0xA5, 0x00, 0xFF},
	"grey":    {0x80, 0x80, 0x80, 0xFF},
	"gray":    {0x80, 0x80, 0x80, 0xFF},
	"clear":   {0x00, 0x00, 0x00, 0x00},
}

// ParseColor accepts a colour name or #RRGGBB / #RRGGBBAA.
func ParseColor(s string) (color.NRGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if !strings.HasPrefix(s, "#") {
		return color.NRGBA{}, false
	}
	b, err := hex.DecodeString(s[1:])
	if err != nil {
		return color.NRGBA{}, false
	}
	switch len(b) {
	case 3:
		return color.NRGBA{b[0], b[1], b[2], 0xFF}, true
	case 4:
		return color.NRGBA{b[0], b[1], b[2], b[3]}, true
	default:
		return color.NRGBA{}, false
	}
}
