// Package snapshot renders the hud text into an image with OpenCV.
package snapshot

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/Miuzarte/StatsHUD/presenter"
)

const (
	FONT = gocv.FontHersheySimplex
	// pixel height of FONT at scale 1
	FONT_HEIGHT = 22
)

var ErrEmpty = errors.New("nothing to render")

type Style struct {
	TextSize   float64
	Thickness  int
	Padding    int
	LineGap    int
	Text       color.NRGBA
	Background color.NRGBA
}

func DefaultStyle() Style {
	return Style{
		TextSize:   20,
		Thickness:  1,
		Padding:    8,
		LineGap:    6,
		Text:       color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF},
		Background: color.NRGBA{0x00, 0x00, 0x00, 0xC8},
	}
}

func (s Style) scale() float64 {
	return s.TextSize / FONT_HEIGHT
}

func (s Style) colorOf(span presenter.Span) color.RGBA {
	c := s.Text
	if span.Color != "" {
		if parsed, ok := presenter.ParseColor(span.Color); ok {
			c = parsed
		}
	}
	return color.RGBA{c.R, c.G, c.B, 0xFF}
}

// Layout returns the image size and the height of one line.
func Layout(lines [][]presenter.Span, style Style) (size image.Point, lineHeight int) {
	scale := style.scale()
	lineHeight = gocv.GetTextSize("Ag", FONT, scale, style.Thickness).Y + style.LineGap
	for _, line := range lines {
		w := 0
		for _, span := range line {
			w += gocv.GetTextSize(span.Text, FONT, scale, style.Thickness).X
		}
		size.X = max(size.X, w)
	}
	size.X += 2 * style.Padding
	size.Y = len(lines)*lineHeight + 2*style.Padding
	return
}

// Render draws lines over the background colour, alpha is applied against black.
// The caller owns the returned Mat.
func Render(lines [][]presenter.Span, style Style) (gocv.Mat, error) {
	if len(lines) == 0 {
		return gocv.NewMat(), ErrEmpty
	}
	size, lineHeight := Layout(lines, style)

	bg := style.Background
	a := float64(bg.A) / 0xFF
	mat := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(bg.B)*a, float64(bg.G)*a, float64(bg.R)*a, 0),
		size.Y, size.X, gocv.MatTypeCV8UC3,
	)

	scale := style.scale()
	y := style.Padding
	for _, line := range lines {
		y += lineHeight
		x := style.Padding
		for _, span := range line {
			gocv.PutText(&mat, span.Text, image.Pt(x, y-style.LineGap),
				FONT, scale, style.colorOf(span), style.Thickness)
			x += gocv.GetTextSize(span.Text, FONT, scale, style.Thickness).X
		}
	}
	return mat, nil
}

// Write renders lines into an image file, the format follows the extension.
func Write(path string, lines [][]presenter.Span, style Style) error {
	mat, err := Render(lines, style)
	defer mat.Close()
	if err != nil {
		return err
	}
	if !gocv.IMWrite(path, mat) {
		return fmt.Errorf("failed to write snapshot %q", path)
	}
	return nil
}
