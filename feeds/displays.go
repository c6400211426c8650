package feeds

import (
	"errors"
	"image"

	"github.com/kbinani/screenshot"

	"github.com/Miuzarte/StatsHUD/counter"
)

var ErrNoDisplay = errors.New("no active display")

// Displays serves counters about the attached displays,
// it is meant for the Video category.
type Displays struct {
	*table

	numDisplays func() int
	bounds      func(i int) image.Rectangle
}

func NewDisplays() *Displays {
	return newDisplays(screenshot.NumActiveDisplays, screenshot.GetDisplayBounds)
}

func newDisplays(numDisplays func() int, bounds func(int) image.Rectangle) *Displays {
	d := &Displays{numDisplays: numDisplays, bounds: bounds}
	d.table = newTable("displays", map[string]readFunc{
		"Displays": func() (float64, error) {
			return float64(d.numDisplays()), nil
		},
		"Display Width": func() (float64, error) {
			b, err := d.Largest()
			return float64(b.Dx()), err
		},
		"Display Height": func() (float64, error) {
			b, err := d.Largest()
			return float64(b.Dy()), err
		},
		"Desktop Width": func() (float64, error) {
			b, err := d.Desktop()
			return float64(b.Dx()), err
		},
		"Desktop Height": func() (float64, error) {
			b, err := d.Desktop()
			return float64(b.Dy()), err
		},
	})
	return d
}

// Largest returns the bounds of the display with the most pixels.
func (d *Displays) Largest() (image.Rectangle, error) {
	n := d.numDisplays()
	if n <= 0 {
		return image.Rectangle{}, ErrNoDisplay
	}
	var maxBounds image.Rectangle
	var maxRes int
	for i := range n {
		bounds := d.bounds(i)
		size := bounds.Size()
		res := size.X * size.Y
		if res > maxRes {
			maxBounds = bounds
			maxRes = res
		}
	}
	return maxBounds, nil
}

// Desktop returns the union of all display bounds.
func (d *Displays) Desktop() (image.Rectangle, error) {
	n := d.numDisplays()
	if n <= 0 {
		return image.Rectangle{}, ErrNoDisplay
	}
	var all image.Rectangle
	for i := range n {
		all = all.Union(d.bounds(i))
	}
	return all, nil
}

// Open refuses geometry feeds while nothing is attached.
func (d *Displays) Open(category counter.Category, marker string) (counter.Handle, error) {
	if marker != "Displays" && d.numDisplays() <= 0 {
		return 0, ErrNoDisplay
	}
	return d.table.Open(category, marker)
}
