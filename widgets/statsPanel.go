package widgets

import (
	"image/color"

	"gioui.org/layout"
	"gioui.org/unit"

	"github.com/Miuzarte/StatsHUD/presenter"
)

// StatsPanel lays out lines of coloured spans over a Box.
type StatsPanel struct {
	Lines    [][]presenter.Span
	TextSize unit.Sp
	// Color resolves the colour of a span
	Color func(presenter.Span) color.NRGBA
	Box   Box
}

func (p StatsPanel) Layout(gtx layout.Context) layout.Dimensions {
	if len(p.Lines) == 0 {
		return layout.Dimensions{}
	}
	return p.Box.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		children := make([]layout.FlexChild, len(p.Lines))
		for i, line := range p.Lines {
			children[i] = layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return p.layoutLine(gtx, line)
			})
		}
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
	})
}

func (p StatsPanel) layoutLine(gtx layout.Context, line []presenter.Span) layout.Dimensions {
	if len(line) == 0 {
		// keeps the height of an empty line
		return Label(p.TextSize, " ").Layout(gtx)
	}
	children := make([]layout.FlexChild, len(line))
	for i, span := range line {
		children[i] = layout.Rigid(
			Label(p.TextSize, span.Text).Colored(p.Color(span)).Layout,
		)
	}
	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx, children...)
}
