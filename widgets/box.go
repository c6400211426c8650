package widgets

import (
	"image"
	"image/color"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
)

// Box paints a rounded background and an optional border behind a widget,
// sized to the widget.
type Box struct {
	Radius                       unit.Dp
	Thickness                    unit.Dp
	Inset                        layout.Inset
	BorderColor, BackgroundColor color.NRGBA
	Border                       bool
}

func NewBox(background color.NRGBA) Box {
	return Box{
		Radius:          4,
		Thickness:       1,
		Inset:           layout.UniformInset(6),
		BorderColor:     Theme.ContrastBg,
		BackgroundColor: background,
	}
}

func (b Box) Layout(gtx layout.Context, widget layout.Widget) layout.Dimensions {
	macro := op.Record(gtx.Ops)
	gtx2 := gtx
	gtx2.Constraints.Min = image.Point{}
	dims := b.Inset.Layout(gtx2, widget)
	call := macro.Stop()

	radius := gtx.Dp(b.Radius)
	bg := clip.RRect{
		SE: radius, SW: radius,
		NW: radius, NE: radius,
		Rect: image.Rectangle{Max: dims.Size},
	}
	if b.BackgroundColor.A != 0 {
		paint.FillShape(gtx.Ops, b.BackgroundColor, bg.Op(gtx.Ops))
	}
	if b.Border {
		outline := clip.Stroke{
			Path:  bg.Path(gtx.Ops),
			Width: float32(max(gtx.Dp(b.Thickness), 1)),
		}
		paint.FillShape(gtx.Ops, b.BorderColor, outline.Op())
	}
	call.Add(gtx.Ops)
	return dims
}
