package main

import (
	"context"
	"image"
	"image/color"

	"gioui.org/app"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/unit"

	"github.com/rs/zerolog/log"

	"github.com/Miuzarte/StatsHUD/presenter"
	"github.com/Miuzarte/StatsHUD/widgets"
)

type rgba struct {
	R, G, B, A uint8
}

var (
	colorWhite = rgba{0xFF, 0xFF, 0xFF, 0xFF}
	colorCoral = rgba{0xA6, 0x62, 0x61, 0xFF}
	colorClear = rgba{0x18, 0x18, 0x18, 0xFF}
)

var window app.Window

func init() {
	mTheme := widgets.Theme
	mTheme.Fg = color.NRGBA(colorWhite)
	mTheme.Bg = color.NRGBA(colorClear)
	mTheme.ContrastFg = color.NRGBA(colorWhite)
	mTheme.ContrastBg = color.NRGBA(colorCoral)
	mTheme.Face = "Go Mono"
}

func newWindowShortcuts(sh *statsHud) widgets.Shortcuts {
	return widgets.NewShortcuts(&window,
		widgets.Shortcut{
			Key:  widgets.NewShortcut(0, 0, "H"),
			Help: "show / hide the stats",
			F:    func(key.Name, key.Modifiers) { sh.ToggleVisible() },
		},
		widgets.Shortcut{
			Key:  widgets.NewShortcut(0, 0, "S"),
			Help: "write a snapshot",
			F:    func(key.Name, key.Modifiers) { sh.Snapshot() },
		},
		widgets.Shortcut{
			Key:  widgets.NewShortcut(0, 0, "R"),
			Help: "reset the frame rate history",
			F:    func(key.Name, key.Modifiers) { sh.ResetFramerate() },
		},
		widgets.Shortcut{
			Key:  widgets.NewShortcut(0, 0, "Q", key.NameEscape),
			Help: "quit",
			F: func(key.Name, key.Modifiers) {
				window.Perform(system.ActionClose)
			},
		},
	)
}

func runWindow(ctx context.Context, cancel context.CancelFunc, sh *statsHud) error {
	defer cancel()

	window.Option(
		app.Title(sh.cfg.ProductName),
		app.Size(420, 300),
	)
	shortcuts := newWindowShortcuts(sh)
	log.Info().Msg("shortcuts:\n" + shortcuts.Help())

	var ops op.Ops
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		switch e := window.Event().(type) {
		case app.DestroyEvent:
			if e.Err != nil {
				return e.Err
			}
			log.Debug().Msg("window closed normally")
			return nil

		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			_, err := shortcuts.Match(gtx)
			if err != nil {
				log.Warn().Err(err).Msg("shortcuts match error")
			}

			sh.Frame(e.Now)
			paint.Fill(gtx.Ops, widgets.Theme.Bg)
			sh.Drawn(layoutStats(gtx, sh))

			// keep drawing, the hud is driven by frames
			gtx.Execute(op.InvalidateCmd{})
			e.Frame(gtx.Ops)

		default:
			log.Trace().Msgf("event[%T]: %v", e, e)
		}
	}
}

func layoutStats(gtx layout.Context, sh *statsHud) [][]presenter.Span {
	lines := sh.hud.Lines()
	defer op.Offset(image.Pt(gtx.Dp(8), gtx.Dp(8))).Push(gtx.Ops).Pop()
	widgets.StatsPanel{
		Lines:    lines,
		TextSize: unit.Sp(sh.cfg.TextSize),
		Color:    sh.hud.spanColor,
		Box:      widgets.NewBox(sh.hud.backgroundColor),
	}.Layout(gtx)
	return lines
}
