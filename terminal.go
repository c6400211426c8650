package main

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/Miuzarte/StatsHUD/presenter"
)

func runTerminal(ctx context.Context, sh *statsHud) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	err = screen.Init()
	if err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()

	return sh.terminalLoop(ctx, screen)
}

func (sh *statsHud) terminalLoop(ctx context.Context, screen tcell.Screen) error {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(sh.cfg.FrameInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			if sh.handleTerminalEvent(screen, ev) {
				return nil
			}

		case now := <-ticker.C:
			sh.Frame(now)
			sh.Drawn(drawTerminal(screen, sh.hud))
		}
	}
}

// handleTerminalEvent reports whether the user asked to quit.
func (sh *statsHud) handleTerminalEvent(screen tcell.Screen, ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
		default:
			return false
		}
		switch ev.Rune() {
		case 'q', 'Q':
			return true
		case 'c':
			return ev.Modifiers()&tcell.ModCtrl != 0
		case 'h', 'H':
			sh.ToggleVisible()
		case 's', 'S':
			sh.Snapshot()
		case 'r', 'R':
			sh.ResetFramerate()
		}

	case *tcell.EventResize:
		screen.Sync()

	default:
		log.Trace().Msgf("terminal event[%T]", ev)
	}
	return false
}

func tcellColor(c color.NRGBA) tcell.Color {
	if c.A == 0 {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// drawTerminal paints the hud at the top left corner, one cell of padding
// on each side of every line. It returns what was drawn.
func drawTerminal(screen tcell.Screen, h *hud) [][]presenter.Span {
	screen.Clear()
	lines := h.Lines()

	width := 0
	for _, line := range lines {
		n := 0
		for _, span := range line {
			n += len([]rune(span.Text))
		}
		width = max(width, n)
	}

	bg := tcell.StyleDefault.Background(tcellColor(h.backgroundColor))
	for y, line := range lines {
		for x := range width + 2 {
			screen.SetContent(x, y, ' ', nil, bg)
		}
		x := 1
		for _, span := range line {
			style := bg.Foreground(tcellColor(h.spanColor(span)))
			for _, r := range span.Text {
				screen.SetContent(x, y, r, nil, style)
				x++
			}
		}
	}
	screen.Show()
	return lines
}
