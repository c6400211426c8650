package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Miuzarte/StatsHUD/presenter"
)

// runStdout prints the hud without markup every time it changes.
func runStdout(ctx context.Context, sh *statsHud, w io.Writer) error {
	ticker := time.NewTicker(sh.cfg.FrameInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case now := <-ticker.C:
			err := sh.printFrame(now, w)
			if err != nil {
				return err
			}
		}
	}
}

func (sh *statsHud) printFrame(now time.Time, w io.Writer) error {
	sh.Frame(now)
	if !sh.hud.takeDirty() {
		return nil
	}

	lines := sh.hud.Lines()
	sh.Drawn(lines)
	if len(lines) == 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "%s\n\n", presenter.Strip(sh.hud.Text()))
	if err != nil {
		return fmt.Errorf("failed to print hud: %w", err)
	}
	return nil
}
