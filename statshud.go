package main

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Miuzarte/StatsHUD/alert"
	"github.com/Miuzarte/StatsHUD/counter"
	"github.com/Miuzarte/StatsHUD/feeds"
	"github.com/Miuzarte/StatsHUD/fps"
	"github.com/Miuzarte/StatsHUD/presenter"
	"github.com/Miuzarte/StatsHUD/sampler"
	"github.com/Miuzarte/StatsHUD/snapshot"
)

// statsHud is the single hud of the process,
// hosts call Frame once per frame and Drawn after drawing.
type statsHud struct {
	cfg      *Config
	registry *feeds.Registry
	sampler  *sampler.Sampler
	hud      *hud
	gauges   renderGauges
	beeper   *alert.Beeper
	delta    fps.Delta
}

func newStatsHud(cfg *Config) (*statsHud, error) {
	registry := feeds.NewRegistry()
	mux, err := feeds.NewHostMux(registry)
	if err != nil {
		return nil, err
	}
	sh := newStatsHudWith(cfg, registry, mux, sampler.SystemClock)

	if cfg.AlertBelow > 0 {
		err = sh.beeper.Init()
		if err != nil {
			log.Warn().Err(err).Msg("frame rate alert stays silent")
		}
	}
	return sh, nil
}

func newStatsHudWith(cfg *Config, registry *feeds.Registry, provider counter.Provider, clock sampler.Clock) *statsHud {
	h := newHud(cfg)
	sh := &statsHud{
		cfg:      cfg,
		registry: registry,
		hud:      h,
		gauges:   newRenderGauges(registry),
		beeper:   alert.New(cfg.AlertBelow),
	}
	sh.sampler = sampler.New(provider, h, clock, cfg.SamplerOptions())
	sh.sampler.Show(cfg.ShowOnBoot)
	return sh
}

// Frame advances the hud by one host frame.
func (sh *statsHud) Frame(now time.Time) {
	sh.sampler.Tick(sh.delta.Lap(now))
	framerate, _ := sh.sampler.FPS().Count()
	sh.beeper.Observe(now, framerate)
}

// Drawn publishes what the host drew this frame under the render markers.
func (sh *statsHud) Drawn(lines [][]presenter.Span) {
	sh.gauges.publish(measure(lines))
}

func (sh *statsHud) ToggleVisible() {
	visible := !sh.hud.visible
	sh.sampler.Show(visible)
	log.Info().Bool("visible", visible).Msg("hud toggled")
}

// ResetFramerate drops the frame rate history.
func (sh *statsHud) ResetFramerate() {
	sh.sampler.FPS().Reset()
	log.Info().Msg("frame rate history reset")
}

func (sh *statsHud) snapshotStyle() snapshot.Style {
	style := snapshot.DefaultStyle()
	style.TextSize = float64(sh.cfg.TextSize)
	style.Text = sh.hud.textColor
	style.Background = sh.hud.backgroundColor
	return style
}

// Snapshot writes the current hud to the configured path.
func (sh *statsHud) Snapshot() error {
	if sh.cfg.SnapshotPath == "" {
		return errors.New("no snapshot_path configured")
	}
	err := snapshot.Write(sh.cfg.SnapshotPath, sh.hud.Lines(), sh.snapshotStyle())
	if err != nil {
		log.Warn().Str("path", sh.cfg.SnapshotPath).Err(err).Msg("snapshot failed")
		return err
	}
	log.Info().Str("path", sh.cfg.SnapshotPath).Msg("snapshot written")
	return nil
}

func (sh *statsHud) Close() {
	sh.sampler.Disable()
	sh.beeper.Close()
}
