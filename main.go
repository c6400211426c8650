package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"

	"gioui.org/app"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Miuzarte/StatsHUD/contextWaitGroup"
)

const STATSVIEW_URL = "/debug/statsview"

var (
	configPath    = flag.String("config", DEFAULT_CONFIG_PATH, "config file")
	modeFlag      = flag.String("mode", "", "window, term or stdout, overrides the config")
	profileFlag   = flag.String("profile", "", "cpu, mem, allocs, block, mutex, goroutine, trace or clock")
	statsviewAddr = flag.String("statsview", "", "serve live runtime charts on this address, e.g. localhost:12600")
)

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"})

	cfg, err := LoadConfig(*configPath)
	panicIf(err)
	if *modeFlag != "" {
		cfg.Mode = *modeFlag
		panicIf(cfg.Validate())
	}

	if cfg.Mode != MODE_WINDOW {
		os.Exit(run(&cfg))
	}

	// the window needs the main goroutine on some platforms
	go func() {
		os.Exit(run(&cfg))
	}()
	app.Main()
}

func run(cfg *Config) int {
	logFile, err := setupLogger(cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to set up logger")
		return 1
	}
	if logFile != nil {
		defer logFile.Close()
	}

	mode, err := profileMode(*profileFlag)
	if err != nil {
		log.Error().Err(err).Send()
		return 2
	}
	if mode != nil {
		defer profile.Start(mode, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet).Stop()
	}
	if *statsviewAddr != "" {
		stop := launchStatsview(*statsviewAddr)
		defer stop()
	}

	sh, err := newStatsHud(cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to create hud")
		return 1
	}
	defer sh.Close()

	cwg := contextWaitGroup.New(context.Background())
	stop := cwg.WithSignal(os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("mode", cfg.Mode).
		Dur("delay", cfg.Delay()).
		Int("counters", len(sh.sampler.Counters())).
		Msg("starting")

	switch cfg.Mode {
	case MODE_WINDOW:
		cwg.Go(func(ctx context.Context) error {
			return runWindow(ctx, cwg.Cancel, sh)
		})
		cwg.Go(func(ctx context.Context) error {
			<-ctx.Done()
			// using ctrl c to exit in console
			// telling the window on background to response
			window.Invalidate()
			return nil
		})
	case MODE_TERM:
		cwg.Go(func(ctx context.Context) error {
			defer cwg.Cancel()
			return runTerminal(ctx, sh)
		})
	case MODE_STDOUT:
		cwg.Go(func(ctx context.Context) error {
			return runStdout(ctx, sh, os.Stdout)
		})
	}

	err = cwg.Wait()
	if err != nil {
		log.Error().Err(err).Msg("hud stopped")
		return 1
	}
	return 0
}

// setupLogger applies the level, a log file replaces stderr,
// the terminal mode owns the screen so it logs nowhere else.
func setupLogger(cfg *Config) (*os.File, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	var file *os.File
	switch {
	case cfg.LogFile != "":
		file, err = os.OpenFile(cfg.LogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o664)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = file
	case cfg.Mode == MODE_TERM:
		out = io.Discard
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    file != nil,
		TimeFormat: "15:04:05.000",
	})
	return file, nil
}

// launchStatsview serves the live runtime charts until stop is called.
func launchStatsview(addr string) (stop func()) {
	viewer.SetConfiguration(
		viewer.WithAddr(addr),
		viewer.WithInterval(int(time.Second/time.Millisecond)),
	)
	mgr := statsview.New()
	go mgr.Start()
	log.Info().Str("url", "http://"+addr+STATSVIEW_URL).Msg("stats server available")
	return mgr.Stop
}
