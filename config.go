package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Miuzarte/StatsHUD/counter"
	"github.com/Miuzarte/StatsHUD/presenter"
	"github.com/Miuzarte/StatsHUD/sampler"
)

const (
	DEFAULT_CONFIG_PATH = "statshud.toml"
	ENV_PREFIX          = "STATSHUD_"
)

const (
	MODE_WINDOW = "window"
	MODE_TERM   = "term"
	MODE_STDOUT = "stdout"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	ShowBuildInfo bool   `toml:"show_build_info"`
	ProductName   string `toml:"product_name"`
	Version       string `toml:"version"`

	ShowOnBoot      bool    `toml:"show_on_boot"`
	TextSize        float32 `toml:"text_size"`
	TextColor       string  `toml:"text_color"`
	BackgroundColor string  `toml:"background_color"`

	// seconds
	UpdateDelay  float64 `toml:"update_delay"`
	AverageRange int     `toml:"average_range"`

	DrawCalls    bool `toml:"draw_calls"`
	Batches      bool `toml:"batches"`
	SetPassCalls bool `toml:"set_pass_calls"`
	Triangles    bool `toml:"triangles"`
	Vertices     bool `toml:"vertices"`

	Custom []counter.Spec `toml:"custom"`

	Mode         string   `toml:"mode"`
	FrameRate    int      `toml:"frame_rate"`
	LogLevel     string   `toml:"log_level"`
	LogFile      string   `toml:"log_file"`
	AlertBelow   float64  `toml:"alert_below"`
	SnapshotPath string   `toml:"snapshot_path"`
	Watch        []string `toml:"watch"`
}

func DefaultConfig() Config {
	return Config{
		ShowBuildInfo: true,
		ProductName:   "StatsHUD",
		Version:       "0.1.0",

		ShowOnBoot:      true,
		TextSize:        20,
		TextColor:       presenter.COLOR_WHITE,
		BackgroundColor: "#000000C8",

		UpdateDelay:  0,
		AverageRange: sampler.DEFAULT_AVERAGE_RANGE,

		DrawCalls:    true,
		Batches:      true,
		SetPassCalls: true,
		Triangles:    true,
		Vertices:     true,

		Mode:         MODE_WINDOW,
		FrameRate:    60,
		LogLevel:     "info",
		SnapshotPath: "statshud.png",
	}
}

// LoadConfig reads path over the defaults then applies the environment.
// A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debug().Str("path", path).Msg("no config file, using defaults")
	case err != nil:
		return cfg, fmt.Errorf("failed to decode %q: %w", path, err)
	default:
		for _, key := range md.Undecoded() {
			log.Warn().Str("path", path).Str("key", key.String()).Msg("unknown config key")
		}
	}

	err = cfg.applyEnv(os.Getenv)
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(getenv func(string) string) error {
	var errs []error
	str := func(name string, dst *string) {
		if v := getenv(ENV_PREFIX + name); v != "" {
			*dst = v
		}
	}
	parse := func(name string, set func(string) error) {
		v := getenv(ENV_PREFIX + name)
		if v == "" {
			return
		}
		if err := set(v); err != nil {
			errs = append(errs, fmt.Errorf("%s%s=%q: %w", ENV_PREFIX, name, v, err))
		}
	}

	str("MODE", &c.Mode)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FILE", &c.LogFile)
	str("PRODUCT_NAME", &c.ProductName)
	str("SNAPSHOT_PATH", &c.SnapshotPath)
	parse("SHOW_ON_BOOT", func(s string) (err error) {
		c.ShowOnBoot, err = strconv.ParseBool(s)
		return
	})
	parse("UPDATE_DELAY", func(s string) (err error) {
		c.UpdateDelay, err = strconv.ParseFloat(s, 64)
		return
	})
	parse("AVERAGE_RANGE", func(s string) (err error) {
		c.AverageRange, err = strconv.Atoi(s)
		return
	})
	parse("FRAME_RATE", func(s string) (err error) {
		c.FrameRate, err = strconv.Atoi(s)
		return
	})
	parse("ALERT_BELOW", func(s string) (err error) {
		c.AlertBelow, err = strconv.ParseFloat(s, 64)
		return
	})
	parse("WATCH", func(s string) error {
		c.Watch = filepath.SplitList(s)
		return nil
	})
	return errors.Join(errs...)
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Mode {
	case MODE_WINDOW, MODE_TERM, MODE_STDOUT:
	default:
		errs = append(errs, fmt.Errorf("mode %q", c.Mode))
	}
	if c.AverageRange <= 0 {
		errs = append(errs, fmt.Errorf("average_range %d", c.AverageRange))
	}
	if c.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("frame_rate %d", c.FrameRate))
	}
	if c.TextSize <= 0 {
		errs = append(errs, fmt.Errorf("text_size %v", c.TextSize))
	}
	if _, ok := presenter.ParseColor(c.TextColor); !ok {
		errs = append(errs, fmt.Errorf("text_color %q", c.TextColor))
	}
	if _, ok := presenter.ParseColor(c.BackgroundColor); !ok {
		errs = append(errs, fmt.Errorf("background_color %q", c.BackgroundColor))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level %q", c.LogLevel))
	}
	for i, spec := range c.Custom {
		if strings.TrimSpace(spec.Label) == "" {
			errs = append(errs, fmt.Errorf("custom[%d] has no label", i))
		}
	}
	if len(errs) != 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}

	// clamped, not rejected
	c.UpdateDelay = min(max(c.UpdateDelay, 0), sampler.MAX_DELAY.Seconds())
	return nil
}

func (c *Config) Delay() time.Duration {
	return time.Duration(c.UpdateDelay * float64(time.Second))
}

// SamplerOptions turns the config into sampler options,
// every watched path becomes a FileIO counter.
func (c *Config) SamplerOptions() sampler.Options {
	custom := make([]counter.Spec, 0, len(c.Custom)+len(c.Watch))
	custom = append(custom, c.Custom...)
	for _, path := range c.Watch {
		custom = append(custom, counter.Spec{
			Category: counter.CATEGORY_FILE_IO,
			Label:    filepath.Base(path) + " Events",
			Marker:   path,
		})
	}
	return sampler.Options{
		DrawCalls:    c.DrawCalls,
		Batches:      c.Batches,
		SetPassCalls: c.SetPassCalls,
		Triangles:    c.Triangles,
		Vertices:     c.Vertices,
		Custom:       custom,
		Delay:        c.Delay(),
		AverageRange: c.AverageRange,
	}
}

// BuildInfo is empty when disabled.
func (c *Config) BuildInfo() string {
	if !c.ShowBuildInfo {
		return ""
	}
	return presenter.BuildInfo(c.ProductName, c.Version)
}

func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}
