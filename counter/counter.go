package counter

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownCounter = errors.New("unknown counter")
	ErrClosed         = errors.New("feed closed")
)

// Handle identifies one opened feed, only meaningful to the provider issued it.
type Handle uint64

// Provider is the counter capability of the host,
// every successful Open must be paired with exactly one Close.
type Provider interface {
	Open(category Category, marker string) (Handle, error)
	Read(h Handle) (value float64, valid bool)
	Close(h Handle) error
}

// Spec declares a counter to show.
// Marker is the name the feed is opened with, Label is what gets displayed,
// an empty Marker falls back to Label.
type Spec struct {
	Category Category `toml:"category"`
	Label    string   `toml:"label"`
	Marker   string   `toml:"marker,omitempty"`
}

func (s Spec) FeedName() string {
	if s.Marker != "" {
		return s.Marker
	}
	return s.Label
}

func (s Spec) String() string {
	return fmt.Sprintf("%s/%s", s.Category, s.FeedName())
}

type Counter struct {
	Spec

	handle Handle
	open   bool
	value  float64
	valid  bool
}

func New(spec Spec) *Counter {
	return &Counter{Spec: spec}
}

// Open starts the feed, failure only marks the counter invalid.
func (c *Counter) Open(p Provider) error {
	if c.open {
		return nil
	}
	h, err := p.Open(c.Category, c.FeedName())
	if err != nil {
		c.valid = false
		log.Warn().
			Str("counter", c.Label).
			Stringer("category", c.Category).
			Err(err).
			Msg("failed to open feed")
		return fmt.Errorf("open %s: %w", c.Spec, err)
	}
	c.handle = h
	c.open = true
	c.valid = true
	return nil
}

// Sample reads the current value,
// a counter that is not open never touches the provider.
func (c *Counter) Sample(p Provider) (float64, bool) {
	if !c.open {
		c.valid = false
		return 0, false
	}
	c.value, c.valid = p.Read(c.handle)
	return c.value, c.valid
}

// Close releases the feed once, closing a closed counter is a no-op.
func (c *Counter) Close(p Provider) error {
	if !c.open {
		return nil
	}
	c.open = false
	c.valid = false
	err := p.Close(c.handle)
	c.handle = 0
	if err != nil {
		return fmt.Errorf("close %s: %w", c.Spec, err)
	}
	return nil
}

func (c *Counter) IsOpen() bool {
	return c.open
}

func (c *Counter) Valid() bool {
	return c.valid
}

func (c *Counter) Value() float64 {
	return c.value
}
