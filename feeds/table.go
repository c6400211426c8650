package feeds

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Miuzarte/StatsHUD/counter"
)

type readFunc func() (float64, error)

// table serves a fixed set of markers, each read by calling its function.
type table struct {
	name  string
	reads map[string]readFunc

	mu   sync.Mutex
	next counter.Handle
	open map[counter.Handle]string
}

func newTable(name string, reads map[string]readFunc) *table {
	return &table{
		name:  name,
		reads: reads,
		open:  make(map[counter.Handle]string),
	}
}

func (t *table) Open(_ counter.Category, marker string) (counter.Handle, error) {
	if _, ok := t.reads[marker]; !ok {
		return 0, fmt.Errorf("%s %q: %w", t.name, marker, counter.ErrUnknownCounter)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.open[t.next] = marker
	return t.next, nil
}

func (t *table) Read(h counter.Handle) (float64, bool) {
	t.mu.Lock()
	marker, ok := t.open[h]
	t.mu.Unlock()
	if !ok {
		return 0, false
	}

	v, err := t.reads[marker]()
	if err != nil {
		log.Debug().Str("feed", t.name).Str("marker", marker).Err(err).Msg("read failed")
		return 0, false
	}
	return v, true
}

func (t *table) Close(h counter.Handle) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.open[h]; !ok {
		return fmt.Errorf("%s handle %d: %w", t.name, h, counter.ErrClosed)
	}
	delete(t.open, h)
	return nil
}

// Markers lists what the table can open, sorted.
func (t *table) Markers() []string {
	markers := make([]string, 0, len(t.reads))
	for m := range t.reads {
		markers = append(markers, m)
	}
	sort.Strings(markers)
	return markers
}

func (t *table) OpenHandles() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.open)
}
