package feeds

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Miuzarte/StatsHUD/counter"
)

var ErrNoProvider = errors.New("no provider for category")

type route struct {
	provider counter.Provider
	handle   counter.Handle
}

// Mux dispatches feeds to providers by category through a plain lookup
// table, categories without an entry go to the fallback.
type Mux struct {
	routes   [counter.NUM_CATEGORIES]counter.Provider
	fallback counter.Provider

	mu      sync.Mutex
	next    counter.Handle
	handles map[counter.Handle]route
}

func NewMux(fallback counter.Provider) *Mux {
	return &Mux{
		fallback: fallback,
		handles:  make(map[counter.Handle]route),
	}
}

// Handle routes the categories to p, set up before opening any feed.
func (m *Mux) Handle(p counter.Provider, categories ...counter.Category) *Mux {
	for _, c := range categories {
		if !c.Valid() {
			panic(fmt.Errorf("invalid category: %d", int(c)))
		}
		m.routes[c] = p
	}
	return m
}

func (m *Mux) Route(c counter.Category) counter.Provider {
	if c.Valid() && m.routes[c] != nil {
		return m.routes[c]
	}
	return m.fallback
}

func (m *Mux) Open(category counter.Category, marker string) (counter.Handle, error) {
	p := m.Route(category)
	if p == nil {
		return 0, fmt.Errorf("%s: %w", category, ErrNoProvider)
	}
	h, err := p.Open(category, marker)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.handles[m.next] = route{provider: p, handle: h}
	return m.next, nil
}

func (m *Mux) Read(h counter.Handle) (float64, bool) {
	m.mu.Lock()
	r, ok := m.handles[h]
	m.mu.Unlock()
	if !ok {
		return 0, false
	}
	return r.provider.Read(r.handle)
}

func (m *Mux) Close(h counter.Handle) error {
	m.mu.Lock()
	r, ok := m.handles[h]
	delete(m.handles, h)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("mux handle %d: %w", h, counter.ErrClosed)
	}
	return r.provider.Close(r.handle)
}

func (m *Mux) OpenHandles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handles)
}
