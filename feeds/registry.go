package feeds

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/Miuzarte/StatsHUD/counter"
)

// Gauge is a float64 published by the host,
// zero value is ready to use and holds 0.
type Gauge struct {
	bits    atomic.Uint64
	removed atomic.Bool
}

func (g *Gauge) Set(v float64) {
	g.bits.Store(math.Float64bits(v))
}

func (g *Gauge) Get() float64 {
	return math.Float64frombits(g.bits.Load())
}

// Add atomically adds delta and returns the new value.
func (g *Gauge) Add(delta float64) float64 {
	for {
		old := g.bits.Load()
		v := math.Float64frombits(old) + delta
		if g.bits.CompareAndSwap(old, math.Float64bits(v)) {
			return v
		}
	}
}

type registryKey struct {
	category counter.Category
	marker   string
}

// Registry holds counters the host program publishes itself,
// e.g. a renderer setting "Draw Calls Count" every frame.
// Publishing is safe from any goroutine, cached gauges are lock-free.
type Registry struct {
	mu     sync.RWMutex
	gauges map[registryKey]*Gauge

	hmu     sync.Mutex
	next    counter.Handle
	handles map[counter.Handle]*Gauge
}

func NewRegistry() *Registry {
	return &Registry{
		gauges:  make(map[registryKey]*Gauge),
		handles: make(map[counter.Handle]*Gauge),
	}
}

// Gauge returns the gauge for the feed, creating it if absent.
func (r *Registry) Gauge(category counter.Category, marker string) *Gauge {
	k := registryKey{category, marker}

	r.mu.RLock()
	if g, ok := r.gauges[k]; ok {
		r.mu.RUnlock()
		return g
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.gauges[k]; ok {
		return g
	}
	g := new(Gauge)
	r.gauges[k] = g
	return g
}

func (r *Registry) Has(category counter.Category, marker string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.gauges[registryKey{category, marker}]
	return ok
}

// Remove tears the feed down, handles opened on it read invalid from now on.
func (r *Registry) Remove(category counter.Category, marker string) {
	k := registryKey{category, marker}
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.gauges[k]; ok {
		g.removed.Store(true)
		delete(r.gauges, k)
	}
}

// Range iterates over all gauges sorted by category then marker.
func (r *Registry) Range(fn func(category counter.Category, marker string, g *Gauge)) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]registryKey, 0, len(r.gauges))
	for k := range r.gauges {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].category != keys[j].category {
			return keys[i].category < keys[j].category
		}
		return keys[i].marker < keys[j].marker
	})
	for _, k := range keys {
		fn(k.category, k.marker, r.gauges[k])
	}
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.gauges)
}

func (r *Registry) Open(category counter.Category, marker string) (counter.Handle, error) {
	r.mu.RLock()
	g, ok := r.gauges[registryKey{category, marker}]
	r.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("registry %s/%q: %w", category, marker, counter.ErrUnknownCounter)
	}

	r.hmu.Lock()
	defer r.hmu.Unlock()
	r.next++
	r.handles[r.next] = g
	return r.next, nil
}

func (r *Registry) Read(h counter.Handle) (float64, bool) {
	r.hmu.Lock()
	g, ok := r.handles[h]
	r.hmu.Unlock()
	if !ok || g.removed.Load() {
		return 0, false
	}
	return g.Get(), true
}

func (r *Registry) Close(h counter.Handle) error {
	r.hmu.Lock()
	defer r.hmu.Unlock()
	if _, ok := r.handles[h]; !ok {
		return fmt.Errorf("registry handle %d: %w", h, counter.ErrClosed)
	}
	delete(r.handles, h)
	return nil
}

func (r *Registry) OpenHandles() int {
	r.hmu.Lock()
	defer r.hmu.Unlock()
	return len(r.handles)
}
