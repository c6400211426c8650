// Package countertest provides an in-memory [counter.Provider] that
// counts Open/Close calls, for tests of code driving counters.
package countertest

import (
	"fmt"
	"sync"

	"github.com/Miuzarte/StatsHUD/counter"
)

type key struct {
	category counter.Category
	marker   string
}

type Provider struct {
	mu sync.Mutex

	values map[key]float64
	broken map[key]bool

	next    counter.Handle
	handles map[counter.Handle]key

	Opens        int
	Closes       int
	Reads        int
	ReadsOnStale int // reads of a handle that was never opened or already closed
	PanicOn      string
}

func New() *Provider {
	return &Provider{
		values:  make(map[key]float64),
		broken:  make(map[key]bool),
		handles: make(map[counter.Handle]key),
	}
}

// Set publishes a value, the feed becomes openable.
func (p *Provider) Set(category counter.Category, marker string, v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key{category, marker}] = v
}

// Break makes Open fail for the feed.
func (p *Provider) Break(category counter.Category, marker string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.broken[key{category, marker}] = true
}

func (p *Provider) Open(category counter.Category, marker string) (counter.Handle, error) {
	if p.PanicOn != "" && p.PanicOn == marker {
		panic(fmt.Sprintf("countertest: open %q", marker))
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	k := key{category, marker}
	if p.broken[k] {
		return 0, fmt.Errorf("countertest: %s/%s is broken", category, marker)
	}
	if _, ok := p.values[k]; !ok {
		return 0, fmt.Errorf("countertest: %s/%s: %w", category, marker, counter.ErrUnknownCounter)
	}

	p.next++
	p.handles[p.next] = k
	p.Opens++
	return p.next, nil
}

func (p *Provider) Read(h counter.Handle) (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Reads++
	k, ok := p.handles[h]
	if !ok {
		p.ReadsOnStale++
		return 0, false
	}
	v, ok := p.values[k]
	return v, ok
}

func (p *Provider) Close(h counter.Handle) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.handles[h]; !ok {
		return fmt.Errorf("countertest: handle %d: %w", h, counter.ErrClosed)
	}
	delete(p.handles, h)
	p.Closes++
	return nil
}

// Unpublish removes the feed, open handles start reading invalid.
func (p *Provider) Unpublish(category counter.Category, marker string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.values, key{category, marker})
}

func (p *Provider) OpenHandles() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.handles)
}
