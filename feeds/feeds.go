// Package feeds implements counter providers: host published gauges,
// process, system, Go runtime, display and filesystem counters,
// and the category table routing feeds between them.
package feeds

import (
	"fmt"

	"github.com/Miuzarte/StatsHUD/counter"
)

// NewHostMux routes every category this package can serve,
// everything else falls back to the registry.
func NewHostMux(registry *Registry) (*Mux, error) {
	proc, err := NewSelf()
	if err != nil {
		return nil, fmt.Errorf("process feeds: %w", err)
	}
	system := NewSystem()

	mux := NewMux(registry).
		Handle(proc, counter.CATEGORY_INTERNAL).
		Handle(system, system.Categories()...).
		Handle(NewRuntime(), counter.CATEGORY_SCRIPTS).
		Handle(NewDisplays(), counter.CATEGORY_VIDEO).
		Handle(NewWatch(), counter.CATEGORY_FILE_IO)
	return mux, nil
}
