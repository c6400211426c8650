package feeds

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"

	"github.com/Miuzarte/StatsHUD/counter"
)

// System serves host wide memory and network counters,
// one table per category behind a [Mux] with no fallback.
type System struct {
	*Mux
}

func NewSystem() *System {
	virtual := func(get func(vm *mem.VirtualMemoryStat) float64) readFunc {
		return func() (float64, error) {
			vm, err := mem.VirtualMemory()
			if err != nil {
				return 0, err
			}
			return get(vm), nil
		}
	}
	netio := func(get func(io *net.IOCountersStat) float64) readFunc {
		return func() (float64, error) {
			all, err := net.IOCounters(false)
			if err != nil {
				return 0, err
			}
			if len(all) == 0 {
				return 0, fmt.Errorf("no interface reported")
			}
			return get(&all[0]), nil
		}
	}

	memory := newTable("memory", map[string]readFunc{
		"Total Memory MiB": virtual(func(vm *mem.VirtualMemoryStat) float64 {
			return float64(vm.Total) / MiB
		}),
		"Used Memory MiB": virtual(func(vm *mem.VirtualMemoryStat) float64 {
			return float64(vm.Used) / MiB
		}),
		"Available Memory MiB": virtual(func(vm *mem.VirtualMemoryStat) float64 {
			return float64(vm.Available) / MiB
		}),
		"Memory Used Percent": virtual(func(vm *mem.VirtualMemoryStat) float64 {
			return vm.UsedPercent
		}),
		"Swap Used MiB": func() (float64, error) {
			sw, err := mem.SwapMemory()
			if err != nil {
				return 0, err
			}
			return float64(sw.Used) / MiB, nil
		},
	})
	network := newTable("network", map[string]readFunc{
		"Bytes Sent": netio(func(io *net.IOCountersStat) float64 {
			return float64(io.BytesSent)
		}),
		"Bytes Received": netio(func(io *net.IOCountersStat) float64 {
			return float64(io.BytesRecv)
		}),
		"Packets Sent": netio(func(io *net.IOCountersStat) float64 {
			return float64(io.PacketsSent)
		}),
		"Packets Received": netio(func(io *net.IOCountersStat) float64 {
			return float64(io.PacketsRecv)
		}),
		"Receive Errors": netio(func(io *net.IOCountersStat) float64 {
			return float64(io.Errin)
		}),
		"Send Errors": netio(func(io *net.IOCountersStat) float64 {
			return float64(io.Errout)
		}),
	})

	m := NewMux(nil).
		Handle(memory, counter.CATEGORY_MEMORY).
		Handle(network, counter.CATEGORY_NETWORK)
	return &System{Mux: m}
}

// Categories lists the categories the system provider can serve.
func (s *System) Categories() []counter.Category {
	return []counter.Category{counter.CATEGORY_MEMORY, counter.CATEGORY_NETWORK}
}

// Markers lists what can be opened under the category.
func (s *System) Markers(category counter.Category) []string {
	if t, ok := s.Route(category).(*table); ok {
		return t.Markers()
	}
	return nil
}
