package feeds

import (
	"fmt"
	"maps"
	"os"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/Miuzarte/StatsHUD/counter"
)

const MiB = 1 << 20

// Process serves counters of one process and of the host cpu,
// it is meant for the Internal category.
type Process struct {
	*table
	proc *process.Process
}

// NewSelf watches the current process.
func NewSelf() (*Process, error) {
	return NewProcess(int32(os.Getpid()))
}

func NewProcess(pid int32) (*Process, error) {
	proc, err := process.NewProcess(pid)
	if err != nil {
		return nil, fmt.Errorf("failed to open process %d: %w", pid, err)
	}
	p := &Process{proc: proc}

	reads := map[string]readFunc{
		"CPU Percent": func() (float64, error) {
			// 0 interval compares against the previous call, never blocks
			return proc.Percent(0)
		},
		"Memory Percent": func() (float64, error) {
			v, err := proc.MemoryPercent()
			return float64(v), err
		},
		"RSS MiB": func() (float64, error) {
			mi, err := proc.MemoryInfo()
			if err != nil {
				return 0, err
			}
			return float64(mi.RSS) / MiB, nil
		},
		"VMS MiB": func() (float64, error) {
			mi, err := proc.MemoryInfo()
			if err != nil {
				return 0, err
			}
			return float64(mi.VMS) / MiB, nil
		},
		"Threads": func() (float64, error) {
			n, err := proc.NumThreads()
			return float64(n), err
		},
		"Open Files": func() (float64, error) {
			n, err := proc.NumFDs()
			return float64(n), err
		},
		"Read Bytes": func() (float64, error) {
			io, err := proc.IOCounters()
			if err != nil {
				return 0, err
			}
			return float64(io.ReadBytes), nil
		},
		"Write Bytes": func() (float64, error) {
			io, err := proc.IOCounters()
			if err != nil {
				return 0, err
			}
			return float64(io.WriteBytes), nil
		},
		"Voluntary Switches": func() (float64, error) {
			cs, err := proc.NumCtxSwitches()
			if err != nil {
				return 0, err
			}
			return float64(cs.Voluntary), nil
		},
		"Involuntary Switches": func() (float64, error) {
			cs, err := proc.NumCtxSwitches()
			if err != nil {
				return 0, err
			}
			return float64(cs.Involuntary), nil
		},

		"System CPU Percent": func() (float64, error) {
			ps, err := cpu.Percent(0, false)
			if err != nil {
				return 0, err
			}
			if len(ps) == 0 {
				return 0, fmt.Errorf("no cpu reported")
			}
			return ps[0], nil
		},
		"Load 1": func() (float64, error) {
			a, err := load.Avg()
			if err != nil {
				return 0, err
			}
			return a.Load1, nil
		},
		"Load 5": func() (float64, error) {
			a, err := load.Avg()
			if err != nil {
				return 0, err
			}
			return a.Load5, nil
		},
		"Load 15": func() (float64, error) {
			a, err := load.Avg()
			if err != nil {
				return 0, err
			}
			return a.Load15, nil
		},
	}
	if int(pid) == os.Getpid() {
		// rusage only describes ourselves
		maps.Copy(reads, rusageReads())
	}

	p.table = newTable(fmt.Sprintf("process[%d]", pid), reads)
	return p, nil
}

func (p *Process) Pid() int32 {
	return p.proc.Pid
}

var _ counter.Provider = (*Process)(nil)
