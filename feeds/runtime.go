package feeds

import (
	"fmt"
	"runtime/metrics"
	"strings"

	"github.com/Miuzarte/StatsHUD/counter"
)

var runtimeMetrics = map[string]string{
	"Goroutines":       "/sched/goroutines:goroutines",
	"Heap Objects":     "/gc/heap/objects:objects",
	"Heap MiB":         "/memory/classes/heap/objects:bytes",
	"Total MiB":        "/memory/classes/total:bytes",
	"Allocated MiB":    "/gc/heap/allocs:bytes",
	"GC Cycles":        "/gc/cycles/total:gc-cycles",
	"GC Goal MiB":      "/gc/heap/goal:bytes",
	"GOMAXPROCS":       "/sched/gomaxprocs:threads",
	"CGO Calls":        "/cgo/go-to-c-calls:calls",
	"GC CPU Seconds":   "/cpu/classes/gc/total:cpu-seconds",
	"User CPU Seconds": "/cpu/classes/user:cpu-seconds",
}

// Runtime serves Go runtime counters of this process,
// it is meant for the Scripts category.
type Runtime struct {
	*table
}

func NewRuntime() *Runtime {
	supported := make(map[string]bool)
	for _, d := range metrics.All() {
		supported[d.Name] = true
	}

	reads := make(map[string]readFunc, len(runtimeMetrics))
	for marker, name := range runtimeMetrics {
		if !supported[name] {
			continue
		}
		scale := 1.0
		if strings.HasSuffix(name, ":bytes") {
			scale = MiB
		}
		reads[marker] = readRuntimeMetric(name, scale)
	}
	return &Runtime{table: newTable("runtime", reads)}
}

func readRuntimeMetric(name string, scale float64) readFunc {
	return func() (float64, error) {
		sample := []metrics.Sample{{Name: name}}
		metrics.Read(sample)
		v := sample[0].Value
		switch v.Kind() {
		case metrics.KindUint64:
			return float64(v.Uint64()) / scale, nil
		case metrics.KindFloat64:
			return v.Float64() / scale, nil
		default:
			return 0, fmt.Errorf("runtime metric %s: unsupported kind %d", name, v.Kind())
		}
	}
}

var _ counter.Provider = (*Runtime)(nil)
