//go:build unix

package feeds

import (
	"runtime"
	"time"

	"golang.org/x/sys/unix"
)

func getrusage() (*unix.Rusage, error) {
	var ru unix.Rusage
	err := unix.Getrusage(unix.RUSAGE_SELF, &ru)
	if err != nil {
		return nil, err
	}
	return &ru, nil
}

func rusageReads() map[string]readFunc {
	field := func(get func(ru *unix.Rusage) float64) readFunc {
		return func() (float64, error) {
			ru, err := getrusage()
			if err != nil {
				return 0, err
			}
			return get(ru), nil
		}
	}

	return map[string]readFunc{
		"Max RSS MiB": field(func(ru *unix.Rusage) float64 {
			// darwin reports bytes, everything else KiB
			if runtime.GOOS == "darwin" || runtime.GOOS == "ios" {
				return float64(ru.Maxrss) / MiB
			}
			return float64(ru.Maxrss) / 1024
		}),
		"Minor Faults": field(func(ru *unix.Rusage) float64 {
			return float64(ru.Minflt)
		}),
		"Major Faults": field(func(ru *unix.Rusage) float64 {
			return float64(ru.Majflt)
		}),
		"User Time ms": field(func(ru *unix.Rusage) float64 {
			return float64(time.Duration(ru.Utime.Nano()) / time.Millisecond)
		}),
		"System Time ms": field(func(ru *unix.Rusage) float64 {
			return float64(time.Duration(ru.Stime.Nano()) / time.Millisecond)
		}),
	}
}
