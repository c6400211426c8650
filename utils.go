package main

import (
	"fmt"
	"strings"

	"github.com/pkg/profile"
	"github.com/rs/zerolog/log"
)

func panicIf(err error) {
	if err != nil {
		log.Panic().Err(err).Send()
	}
}

// profileMode maps the -profile flag to a pkg/profile mode, nil for "".
func profileMode(name string) (func(*profile.Profile), error) {
	switch strings.ToLower(name) {
	case "":
		return nil, nil
	case "cpu":
		return profile.CPUProfile, nil
	case "mem":
		return profile.MemProfile, nil
	case "allocs":
		return profile.MemProfileAllocs, nil
	case "block":
		return profile.BlockProfile, nil
	case "mutex":
		return profile.MutexProfile, nil
	case "goroutine":
		return profile.GoroutineProfile, nil
	case "trace":
		return profile.TraceProfile, nil
	case "clock":
		return profile.ClockProfile, nil
	default:
		return nil, fmt.Errorf("unknown profile %q", name)
	}
}
