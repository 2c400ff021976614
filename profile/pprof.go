//go:build pprof

package profile

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/profile"
)

// Modes returns the sorted profiling modes supported by this build.
//
//nolint:gochecknoglobals
var Modes = sync.OnceValue(
	func() []string { return slices.Sorted(maps.Keys(mode)) },
)

//nolint:gochecknoglobals
var mode = map[string]func(*profile.Profile){
	"allocs":    profile.MemProfileAllocs,
	"block":     profile.BlockProfile,
	"clock":     profile.ClockProfile,
	"cpu":       profile.CPUProfile,
	"goroutine": profile.GoroutineProfile,
	"heap":      profile.MemProfileHeap,
	"mem":       profile.MemProfile,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

func start(m, path string, quiet bool) interface{ Stop() } {
	c := makeControl(withMode(m))
	if len(c.opts) == 0 {
		return ignore{}
	}

	c = makeControl(withMode(m), withPath(path), withQuiet(quiet))

	// pkg/profile installs its own interrupt handler unless told otherwise;
	// the CLI owns signal handling.
	return profile.Start(append(c.opts, profile.NoShutdownHook)...)
}
