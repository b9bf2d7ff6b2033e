//go:build pprof

package profile

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/profile"

	_ "net/http/pprof" // register HTTP handlers
)

// Modes returns the list of supported profiling modes when built with the
// pprof build tag. The special mode "quiet" is omitted from the list.
var Modes = sync.OnceValue(
	func() []string {
		m := maps.Clone(mode)
		delete(m, "quiet")

		return slices.Sorted(maps.Keys(m))
	},
)

var mode = map[string]func(*profile.Profile){
	"allocs":    profile.MemProfileAllocs,
	"block":     profile.BlockProfile,
	"clock":     profile.ClockProfile,
	"cpu":       profile.CPUProfile,
	"goroutine": profile.GoroutineProfile,
	"heap":      profile.MemProfileHeap,
	"mem":       profile.MemProfile,
	"mutex":     profile.MutexProfile,
	"quiet":     profile.Quiet,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// plan is the accumulated set of pkg/profile options to start with.
type plan struct {
	opts []func(*profile.Profile)
}

func start(name, path string, quiet bool) interface{ Stop() } {
	p := makePlan(withProfile(name))

	// An unrecognized mode starts nothing.
	if len(p.opts) == 0 {
		return ignore{}
	}

	return profile.Start(
		apply(p, withPath(path), withQuiet(quiet)).opts...,
	)
}

func withProfile(name string) Option {
	return func(p plan) plan {
		if fn, ok := mode[name]; ok {
			p.opts = append(p.opts, fn)
		}

		return p
	}
}

func withPath(dir string) Option {
	return func(p plan) plan {
		if dir != "" {
			p.opts = append(p.opts, profile.ProfilePath(dir))
		}

		return p
	}
}

func withQuiet(v bool) Option {
	return func(p plan) plan {
		if v {
			p.opts = append(p.opts, profile.Quiet)
		}

		return p
	}
}
