// Package profile provides optional runtime profiling for the tally
// application.
//
// # Overview
//
// This package integrates [github.com/pkg/profile] to provide runtime profiling
// capabilities with conditional compilation support. Profiling is optional and
// must be enabled at build time using the "pprof" build tag.
//
// When built with profiling disabled (default), all operations are no-ops with
// zero runtime overhead.
//
// # Available Profiling Modes
//
// The following profiling modes are supported when built with the pprof tag:
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// Use [Modes] to retrieve the list of supported modes programmatically.
//
// # Using File-Based Profiling
//
// File-based profiling writes profiling data to disk for later analysis:
//
//	ctrl := profile.Config(func() (string, string, bool) {
//	    return "cpu", "/tmp/profiles", false
//	}).Start()
//	defer ctrl.Stop()
//
// Profile files are written to the given directory with names matching the
// profiling mode (e.g., cpu.pprof, mem.pprof).
//
// # Command-Line Usage
//
// The tally command supports profiling through command-line flags when built
// with the pprof tag:
//
//	# Enable CPU profiling (writes to default cache directory)
//	./tally --pprof-mode cpu eval data.csv 'mean(value)'
//
//	# Enable heap profiling with custom output directory
//	./tally --pprof-mode heap --pprof-dir ./profiles eval data.csv 'sum(value)'
//
// The default output directory is:
//
//	$XDG_CACHE_HOME/tally/pprof   (Linux/Unix)
//	~/Library/Caches/tally/pprof  (macOS)
//	%LocalAppData%\tally\pprof    (Windows)
//
// # Analyzing Profile Data
//
// Use the go tool pprof command to analyze profile data:
//
//	go tool pprof ./tally /tmp/profiles/cpu.pprof
//	go tool pprof -http=: /tmp/profiles/cpu.pprof
//
// # HTTP-Based Profiling (net/http/pprof)
//
// When built with the pprof tag, this package imports [net/http/pprof], which
// registers HTTP handlers for runtime profiling at /debug/pprof/. The handlers
// are served only if the application starts an HTTP server.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
