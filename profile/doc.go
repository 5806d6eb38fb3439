// Package profile provides optional runtime profiling for the exparse
// command.
//
// # Overview
//
// This package integrates [github.com/pkg/profile] with conditional
// compilation. Profiling must be enabled at build time using the "pprof"
// build tag:
//
//	go build -tags pprof .
//
// When built without the tag, [Profiler.Start] returns a no-op and [Modes]
// is empty, so callers need no build constraints of their own.
//
// # Available Profiling Modes
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
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/profiles", Quiet: true}
//	s := p.Start()
//	defer s.Stop()
//
// The fork-join evaluator is the usual target. Compare a sequential run
// against the default fork strategy:
//
//	exparse --pprof-mode cpu eval --sequential --source deep.txt
//	exparse --pprof-mode cpu eval --source deep.txt
//	go tool pprof -http=: $XDG_CACHE_HOME/exparse/pprof/cpu.pprof
//
// Block and mutex modes show contention at the fork join points.
//
// # HTTP-Based Profiling
//
// When built with the pprof tag, this package also imports [net/http/pprof],
// which registers handlers at /debug/pprof/ on [net/http.DefaultServeMux].
// Serving them is left to the embedding program.
package profile
