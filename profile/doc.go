// Package profile provides optional runtime profiling for lispfront.
//
// Profiling is compiled in only with the "pprof" build tag and is driven by
// [github.com/pkg/profile]. Without the tag, [Modes] is empty and
// [Profiler.Start] returns a no-op.
//
//	go build -tags pprof .
//	lispfront --pprof-mode=cpu tree program.lisp
//
// A profiler is built from options and stopped when the command exits:
//
//	p := profile.Make(
//		profile.WithMode("heap"),
//		profile.WithPath(dir),
//		profile.WithQuiet(true),
//	)
//	defer p.Start().Stop()
//
// Profiles are written to the configured directory (by default the pprof
// subdirectory of the user cache directory) under the names chosen by
// pkg/profile, for example cpu.pprof or mem.pprof.
package profile
