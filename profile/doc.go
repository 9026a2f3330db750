// Package profile adds runtime profiling capabilities to CLI applications.
//
// It supports CPU, heap, allocs, goroutine, threadcreate, block, and mutex
// profiles through command-line flags. Use [Config.RegisterFlags] to add CLI
// flags and [Config.RegisterCompletions] to wire up shell completions.
//
// Typical usage creates a [Config], registers flags, then creates a [Profiler]
// to wrap command execution:
//
//	cfg := profile.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//
//	p := cfg.NewProfiler(profile.WithLogger(logger))
//	err := p.Start()
//	defer p.Stop()
//
// [Profiler.Table] reports each profile's path and capture state, and can be
// registered with the profile viewer so captures can be watched from the
// overlay:
//
//	v.AddRootTable(p.Table())
//
// Users can then enable profiling via flags like --cpu-profile=cpu.prof.
package profile
