// Package source provides ready-made profile tables.
//
// Each type implements [table.Table] and can be registered with
// [viewer.Viewer.AddRootTable]:
//
//   - [Frames] aggregates per-frame section timings recorded by the host.
//   - [Runtime] shows Go runtime statistics, refreshed on demand.
//   - [Pprof] shows the top functions of a pprof profile file, with a
//     drill-down callee graph.
//   - [LogTail] shows recent log lines from a [log.Publisher].
//
// Tables are updated by their owner from the host loop and only read by the
// viewer, so none of them are safe for concurrent use.
package source
