// Package table defines the data model that profiling sources implement to be
// displayed by the profile viewer.
//
// A [Table] exposes a name, a title, a column schema, and cell text for each
// row. A row may link to a child [Table], so registered root tables form a
// tree (or, for misbehaving sources, a graph) that the viewer can drill into.
//
// Tables are owned by the subsystem that creates them. The viewer only keeps
// non-owning references and drops them when the owner disposes the table via
// the viewer package.
//
// [Static] is a ready-made implementation for fixed or owner-updated data:
//
//	t := table.NewStatic("frame", "Frame timings",
//	    table.NewColumn("Name", 160),
//	    table.NewColumn("Time", 80),
//	)
//	t.AddRow("update", "1.20ms")
//	t.SetChild(0, updateDetails)
package table
