// Package viewer displays profile tables as an in-application overlay.
//
// A [Viewer] keeps a registry of root [table.Table] values, a navigation path
// from the viewed root down to the currently shown table, and a visibility
// flag. Each frame the host calls [Viewer.RenderProfile] with a [Canvas] and
// routes input events through [Viewer.Input], which reports whether the event
// was consumed:
//
//	v := viewer.New(viewer.WithLogger(logger))
//	reg := v.AddRootTable(frames)
//	defer reg.Close()
//
//	if v.Input(viewer.KeyEvent(key)) == viewer.Pass {
//	    // Deliver the key to the rest of the application.
//	}
//
//	v.RenderProfile(canvas)
//
// Tables are never owned by the viewer. When a table goes away its owner calls
// [Registration.Close], [Viewer.Remove], or [Dispose]; the table is then
// dropped from the registry and from the navigation path before the call
// returns.
//
// # Navigation
//
// The default [Keymap] binds f11 to show or hide the overlay, shift+f11 to
// append a dump of every table to the log file, up/down and pgup/pgdown to
// move the selection, enter/right to open the selected row's child table,
// backspace/left to go back, and tab/shift+tab to switch root tables.
// The digits 1-9 open the n-th row that has a child table and 0 goes back.
// Going back from a root table does nothing.
//
// # Process-scoped viewer
//
// Hosts that dispatch input through plain functions can [Install] a viewer
// and use [InputThunk], which passes events through untouched while no viewer
// is installed. Table owners that do not hold the viewer call [Dispose].
package viewer
