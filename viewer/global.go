package viewer

import (
	"sync/atomic"

	"go.jacobcolvin.com/profview/table"
)

var installed atomic.Pointer[Viewer]

// Install makes v the process-scoped viewer used by [InputThunk] and
// [Dispose]. Installing nil is the same as [Uninstall].
func Install(v *Viewer) {
	installed.Store(v)
}

// Uninstall clears the process-scoped viewer.
func Uninstall() {
	installed.Store(nil)
}

// Default returns the process-scoped viewer, or nil if none is installed.
func Default() *Viewer {
	return installed.Load()
}

// InputThunk forwards ev to the process-scoped viewer. Without one it returns
// [Pass] and does nothing, so it is safe to hook up before the viewer exists
// and after it is gone.
func InputThunk(ev Event) Reaction {
	v := installed.Load()
	if v == nil {
		return Pass
	}

	return v.Input(ev)
}

// Dispose removes t from the process-scoped viewer, if there is one. Table
// owners call it when they drop a table. See [Viewer.Remove].
func Dispose(t table.Table) {
	v := installed.Load()
	if v == nil {
		return
	}

	v.Remove(t)
}
