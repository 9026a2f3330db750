package viewer

import (
	"container/list"
	"log/slog"
	"path/filepath"
	"time"

	"go.jacobcolvin.com/profview/table"
)

// DefaultDumpPath is where [Viewer.SaveToFile] appends dumps unless
// configured otherwise.
var DefaultDumpPath = filepath.Join("logs", "profile.txt")

// Viewer manages and displays profile tables.
//
// Viewer is not safe for concurrent use. Registration, input and rendering
// are expected to happen on the host's main loop.
//
// Create instances with [New] or [Config.NewViewer].
type Viewer struct {
	logger   *slog.Logger
	now      func() time.Time
	roots    *list.List
	rootIdx  map[table.Table]*list.Element
	keys     map[string]Action
	keymap   Keymap
	dumpPath string
	path     []frame
	layout   Layout
	visible  bool
}

// frame is one level of the navigation path.
type frame struct {
	table  table.Table
	row    int
	scroll int
}

// Option configures a [Viewer].
type Option func(*Viewer)

// WithLogger sets the logger used for export warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Viewer) {
		v.logger = logger
	}
}

// WithKeymap sets the key bindings.
func WithKeymap(km Keymap) Option {
	return func(v *Viewer) {
		v.keymap = km
	}
}

// WithLayout sets the overlay geometry.
func WithLayout(l Layout) Option {
	return func(v *Viewer) {
		v.layout = l
	}
}

// WithDumpPath sets the file [Viewer.SaveToFile] appends to.
func WithDumpPath(path string) Option {
	return func(v *Viewer) {
		v.dumpPath = path
	}
}

// WithClock sets the time source used for dump headers.
func WithClock(now func() time.Time) Option {
	return func(v *Viewer) {
		v.now = now
	}
}

// New creates a hidden [Viewer] with no tables.
func New(opts ...Option) *Viewer {
	v := &Viewer{
		logger:   slog.Default(),
		now:      time.Now,
		roots:    list.New(),
		rootIdx:  map[table.Table]*list.Element{},
		keymap:   DefaultKeymap(),
		layout:   DefaultLayout(),
		dumpPath: DefaultDumpPath,
	}
	for _, opt := range opts {
		opt(v)
	}

	v.layout = v.layout.normalize()
	v.keys = v.keymap.index()

	return v
}

// Registration is returned by [Viewer.AddRootTable]. Closing it removes the
// table from the viewer.
type Registration struct {
	v *Viewer
	t table.Table
}

// Table returns the registered table.
func (r *Registration) Table() table.Table {
	return r.t
}

// Close removes the table from the viewer. Idempotent.
func (r *Registration) Close() {
	r.v.Remove(r.t)
}

// AddRootTable adds t to the root tables, the ones cycled through with the
// root switching keys. Adding a table that is already a root only returns a
// new [Registration] for it.
//
// If the overlay is visible but shows nothing, t becomes the viewed table.
func (v *Viewer) AddRootTable(t table.Table) *Registration {
	if _, ok := v.rootIdx[t]; !ok {
		v.rootIdx[t] = v.roots.PushBack(t)
	}

	if v.visible && len(v.path) == 0 {
		v.path = append(v.path, frame{table: t})
	}

	return &Registration{v: v, t: t}
}

// Remove drops every reference the viewer holds to t: its root registration,
// if any, and the part of the navigation path from t downwards. When this
// empties the path, the first remaining root is shown instead.
//
// Owners call Remove (or [Registration.Close], or [Dispose]) when they
// dispose a table, including child tables that were never registered.
func (v *Viewer) Remove(t table.Table) {
	if e, ok := v.rootIdx[t]; ok {
		v.roots.Remove(e)
		delete(v.rootIdx, t)
	}

	for i, f := range v.path {
		if f.table != t {
			continue
		}

		clear(v.path[i:])
		v.path = v.path[:i]

		if i == 0 {
			v.path = v.seedPath(v.path)
		}

		break
	}
}

// seedPath appends a frame for the first root, if there is one.
func (v *Viewer) seedPath(path []frame) []frame {
	first := v.roots.Front()
	if first == nil {
		return path
	}

	//nolint:forcetypeassert // Only tables are pushed onto roots.
	return append(path, frame{table: first.Value.(table.Table)})
}

// Roots returns the registered root tables in registration order.
func (v *Viewer) Roots() []table.Table {
	roots := make([]table.Table, 0, v.roots.Len())
	for e := v.roots.Front(); e != nil; e = e.Next() {
		//nolint:forcetypeassert // Only tables are pushed onto roots.
		roots = append(roots, e.Value.(table.Table))
	}

	return roots
}

// Path returns the tables from the viewed root down to the current table.
func (v *Viewer) Path() []table.Table {
	path := make([]table.Table, len(v.path))
	for i, f := range v.path {
		path[i] = f.table
	}

	return path
}

// Current returns the table at the end of the navigation path, or nil.
func (v *Viewer) Current() table.Table {
	if len(v.path) == 0 {
		return nil
	}

	return v.path[len(v.path)-1].table
}

// Selected returns the selected row of the current table, clamped to its
// current row count. It returns 0 when nothing is shown.
func (v *Viewer) Selected() int {
	if len(v.path) == 0 {
		return 0
	}

	f := v.path[len(v.path)-1]

	return clampRow(f.row, f.table.NumberRows())
}

// Layout returns the overlay geometry.
func (v *Viewer) Layout() Layout {
	return v.layout
}

// Visible reports whether the overlay is shown.
func (v *Viewer) Visible() bool {
	return v.visible
}

// SetVisible shows or hides the overlay. Showing it with nothing selected
// selects the first root table. The navigation path is kept while hidden.
func (v *Viewer) SetVisible(visible bool) {
	v.visible = visible
	if visible && len(v.path) == 0 {
		v.path = v.seedPath(v.path)
	}
}

// ShowTable shows the root table named name, resetting the navigation path.
// It reports whether such a root exists.
func (v *Viewer) ShowTable(name string) bool {
	for e := v.roots.Front(); e != nil; e = e.Next() {
		//nolint:forcetypeassert // Only tables are pushed onto roots.
		t := e.Value.(table.Table)
		if t.Name() != name {
			continue
		}

		clear(v.path)
		v.path = append(v.path[:0], frame{table: t})
		v.visible = true

		return true
	}

	return false
}

func clampRow(row, n int) int {
	if row >= n {
		row = n - 1
	}

	return max(row, 0)
}
