package viewer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/profview/table"
	"go.jacobcolvin.com/profview/viewer"
)

func TestNew(t *testing.T) {
	t.Parallel()

	v := viewer.New()

	assert.False(t, v.Visible())
	assert.Empty(t, v.Roots())
	assert.Empty(t, v.Path())
	assert.Nil(t, v.Current())
	assert.Zero(t, v.Selected())
}

func TestAddRootTable(t *testing.T) {
	t.Parallel()

	t.Run("keeps registration order", func(t *testing.T) {
		t.Parallel()

		v := viewer.New()
		a := table.NewStatic("a", "A")
		b := table.NewStatic("b", "B")

		v.AddRootTable(a)
		v.AddRootTable(b)

		assert.Equal(t, []table.Table{a, b}, v.Roots())
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()

		v := viewer.New()
		a := table.NewStatic("a", "A")

		r1 := v.AddRootTable(a)
		r2 := v.AddRootTable(a)

		assert.Len(t, v.Roots(), 1)
		assert.Equal(t, table.Table(a), r1.Table())
		assert.Equal(t, table.Table(a), r2.Table())
	})

	t.Run("shows table when visible and empty", func(t *testing.T) {
		t.Parallel()

		v := viewer.New()
		v.SetVisible(true)
		assert.Nil(t, v.Current())

		a := table.NewStatic("a", "A")
		v.AddRootTable(a)

		assert.Equal(t, table.Table(a), v.Current())
	})

	t.Run("hidden viewer stays collapsed", func(t *testing.T) {
		t.Parallel()

		v := viewer.New()
		v.AddRootTable(table.NewStatic("a", "A"))

		assert.Nil(t, v.Current())
	})
}

func TestRemove(t *testing.T) {
	t.Parallel()

	t.Run("registration close drops root", func(t *testing.T) {
		t.Parallel()

		v := viewer.New()
		a := table.NewStatic("a", "A")
		b := table.NewStatic("b", "B")

		reg := v.AddRootTable(a)
		v.AddRootTable(b)

		reg.Close()
		reg.Close()

		assert.Equal(t, []table.Table{b}, v.Roots())
	})

	t.Run("viewed root is replaced by first remaining root", func(t *testing.T) {
		t.Parallel()

		v := viewer.New()
		a := table.NewStatic("a", "A")
		b := table.NewStatic("b", "B")

		reg := v.AddRootTable(a)
		v.AddRootTable(b)
		v.SetVisible(true)
		require.Equal(t, table.Table(a), v.Current())

		reg.Close()

		assert.Equal(t, []table.Table{b}, v.Path())
	})

	t.Run("last root leaves viewer collapsed", func(t *testing.T) {
		t.Parallel()

		v := viewer.New()
		a := table.NewStatic("a", "A")

		reg := v.AddRootTable(a)
		v.SetVisible(true)

		reg.Close()

		assert.Empty(t, v.Roots())
		assert.Empty(t, v.Path())
		assert.Equal(t, viewer.Pass, v.Input(viewer.KeyEvent("down")))
	})

	t.Run("child table is cut from path", func(t *testing.T) {
		t.Parallel()

		v := viewer.New()
		parent, child := scenario()
		grandchild := table.NewStatic("gc", "GC")
		child.SetChild(0, grandchild)

		v.AddRootTable(parent)
		v.SetVisible(true)
		press(v, "down", "enter", "enter")
		require.Equal(t, []table.Table{parent, child, grandchild}, v.Path())

		v.Remove(child)

		assert.Equal(t, []table.Table{parent}, v.Path())
		assert.Equal(t, 1, v.Selected())
		assert.Equal(t, []table.Table{parent}, v.Roots())
	})

	t.Run("unknown table is ignored", func(t *testing.T) {
		t.Parallel()

		v := viewer.New()
		a := table.NewStatic("a", "A")
		v.AddRootTable(a)

		v.Remove(table.NewStatic("other", "Other"))

		assert.Equal(t, []table.Table{a}, v.Roots())
	})
}

func TestAddThenRemove(t *testing.T) {
	t.Parallel()

	// Any interleaving of additions, navigation and removals leaves no trace
	// of removed tables.
	tcs := map[string]struct {
		keys   []string
		remove []int
	}{
		"remove viewed root": {
			keys:   []string{"f11"},
			remove: []int{0},
		},
		"remove after cycling": {
			keys:   []string{"f11", "tab", "tab"},
			remove: []int{2, 0},
		},
		"remove all": {
			keys:   []string{"f11", "down", "enter"},
			remove: []int{1, 0, 2},
		},
		"remove while hidden": {
			keys:   []string{"f11", "tab", "f11"},
			remove: []int{1},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			v := viewer.New()

			var regs []*viewer.Registration

			for range 3 {
				parent, _ := scenario()
				regs = append(regs, v.AddRootTable(parent))
			}

			press(v, tc.keys...)

			for _, i := range tc.remove {
				removed := regs[i].Table()
				regs[i].Close()

				assert.False(t, containsTable(v.Roots(), removed), "removed table still a root")
				assert.False(t, containsTable(v.Path(), removed), "removed table still on path")
			}
		})
	}
}

func TestShowTable(t *testing.T) {
	t.Parallel()

	v := viewer.New()
	a := table.NewStatic("a", "A")
	b := table.NewStatic("b", "B")

	v.AddRootTable(a)
	v.AddRootTable(b)

	assert.False(t, v.ShowTable("missing"))
	assert.False(t, v.Visible())

	assert.True(t, v.ShowTable("b"))
	assert.True(t, v.Visible())
	assert.Equal(t, []table.Table{b}, v.Path())
}

//nolint:paralleltest // Mutates the process-scoped viewer.
func TestInstalledViewer(t *testing.T) {
	t.Cleanup(viewer.Uninstall)

	t.Run("thunk without viewer passes", func(t *testing.T) {
		viewer.Uninstall()

		assert.Nil(t, viewer.Default())
		assert.Equal(t, viewer.Pass, viewer.InputThunk(viewer.KeyEvent("f11")))

		// Disposing without a viewer is a no-op.
		viewer.Dispose(table.NewStatic("a", "A"))
	})

	t.Run("thunk forwards to installed viewer", func(t *testing.T) {
		v := viewer.New()
		v.AddRootTable(table.NewStatic("a", "A"))
		viewer.Install(v)

		assert.Same(t, v, viewer.Default())
		assert.Equal(t, viewer.Handled, viewer.InputThunk(viewer.KeyEvent("f11")))
		assert.True(t, v.Visible())
		assert.Equal(t, viewer.Pass, viewer.InputThunk(viewer.KeyEvent("x")))
	})

	t.Run("dispose removes from installed viewer", func(t *testing.T) {
		v := viewer.New()
		parent, child := scenario()
		v.AddRootTable(parent)
		v.SetVisible(true)
		press(v, "down", "enter")
		viewer.Install(v)

		viewer.Dispose(child)
		assert.Equal(t, []table.Table{parent}, v.Path())

		viewer.Dispose(parent)
		assert.Empty(t, v.Roots())
		assert.Empty(t, v.Path())
	})

	t.Run("thunk after uninstall passes", func(t *testing.T) {
		v := viewer.New()
		viewer.Install(v)
		viewer.Uninstall()

		assert.Equal(t, viewer.Pass, viewer.InputThunk(viewer.KeyEvent("f11")))
		assert.False(t, v.Visible())
	})
}
