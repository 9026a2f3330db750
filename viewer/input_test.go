package viewer_test

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/profview/table"
	"go.jacobcolvin.com/profview/viewer"
)

func TestNavigationScenario(t *testing.T) {
	t.Parallel()

	v := viewer.New()
	parent, child := scenario()
	v.AddRootTable(parent)

	require.Equal(t, viewer.Handled, v.Input(viewer.KeyEvent("f11")))
	require.True(t, v.Visible())

	var c recorder

	v.RenderProfile(&c)

	l := viewer.DefaultLayout()
	firstRow := l.Y + 2*l.LineHeight
	assert.Equal(t, []string{"alpha", "1.0"}, c.textsAt(firstRow))
	assert.Equal(t, []string{"[1] beta", "2.0"}, c.textsAt(firstRow+l.LineHeight))
	assert.Equal(t, []string{"gamma", "3.0"}, c.textsAt(firstRow+2*l.LineHeight))
	assert.Empty(t, c.textsAt(firstRow+3*l.LineHeight))

	// Expand row 1.
	require.Equal(t, viewer.Handled, v.Input(viewer.KeyEvent("down")))
	require.Equal(t, viewer.Handled, v.Input(viewer.KeyEvent("enter")))
	assert.Equal(t, table.Table(child), v.Current())
	assert.Len(t, v.Path(), 2)

	// Collapse.
	require.Equal(t, viewer.Handled, v.Input(viewer.KeyEvent("backspace")))
	assert.Equal(t, table.Table(parent), v.Current())
	assert.Equal(t, 1, v.Selected())
}

func TestExpand(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		keys      []string
		wantDepth int
		wantName  string
	}{
		"row with child": {
			keys:      []string{"down", "enter"},
			wantDepth: 2,
			wantName:  "detail",
		},
		"row without child is a no-op": {
			keys:      []string{"enter"},
			wantDepth: 1,
			wantName:  "timings",
		},
		"right arrow": {
			keys:      []string{"down", "right"},
			wantDepth: 2,
			wantName:  "detail",
		},
		"digit opens first row with child": {
			keys:      []string{"1"},
			wantDepth: 2,
			wantName:  "detail",
		},
		"digit beyond rows with children": {
			keys:      []string{"2"},
			wantDepth: 1,
			wantName:  "timings",
		},
		"leaf in child table": {
			keys:      []string{"1", "enter"},
			wantDepth: 2,
			wantName:  "detail",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			v := viewer.New()
			parent, _ := scenario()
			v.AddRootTable(parent)
			v.SetVisible(true)

			press(v, tc.keys...)

			assert.Len(t, v.Path(), tc.wantDepth)
			assert.Equal(t, tc.wantName, v.Current().Name())
		})
	}
}

func TestExpandClearedChild(t *testing.T) {
	t.Parallel()

	v := viewer.New()
	parent, _ := scenario()
	parent.SetChild(1, (*table.Static)(nil))
	v.AddRootTable(parent)
	v.SetVisible(true)

	press(v, "down", "enter", "1")
	assert.Len(t, v.Path(), 1)

	assert.NotPanics(t, func() { v.RenderProfile(&recorder{}) })
}

func TestCollapse(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		keys      []string
		wantDepth int
		wantRow   int
	}{
		"at root is a no-op": {
			keys:      []string{"down", "down", "backspace"},
			wantDepth: 1,
			wantRow:   2,
		},
		"repeated at root": {
			keys:      []string{"left", "left", "0"},
			wantDepth: 1,
			wantRow:   0,
		},
		"digit zero pops": {
			keys:      []string{"1", "0"},
			wantDepth: 1,
			wantRow:   1,
		},
		"left arrow pops": {
			keys:      []string{"1", "left"},
			wantDepth: 1,
			wantRow:   1,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			v := viewer.New()
			parent, _ := scenario()
			v.AddRootTable(parent)
			v.SetVisible(true)

			press(v, tc.keys...)

			assert.Len(t, v.Path(), tc.wantDepth)
			assert.Equal(t, table.Table(parent), v.Current())
			assert.Equal(t, tc.wantRow, v.Selected())
		})
	}
}

func TestSelection(t *testing.T) {
	t.Parallel()

	newTable := func(rows int) *table.Static {
		s := table.NewStatic("big", "Big", table.NewColumn("N", 80))
		for i := range rows {
			s.AddRow(fmt.Sprint(i))
		}

		return s
	}

	tcs := map[string]struct {
		events  []viewer.Event
		rows    int
		maxRows int
		want    int
	}{
		"up at top stays": {
			events: []viewer.Event{viewer.KeyEvent("up")},
			rows:   3,
			want:   0,
		},
		"down stops at last row": {
			events: []viewer.Event{
				viewer.KeyEvent("down"), viewer.KeyEvent("down"),
				viewer.KeyEvent("down"), viewer.KeyEvent("down"),
			},
			rows: 3,
			want: 2,
		},
		"page down": {
			events:  []viewer.Event{viewer.KeyEvent("pgdown")},
			rows:    20,
			maxRows: 5,
			want:    5,
		},
		"page up clamps": {
			events:  []viewer.Event{viewer.KeyEvent("pgdown"), viewer.KeyEvent("pgup"), viewer.KeyEvent("pgup")},
			rows:    20,
			maxRows: 5,
			want:    0,
		},
		"wheel down": {
			events: []viewer.Event{viewer.WheelEvent(-1)},
			rows:   10,
			want:   3,
		},
		"wheel up": {
			events: []viewer.Event{viewer.WheelEvent(-2), viewer.WheelEvent(1)},
			rows:   10,
			want:   3,
		},
		"empty table": {
			events: []viewer.Event{viewer.KeyEvent("down"), viewer.KeyEvent("enter")},
			rows:   0,
			want:   0,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			l := viewer.DefaultLayout()
			if tc.maxRows > 0 {
				l.MaxRows = tc.maxRows
			}

			v := viewer.New(viewer.WithLayout(l))
			v.AddRootTable(newTable(tc.rows))
			v.SetVisible(true)

			for _, ev := range tc.events {
				assert.Equal(t, viewer.Handled, v.Input(ev))
			}

			assert.Equal(t, tc.want, v.Selected())
		})
	}

	t.Run("selection follows shrinking table", func(t *testing.T) {
		t.Parallel()

		v := viewer.New()
		s := newTable(5)
		v.AddRootTable(s)
		v.SetVisible(true)
		press(v, "down", "down", "down", "down")
		require.Equal(t, 4, v.Selected())

		s.SetRows([][]string{{"only"}})
		assert.Zero(t, v.Selected())

		press(v, "down")
		assert.Zero(t, v.Selected())
	})
}

func TestRootCycling(t *testing.T) {
	t.Parallel()

	v := viewer.New()
	a := table.NewStatic("a", "A")
	b := table.NewStatic("b", "B")
	c := table.NewStatic("c", "C")

	for _, tbl := range []table.Table{a, b, c} {
		v.AddRootTable(tbl)
	}

	v.SetVisible(true)

	tcs := []struct {
		key  string
		want table.Table
	}{
		{"tab", b},
		{"tab", c},
		{"tab", a},
		{"shift+tab", c},
		{"shift+tab", b},
	}

	for _, tc := range tcs {
		assert.Equal(t, viewer.Handled, v.Input(viewer.KeyEvent(tc.key)))
		assert.Equal(t, []table.Table{tc.want}, v.Path(), "after %s", tc.key)
	}

	t.Run("replaces whole path", func(t *testing.T) {
		t.Parallel()

		v := viewer.New()
		parent, _ := scenario()
		other := table.NewStatic("other", "Other")

		v.AddRootTable(parent)
		v.AddRootTable(other)
		v.SetVisible(true)
		press(v, "1")
		require.Len(t, v.Path(), 2)

		press(v, "tab")
		assert.Equal(t, []table.Table{other}, v.Path())
	})
}

func TestToggle(t *testing.T) {
	t.Parallel()

	v := viewer.New()
	parent, child := scenario()
	v.AddRootTable(parent)

	// Hidden: navigation keys pass through.
	for _, key := range []string{"down", "enter", "tab", "1", "q"} {
		assert.Equal(t, viewer.Pass, v.Input(viewer.KeyEvent(key)), key)
	}

	assert.Equal(t, viewer.Pass, v.Input(viewer.WheelEvent(1)))

	press(v, "f11", "1")
	require.Equal(t, table.Table(child), v.Current())

	// Hiding keeps the path.
	press(v, "f11")
	assert.False(t, v.Visible())
	assert.Equal(t, table.Table(child), v.Current())

	press(v, "f11")
	assert.True(t, v.Visible())
	assert.Equal(t, table.Table(child), v.Current())

	// Unbound keys pass while visible too.
	assert.Equal(t, viewer.Pass, v.Input(viewer.KeyEvent("q")))
	assert.Equal(t, viewer.Pass, v.Input(viewer.Event{}))
}

func TestToggleWithoutTables(t *testing.T) {
	t.Parallel()

	v := viewer.New()

	assert.Equal(t, viewer.Handled, v.Input(viewer.KeyEvent("f11")))
	assert.True(t, v.Visible())
	assert.Equal(t, viewer.Pass, v.Input(viewer.KeyEvent("down")))

	var c recorder

	v.RenderProfile(&c)
	assert.Empty(t, c.texts)
	assert.Empty(t, c.rects)
}

func TestSaveKey(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "profile.txt")
	v := viewer.New(viewer.WithDumpPath(path))
	parent, _ := scenario()
	v.AddRootTable(parent)

	// Saving works while hidden.
	assert.Equal(t, viewer.Handled, v.Input(viewer.KeyEvent("shift+f11")))
	assert.FileExists(t, path)
	assert.False(t, v.Visible())
}

func TestCustomKeymap(t *testing.T) {
	t.Parallel()

	km := viewer.DefaultKeymap()
	km.Toggle = []string{"`"}
	km.Down = []string{"j"}

	v := viewer.New(viewer.WithKeymap(km))
	parent, _ := scenario()
	v.AddRootTable(parent)

	assert.Equal(t, viewer.Pass, v.Input(viewer.KeyEvent("f11")))
	assert.Equal(t, viewer.Handled, v.Input(viewer.KeyEvent("`")))
	assert.Equal(t, viewer.Handled, v.Input(viewer.KeyEvent("j")))
	assert.Equal(t, 1, v.Selected())
	assert.Equal(t, viewer.Pass, v.Input(viewer.KeyEvent("down")))
}

func TestReactionString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pass", viewer.Pass.String())
	assert.Equal(t, "handled", viewer.Handled.String())
}
