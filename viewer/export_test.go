package viewer_test

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/profview/stringtest"
	"go.jacobcolvin.com/profview/table"
	"go.jacobcolvin.com/profview/viewer"
)

var fixedClock = func() time.Time {
	return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
}

func TestDump(t *testing.T) {
	t.Parallel()

	root := table.NewStatic("t", "T",
		table.NewColumn("Name", 0),
		table.NewColumn("Time", 0),
	)
	root.AddRow("alpha", "1.0")
	root.AddRow("b", "22.5")

	child := table.NewStatic("c", "Child", table.NewColumn("Wide column", 0))
	child.AddRow("x")
	root.SetChild(0, child)

	other := table.NewStatic("o", "Other")

	v := viewer.New(viewer.WithClock(fixedClock))
	v.AddRootTable(root)
	v.AddRootTable(other)

	var buf bytes.Buffer

	require.NoError(t, v.Dump(&buf))

	want := stringtest.JoinLF(
		strings.Repeat("=", 64),
		"profview dev 2026-01-02T03:04:05Z",
		"",
		"T (t)",
		"Name   Time",
		"-----------",
		"alpha  1.0",
		"b      22.5",
		"",
		"Child (c)",
		"Wide column",
		"-----------",
		"x",
		"",
		"Other (o)",
		"",
		"",
		"",
	)
	assert.Equal(t, want, buf.String())
}

func TestDumpColumnWidth(t *testing.T) {
	t.Parallel()

	s := table.NewStatic("w", "W",
		table.NewColumn("A", 48),
		table.NewColumn("B", 0),
	)
	s.AddRow("1", "2")

	v := viewer.New(viewer.WithClock(fixedClock))
	v.AddRootTable(s)

	var buf bytes.Buffer

	require.NoError(t, v.Dump(&buf))

	// 48px at 8px per character pads the first column to 6 characters.
	assert.Contains(t, buf.String(), "\nA       B\n")
	assert.Contains(t, buf.String(), "\n1       2\n")
}

func TestDumpCycles(t *testing.T) {
	t.Parallel()

	a := table.NewStatic("a", "A", table.NewColumn("N", 80))
	b := table.NewStatic("b", "B", table.NewColumn("N", 80))
	c := table.NewStatic("c", "C", table.NewColumn("N", 80))

	a.AddRow("to b")
	a.AddRow("self")
	b.AddRow("to c")
	b.AddRow("to a")
	c.AddRow("to b")

	a.SetChild(0, b)
	a.SetChild(1, a)
	b.SetChild(0, c)
	b.SetChild(1, a)
	c.SetChild(0, b)

	v := viewer.New(viewer.WithClock(fixedClock))
	v.AddRootTable(a)
	v.AddRootTable(c)

	var buf bytes.Buffer

	require.NoError(t, v.Dump(&buf))

	out := buf.String()
	for _, heading := range []string{"\nA (a)\n", "\nB (b)\n", "\nC (c)\n"} {
		assert.Equal(t, 1, strings.Count(out, heading), heading)
	}

	// Parents come before their children.
	assert.Less(t, strings.Index(out, "\nA (a)\n"), strings.Index(out, "\nB (b)\n"))
	assert.Less(t, strings.Index(out, "\nB (b)\n"), strings.Index(out, "\nC (c)\n"))
}

type failingWriter struct{}

func (failingWriter) Write(_ []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestDumpWriteError(t *testing.T) {
	t.Parallel()

	v := viewer.New()

	err := v.Dump(failingWriter{})
	require.ErrorIs(t, err, viewer.ErrWriteDump)
}

func TestSaveToFile(t *testing.T) {
	t.Parallel()

	t.Run("appends dumps", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "logs", "profile.txt")

		var logs bytes.Buffer

		v := viewer.New(
			viewer.WithDumpPath(path),
			viewer.WithClock(fixedClock),
			viewer.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		)
		parent, _ := scenario()
		v.AddRootTable(parent)

		require.NoError(t, v.SaveToFile())
		require.NoError(t, v.SaveToFile())

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		assert.Equal(t, 2, strings.Count(string(data), "profview dev 2026-01-02T03:04:05Z"))
		assert.Equal(t, 2, strings.Count(string(data), "\nBeta details (detail)\n"))
		assert.Contains(t, logs.String(), "saved profile tables")
	})

	t.Run("failure is a warning", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

		var logs bytes.Buffer

		v := viewer.New(
			viewer.WithDumpPath(filepath.Join(blocker, "logs", "profile.txt")),
			viewer.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		)
		parent, _ := scenario()
		v.AddRootTable(parent)

		err := v.SaveToFile()
		require.ErrorIs(t, err, viewer.ErrWriteDump)
		assert.Contains(t, logs.String(), "level=WARN")
		assert.Contains(t, logs.String(), "saving profile tables")

		// The viewer keeps working.
		assert.Equal(t, viewer.Handled, v.Input(viewer.KeyEvent("shift+f11")))
		assert.Equal(t, viewer.Handled, v.Input(viewer.KeyEvent("f11")))
		assert.True(t, v.Visible())
	})
}
