package source_test

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/profview/log"
	"go.jacobcolvin.com/profview/source"
	"go.jacobcolvin.com/profview/table"
	"go.jacobcolvin.com/profview/viewer"
)

func TestLogTail(t *testing.T) {
	t.Parallel()

	pub := log.NewPublisher(log.WithBacklog(8))
	t.Cleanup(func() { require.NoError(t, pub.Close()) })

	logger := slog.New(log.NewHandler(pub, log.LevelDebug, log.FormatJSON))
	logger.Info("before subscribe")

	tail := source.NewLogTail(pub)
	defer tail.Close()

	logger.Warn("slow frame", slog.Int("frame", 12), slog.String("section", "render"))
	logger.Debug("tick")

	assert.Zero(t, tail.NumberRows())
	assert.Equal(t, 3, tail.Drain())
	assert.Zero(t, tail.Drain())
	require.Equal(t, 3, tail.NumberRows())

	assert.Equal(t, "log", tail.Name())
	assert.Equal(t, "Log (3 of 3 entries)", tail.Title())

	tcs := map[string]struct {
		row       int
		level     string
		msg       string
		attrs     string
		highlight bool
		child     bool
	}{
		"newest first": {
			row:   0,
			level: "DEBUG",
			msg:   "tick",
		},
		"warning": {
			row:       1,
			level:     "WARN",
			msg:       "slow frame",
			attrs:     "frame=12 section=render",
			highlight: true,
			child:     true,
		},
		"backlog": {
			row:   2,
			level: "INFO",
			msg:   "before subscribe",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Len(t, tail.CellText(tc.row, 0), len("15:04:05.000"))
			assert.Equal(t, tc.level, tail.CellText(tc.row, 1))
			assert.Equal(t, tc.msg, tail.CellText(tc.row, 2))
			assert.Equal(t, tc.attrs, tail.CellText(tc.row, 3))
			assert.Equal(t, tc.highlight, table.IsHighlightRow(tail, tc.row))
			assert.Equal(t, tc.child, table.HasChild(tail, tc.row))
		})
	}

	t.Run("attribute table", func(t *testing.T) {
		t.Parallel()

		attrs := tail.Child(1)
		require.NotNil(t, attrs)
		assert.Equal(t, "slow frame", attrs.Title())
		require.Equal(t, 2, attrs.NumberRows())
		assert.Equal(t, []string{"frame", "12"}, cells(attrs, 0))
		assert.Equal(t, []string{"section", "render"}, cells(attrs, 1))
	})
}

func TestLogTailRing(t *testing.T) {
	t.Parallel()

	pub := log.NewPublisher()
	tail := source.NewLogTail(pub, source.WithLines(2))

	for i := range 4 {
		_, err := fmt.Fprintf(pub, "plain line %d\n", i)
		require.NoError(t, err)
	}

	assert.Equal(t, 4, tail.Drain())
	require.Equal(t, 2, tail.NumberRows())
	assert.Equal(t, "plain line 3", tail.CellText(0, 2))
	assert.Equal(t, "plain line 2", tail.CellText(1, 2))
	assert.Empty(t, tail.CellText(0, 1), "non-JSON lines have no level")
	assert.Equal(t, "Log (2 of 4 entries)", tail.Title())
	assert.Empty(t, tail.CellText(2, 2))
	assert.Nil(t, tail.Child(2))

	tail.Close()
	require.NoError(t, pub.Close())
	assert.Zero(t, tail.Drain())
}

func TestLogTailErrorLevel(t *testing.T) {
	t.Parallel()

	pub := log.NewPublisher()
	tail := source.NewLogTail(pub)

	logger := slog.New(log.NewHandler(pub, log.LevelInfo, log.FormatJSON))
	logger.Error("save failed", slog.Any("err", fmt.Errorf("disk full")))

	tail.Drain()
	require.Equal(t, 1, tail.NumberRows())
	assert.True(t, tail.IsHighlightRow(0))
	assert.Equal(t, "err=disk full", tail.CellText(0, 3))
}

func TestLogTailEviction(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		expand   bool
		wantPath int
	}{
		"open entry is closed": {
			expand:   true,
			wantPath: 1,
		},
		"collapsed view is kept": {
			wantPath: 1,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			pub := log.NewPublisher()
			v := viewer.New()

			tail := source.NewLogTail(pub, source.WithLines(1), source.WithRemover(v.Remove))
			defer tail.Close()

			v.AddRootTable(tail)
			v.SetVisible(true)

			logger := slog.New(log.NewHandler(pub, log.LevelInfo, log.FormatJSON))
			logger.Info("first", slog.String("path", "logs/profile.txt"))
			tail.Drain()

			evicted := tail.Child(0)
			require.NotNil(t, evicted)

			if tc.expand {
				assert.Equal(t, viewer.Handled, v.Input(viewer.KeyEvent("enter")))
				require.Len(t, v.Path(), 2)
				assert.Equal(t, evicted, v.Current())
			}

			logger.Info("second", slog.Int("frame", 2))
			tail.Drain()

			assert.Len(t, v.Path(), tc.wantPath)
			assert.NotContains(t, v.Path(), evicted)
			assert.Equal(t, table.Table(tail), v.Current())
			assert.Equal(t, "second", tail.CellText(0, 2))
		})
	}

	t.Run("removed tables are reported", func(t *testing.T) {
		t.Parallel()

		var removed []string

		pub := log.NewPublisher()
		tail := source.NewLogTail(pub, source.WithLines(2), source.WithRemover(func(tbl table.Table) {
			removed = append(removed, tbl.Title())
		}))
		defer tail.Close()

		logger := slog.New(log.NewHandler(pub, log.LevelInfo, log.FormatJSON))
		logger.Info("a", slog.Int("n", 1))
		logger.Info("plain")
		logger.Info("b", slog.Int("n", 2))
		logger.Info("c", slog.Int("n", 3))
		tail.Drain()

		assert.Equal(t, []string{"a"}, removed)
	})
}
