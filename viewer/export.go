package viewer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"go.jacobcolvin.com/profview/table"
	"go.jacobcolvin.com/profview/version"
)

// ErrWriteDump indicates the table dump could not be written.
var ErrWriteDump = errors.New("write profile dump")

const columnGap = "  "

// SaveToFile appends a dump of every table (see [Viewer.Dump]) to the dump
// file, creating its directory if needed.
//
// Failures are logged as warnings and returned; the viewer keeps working.
func (v *Viewer) SaveToFile() error {
	err := v.saveToFile()
	if err != nil {
		v.logger.Warn("saving profile tables",
			slog.String("path", v.dumpPath),
			slog.Any("error", err),
		)

		return err
	}

	v.logger.Info("saved profile tables", slog.String("path", v.dumpPath))

	return nil
}

func (v *Viewer) saveToFile() error {
	err := os.MkdirAll(filepath.Dir(v.dumpPath), 0o750)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteDump, err)
	}

	//nolint:gosec // Dump path from CLI flag is expected.
	f, err := os.OpenFile(v.dumpPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteDump, err)
	}

	err = v.Dump(f)
	if err != nil {
		closeErr := f.Close()

		return errors.Join(err, closeErr)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteDump, err)
	}

	return nil
}

// Dump writes every root table and everything reachable from it through
// child links as column-aligned text.
//
// Tables are written depth first, each parent before its children. Each
// distinct table is written once, so child links that form a cycle are
// harmless.
func (v *Viewer) Dump(w io.Writer) error {
	var buf bytes.Buffer

	buf.WriteString(strings.Repeat("=", 64))
	buf.WriteByte('\n')
	fmt.Fprintf(&buf, "profview %s %s\n", version.Short(), v.now().Format(time.RFC3339))

	visited := map[table.Table]struct{}{}
	for _, root := range v.Roots() {
		v.dumpTree(&buf, root, visited)
	}

	_, err := w.Write(buf.Bytes())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteDump, err)
	}

	return nil
}

func (v *Viewer) dumpTree(buf *bytes.Buffer, t table.Table, visited map[table.Table]struct{}) {
	if _, ok := visited[t]; ok {
		return
	}

	visited[t] = struct{}{}

	v.dumpTable(buf, t)

	n := t.NumberRows()
	for row := range n {
		child := t.Child(row)
		if child != nil {
			v.dumpTree(buf, child, visited)
		}
	}
}

func (v *Viewer) dumpTable(buf *bytes.Buffer, t table.Table) {
	cols := t.Columns()
	n := t.NumberRows()

	cells := make([][]string, n)
	for row := range n {
		cells[row] = make([]string, len(cols))
		for col := range cols {
			cells[row][col] = t.CellText(row, col)
		}
	}

	widths := make([]int, len(cols))
	for col, c := range cols {
		widths[col] = max(v.layout.Chars(c.Width), ansi.StringWidth(c.Title))
		for row := range n {
			widths[col] = max(widths[col], ansi.StringWidth(cells[row][col]))
		}
	}

	fmt.Fprintf(buf, "\n%s (%s)\n", t.Title(), t.Name())

	titles := make([]string, len(cols))
	for col, c := range cols {
		titles[col] = c.Title
	}

	writeLine(buf, titles, widths)

	rule := 0
	for _, w := range widths {
		rule += w
	}

	rule += len(columnGap) * max(len(widths)-1, 0)
	buf.WriteString(strings.Repeat("-", rule))
	buf.WriteByte('\n')

	for _, row := range cells {
		writeLine(buf, row, widths)
	}
}

// writeLine pads each cell to its column width and trims the trailing space.
func writeLine(buf *bytes.Buffer, cells []string, widths []int) {
	var sb strings.Builder

	for i, cell := range cells {
		if i > 0 {
			sb.WriteString(columnGap)
		}

		sb.WriteString(cell)
		sb.WriteString(strings.Repeat(" ", max(widths[i]-ansi.StringWidth(cell), 0)))
	}

	buf.WriteString(strings.TrimRight(sb.String(), " "))
	buf.WriteByte('\n')
}
