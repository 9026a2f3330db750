package viewer

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"go.jacobcolvin.com/profview/table"
)

// RenderProfile draws the current table onto c if the overlay is visible.
//
// The heading, column headers, and the rows inside the scroll window are
// drawn over a background panel. Rows with a child table are prefixed with
// the digit that opens them. RenderProfile only reads tables.
func (v *Viewer) RenderProfile(c Canvas) {
	if !v.visible || len(v.path) == 0 {
		return
	}

	l := v.layout
	top := v.path[len(v.path)-1]
	t := top.table
	cols := t.Columns()
	n := t.NumberRows()

	selected := clampRow(top.row, n)
	first := max(min(top.scroll, n-l.MaxRows), 0)
	last := min(n, first+l.MaxRows)

	heading := v.heading()

	width := 0
	for _, col := range cols {
		width += col.Width
	}

	width = max(width, ansi.StringWidth(heading)*l.CharWidth)

	lines := 2 + last - first
	if last-first < n {
		lines++
	}

	c.FillRect(image.Rect(
		l.X-l.CharWidth, l.Y,
		l.X+width+l.CharWidth, l.Y+lines*l.LineHeight,
	), StyleBackground)

	y := l.Y
	c.DrawText(l.X, y, heading, StyleTitle)

	y += l.LineHeight
	x := l.X

	for _, col := range cols {
		c.DrawText(x, y, v.fit(col.Title, col.Width), StyleHeader)
		x += col.Width
	}

	hints := childHints(t, n)

	for row := first; row < last; row++ {
		y += l.LineHeight

		style := StyleRow
		if table.IsHighlightRow(t, row) {
			style = StyleHighlight
		}

		if row == selected {
			style = StyleSelected
			c.FillRect(image.Rect(l.X, y, l.X+width, y+l.LineHeight), StyleSelected)
		}

		x = l.X

		for col, colDesc := range cols {
			text := t.CellText(row, col)
			if col == 0 && hints[row] != "" {
				text = hints[row] + " " + text
			}

			c.DrawText(x, y, v.fit(text, colDesc.Width), style)
			x += colDesc.Width
		}
	}

	if last-first < n {
		y += l.LineHeight
		c.DrawText(l.X, y, fmt.Sprintf("rows %d-%d of %d", first+1, last, n), StyleHint)
	}
}

// heading is the current title, prefixed by the names of the tables above it.
func (v *Viewer) heading() string {
	parts := make([]string, 0, len(v.path))
	for _, f := range v.path[:len(v.path)-1] {
		parts = append(parts, f.table.Name())
	}

	parts = append(parts, v.path[len(v.path)-1].table.Title())

	return strings.Join(parts, " / ")
}

// fit truncates text to the characters that fit in px, keeping one character
// of spacing to the next column.
func (v *Viewer) fit(text string, px int) string {
	chars := max(v.layout.Chars(px)-1, 1)
	if ansi.StringWidth(text) <= chars {
		return text
	}

	return ansi.Truncate(text, chars, "~")
}

// childHints labels rows that have a child with the key that opens them.
func childHints(t table.Table, n int) map[int]string {
	hints := map[int]string{}
	k := 0

	for row := range n {
		if !table.HasChild(t, row) {
			continue
		}

		k++
		if k <= 9 {
			hints[row] = fmt.Sprintf("[%d]", k)
		} else {
			hints[row] = "[+]"
		}
	}

	return hints
}
