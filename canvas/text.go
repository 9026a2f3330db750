package canvas

import (
	"image"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"go.jacobcolvin.com/profview/viewer"
)

// wideTail marks the cell covered by the right half of a double-width rune.
const wideTail rune = -1

// cell is one terminal cell. A zero ch shows the base layer.
type cell struct {
	ch     rune
	fill   viewer.Style
	ink    viewer.Style
	filled bool
	inked  bool
}

// Text is a [viewer.Canvas] backed by a grid of terminal cells.
//
// Pixel coordinates are divided by the cell size, so the default 8x16 cell
// matches [viewer.DefaultLayout]. Drawing outside the grid is clipped.
// Double-width runes take two cells and are dropped when only one fits;
// zero-width runes are dropped.
//
// Create instances with [NewText].
type Text struct {
	palette Palette
	base    [][]rune
	cells   [][]cell
	cols    int
	rows    int
	cellW   int
	cellH   int
}

// TextOption configures a [Text].
type TextOption func(*Text)

// WithCellSize sets the pixel size of one cell. Values less than 1 are
// ignored.
func WithCellSize(w, h int) TextOption {
	return func(t *Text) {
		if w > 0 {
			t.cellW = w
		}

		if h > 0 {
			t.cellH = h
		}
	}
}

// WithTextPalette sets the colors used by [Text.String].
func WithTextPalette(p Palette) TextOption {
	return func(t *Text) {
		t.palette = p
	}
}

// NewText creates a blank [Text] of cols x rows cells.
func NewText(cols, rows int, opts ...TextOption) *Text {
	l := viewer.DefaultLayout()

	t := &Text{
		palette: DefaultPalette(),
		cellW:   l.CharWidth,
		cellH:   l.LineHeight,
	}
	for _, opt := range opts {
		opt(t)
	}

	t.Resize(cols, rows)

	return t
}

// Size returns the grid size in cells.
func (t *Text) Size() (int, int) {
	return t.cols, t.rows
}

// Resize changes the grid size and clears it. The base layer is kept.
func (t *Text) Resize(cols, rows int) {
	t.cols = max(cols, 0)
	t.rows = max(rows, 0)
	t.cells = make([][]cell, t.rows)

	for i := range t.cells {
		t.cells[i] = make([]cell, t.cols)
	}
}

// Clear removes everything drawn since the last clear.
func (t *Text) Clear() {
	for _, row := range t.cells {
		clear(row)
	}
}

// SetBase sets the text shown in cells the overlay does not touch. Lines
// are plain text; escape sequences are stripped.
func (t *Text) SetBase(lines []string) {
	t.base = t.base[:0]
	for _, line := range lines {
		t.base = append(t.base, cellRunes(ansi.Strip(line)))
	}
}

// FillRect implements [viewer.Canvas]. Cells partly covered by r are
// filled.
func (t *Text) FillRect(r image.Rectangle, s viewer.Style) {
	x0, y0 := r.Min.X/t.cellW, r.Min.Y/t.cellH
	x1, y1 := ceilDiv(r.Max.X, t.cellW), ceilDiv(r.Max.Y, t.cellH)

	for y := max(y0, 0); y < min(y1, t.rows); y++ {
		for x := max(x0, 0); x < min(x1, t.cols); x++ {
			c := &t.cells[y][x]
			c.fill = s
			c.filled = true
		}
	}
}

// DrawText implements [viewer.Canvas]. Runes take as many cells as their
// display width.
func (t *Text) DrawText(x, y int, text string, s viewer.Style) {
	row := y / t.cellH
	if y < 0 || row >= t.rows {
		return
	}

	col := x / t.cellW
	if x < 0 {
		col = ceilDiv(x, t.cellW)
	}

	runes := cellRunes(ansi.Strip(text))
	for i, r := range runes {
		if col >= t.cols {
			return
		}

		wide := r != wideTail && i+1 < len(runes) && runes[i+1] == wideTail

		switch {
		case col < 0:
		case r == wideTail && col == 0:
		case wide && col+1 >= t.cols:
			return
		default:
			c := &t.cells[row][col]
			c.ch = r
			c.ink = s
			c.inked = true
		}

		col++
	}
}

// cellRunes lays s out one entry per cell, following each double-width rune
// with [wideTail].
func cellRunes(s string) []rune {
	out := make([]rune, 0, len(s))

	for _, r := range s {
		switch ansi.StringWidth(string(r)) {
		case 0:
		case 1:
			out = append(out, r)
		default:
			out = append(out, r, wideTail)
		}
	}

	return out
}

// Plain returns the grid as unstyled text, one line per row, with trailing
// spaces removed.
func (t *Text) Plain() string {
	lines := make([]string, t.rows)

	for y := range t.rows {
		var sb strings.Builder
		for _, r := range t.line(y) {
			if r != wideTail {
				sb.WriteRune(r)
			}
		}

		lines[y] = strings.TrimRight(sb.String(), " ")
	}

	return strings.Join(lines, "\n")
}

// String renders the grid with the palette's colors. Runs of cells with the
// same style are rendered together.
func (t *Text) String() string {
	lines := make([]string, t.rows)

	for y := range t.rows {
		var (
			sb  strings.Builder
			run strings.Builder
			cur cell
		)

		flush := func() {
			if run.Len() == 0 {
				return
			}

			sb.WriteString(t.render(cur, run.String()))
			run.Reset()
		}

		for x, r := range t.line(y) {
			c := t.cells[y][x]
			if x > 0 && !sameStyle(c, cur) {
				flush()
			}

			cur = c
			if r != wideTail {
				run.WriteRune(r)
			}
		}

		flush()

		lines[y] = sb.String()
	}

	return strings.Join(lines, "\n")
}

// line returns the visible rune of every cell in row y. A double-width rune
// whose halves come apart, because the other layer covers one of them, is
// replaced by a space.
func (t *Text) line(y int) []rune {
	out := make([]rune, t.cols)
	for x := range out {
		out[x] = t.runeAt(x, y)
	}

	for x, r := range out {
		switch {
		case r == wideTail:
			if x == 0 || !isWide(out[x-1]) {
				out[x] = ' '
			}
		case isWide(r):
			if x+1 >= len(out) || out[x+1] != wideTail {
				out[x] = ' '
			}
		}
	}

	return out
}

func isWide(r rune) bool {
	return r != wideTail && ansi.StringWidth(string(r)) > 1
}

func (t *Text) runeAt(x, y int) rune {
	if c := t.cells[y][x]; c.ch != 0 {
		return c.ch
	}

	if y < len(t.base) && x < len(t.base[y]) {
		return t.base[y][x]
	}

	return ' '
}

func (t *Text) render(c cell, s string) string {
	if !c.filled && !c.inked {
		return s
	}

	style := lipgloss.NewStyle()

	if c.filled {
		if bg := t.palette.Ink(c.fill).Background; bg != nil {
			style = style.Background(bg)
		}
	}

	if c.inked {
		ink := t.palette.Ink(c.ink)
		if ink.Foreground != nil {
			style = style.Foreground(ink.Foreground)
		}

		if ink.Background != nil {
			style = style.Background(ink.Background)
		}

		style = style.Bold(ink.Bold)
	}

	return style.Render(s)
}

func sameStyle(a, b cell) bool {
	return a.filled == b.filled && a.inked == b.inked &&
		(!a.filled || a.fill == b.fill) &&
		(!a.inked || a.ink == b.ink)
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return a / b
	}

	return (a + b - 1) / b
}
