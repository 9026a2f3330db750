package viewer

import "image"

// Style tells a [Canvas] what a piece of the overlay is, so it can pick
// colours and fonts.
type Style int

const (
	// StyleBackground is the translucent panel behind the table.
	StyleBackground Style = iota
	// StyleTitle is the heading line.
	StyleTitle
	// StyleHeader is the column header line.
	StyleHeader
	// StyleRow is a normal row.
	StyleRow
	// StyleHighlight is a row its table asked to highlight.
	StyleHighlight
	// StyleSelected is the selected row, including its background band.
	StyleSelected
	// StyleHint is auxiliary text such as the scroll position.
	StyleHint
)

var styleNames = [...]string{
	StyleBackground: "background",
	StyleTitle:      "title",
	StyleHeader:     "header",
	StyleRow:        "row",
	StyleHighlight:  "highlight",
	StyleSelected:   "selected",
	StyleHint:       "hint",
}

func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return "unknown"
	}

	return styleNames[s]
}

// Canvas is the drawing surface supplied by the host. Coordinates are in
// pixels; y is the top of a text line.
type Canvas interface {
	FillRect(r image.Rectangle, s Style)
	DrawText(x, y int, text string, s Style)
}

// Layout is the overlay geometry, in pixels.
type Layout struct {
	// X and Y are the top-left corner of the first text line.
	X, Y int
	// LineHeight is the distance between text lines.
	LineHeight int
	// CharWidth is the advance of one character. It converts column widths to
	// character counts for truncation and for the text dump.
	CharWidth int
	// MaxRows is the number of table rows shown at once.
	MaxRows int
}

// DefaultLayout returns a layout that maps one character to an 8x16 cell.
func DefaultLayout() Layout {
	return Layout{
		X:          16,
		Y:          16,
		LineHeight: 16,
		CharWidth:  8,
		MaxRows:    30,
	}
}

// normalize replaces unusable values with defaults.
func (l Layout) normalize() Layout {
	def := DefaultLayout()

	if l.LineHeight <= 0 {
		l.LineHeight = def.LineHeight
	}

	if l.CharWidth <= 0 {
		l.CharWidth = def.CharWidth
	}

	if l.MaxRows <= 0 {
		l.MaxRows = def.MaxRows
	}

	return l
}

// Chars converts a width in pixels to whole characters, at least one.
func (l Layout) Chars(px int) int {
	return max(px/l.normalize().CharWidth, 1)
}
