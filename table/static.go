package table

import "slices"

// Static is a [Table] backed by in-memory rows.
//
// The owner may replace rows between frames; the viewer only reads. Static is
// not safe for concurrent use.
//
// Create instances with [NewStatic].
type Static struct {
	children  map[int]Table
	highlight map[int]bool
	name      string
	title     string
	columns   []Column
	rows      [][]string
}

// NewStatic creates an empty [Static] table with the given schema.
func NewStatic(name, title string, columns ...Column) *Static {
	return &Static{
		name:      name,
		title:     title,
		columns:   columns,
		children:  map[int]Table{},
		highlight: map[int]bool{},
	}
}

// Name implements [Table].
func (s *Static) Name() string { return s.name }

// Title implements [Table].
func (s *Static) Title() string { return s.title }

// SetTitle replaces the title.
func (s *Static) SetTitle(title string) { s.title = title }

// NumberRows implements [Table].
func (s *Static) NumberRows() int { return len(s.rows) }

// Columns implements [Table].
func (s *Static) Columns() []Column { return s.columns }

// CellText implements [Table]. Out-of-range cells are empty.
func (s *Static) CellText(row, col int) string {
	if row < 0 || row >= len(s.rows) {
		return ""
	}

	cells := s.rows[row]
	if col < 0 || col >= len(cells) {
		return ""
	}

	return cells[col]
}

// Child implements [Table].
func (s *Static) Child(row int) Table {
	c, ok := s.children[row]
	if !ok {
		return nil
	}

	return c
}

// IsHighlightRow implements [RowHighlighter].
func (s *Static) IsHighlightRow(row int) bool {
	return s.highlight[row]
}

// AddRow appends a row and returns its index. Missing trailing cells render
// as empty text.
func (s *Static) AddRow(cells ...string) int {
	s.rows = append(s.rows, slices.Clone(cells))

	return len(s.rows) - 1
}

// SetRows replaces all rows. Children and highlights keyed by row index are
// kept, so callers that reorder rows should reset them too.
func (s *Static) SetRows(rows [][]string) {
	s.rows = s.rows[:0]
	for _, r := range rows {
		s.rows = append(s.rows, slices.Clone(r))
	}
}

// SetChild links row to child. A nil child, including a nil *Static, turns
// the row back into a leaf.
func (s *Static) SetChild(row int, child Table) {
	if c, ok := child.(*Static); child == nil || ok && c == nil {
		delete(s.children, row)
		return
	}

	s.children[row] = child
}

// SetHighlight sets the highlight flag of row.
func (s *Static) SetHighlight(row int, on bool) {
	if !on {
		delete(s.highlight, row)
		return
	}

	s.highlight[row] = true
}

// Reset drops all rows, children and highlights.
func (s *Static) Reset() {
	s.rows = nil

	clear(s.children)
	clear(s.highlight)
}
