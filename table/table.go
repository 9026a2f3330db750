package table

// Column describes one column of a [Table].
type Column struct {
	// Title is shown in the column header.
	Title string
	// Width is the recommended display width, in pixels.
	Width int
}

// NewColumn returns a [Column] with the given title and width in pixels.
func NewColumn(title string, width int) Column {
	return Column{Title: title, Width: width}
}

// Table is the profile table data model.
//
// Implementations are compared by identity, so their dynamic type must be
// comparable. Pointer receivers satisfy this.
type Table interface {
	// Name returns a short, stable identifier for the table.
	Name() string
	// Title returns a longer heading. It may be computed on every call.
	Title() string
	// NumberRows returns the current number of rows.
	NumberRows() int
	// Columns returns the column schema. Its length bounds the column index
	// passed to CellText.
	Columns() []Column
	// CellText returns the text of a cell. Callers guarantee
	// 0 <= row < NumberRows() and 0 <= col < len(Columns()).
	CellText(row, col int) string
	// Child returns the drill-down table for row, or nil for a leaf row.
	Child(row int) Table
}

// RowHighlighter is implemented by tables that want some rows drawn in a
// highlight style.
type RowHighlighter interface {
	IsHighlightRow(row int) bool
}

// IsHighlightRow reports whether t asks for row to be highlighted. Tables
// that do not implement [RowHighlighter] never highlight.
func IsHighlightRow(t Table, row int) bool {
	h, ok := t.(RowHighlighter)
	if !ok {
		return false
	}

	return h.IsHighlightRow(row)
}

// HasChild reports whether row of t links to a child table.
func HasChild(t Table, row int) bool {
	return t.Child(row) != nil
}
