package viewer_test

import (
	"image"

	"go.jacobcolvin.com/profview/table"
	"go.jacobcolvin.com/profview/viewer"
)

type drawnText struct {
	Text  string
	X, Y  int
	Style viewer.Style
}

type filledRect struct {
	Rect  image.Rectangle
	Style viewer.Style
}

// recorder is a [viewer.Canvas] that remembers draw calls.
type recorder struct {
	texts []drawnText
	rects []filledRect
}

func (r *recorder) FillRect(rect image.Rectangle, s viewer.Style) {
	r.rects = append(r.rects, filledRect{Rect: rect, Style: s})
}

func (r *recorder) DrawText(x, y int, text string, s viewer.Style) {
	r.texts = append(r.texts, drawnText{X: x, Y: y, Text: text, Style: s})
}

// textsAt returns the texts drawn on line y, in draw order.
func (r *recorder) textsAt(y int) []string {
	var out []string

	for _, d := range r.texts {
		if d.Y == y {
			out = append(out, d.Text)
		}
	}

	return out
}

// scenario builds a table "timings" with columns Name and Time and three
// rows, where row 1 links to a one-row child table "detail".
func scenario() (*table.Static, *table.Static) {
	parent := table.NewStatic("timings", "Frame timings",
		table.NewColumn("Name", 160),
		table.NewColumn("Time", 80),
	)
	parent.AddRow("alpha", "1.0")
	parent.AddRow("beta", "2.0")
	parent.AddRow("gamma", "3.0")

	child := table.NewStatic("detail", "Beta details",
		table.NewColumn("Name", 160),
		table.NewColumn("Time", 80),
	)
	child.AddRow("inner", "0.5")

	parent.SetChild(1, child)

	return parent, child
}

func press(v *viewer.Viewer, keys ...string) {
	for _, k := range keys {
		v.Input(viewer.KeyEvent(k))
	}
}

// containsTable reports whether ts holds t itself, compared by identity.
func containsTable(ts []table.Table, t table.Table) bool {
	for _, x := range ts {
		if x == t {
			return true
		}
	}

	return false
}
