package viewer

import "go.jacobcolvin.com/profview/table"

// wheelStep is the number of rows one wheel step moves the selection.
const wheelStep = 3

// Input handles events aimed at the overlay and reports whether it consumed
// them.
//
// The toggle and save keys are always handled. Everything else passes through
// while the overlay is hidden or has no table to show.
func (v *Viewer) Input(ev Event) Reaction {
	switch ev.Kind {
	case KeyDown:
		return v.keyDown(ev.Key)

	case MouseWheel:
		if !v.visible || len(v.path) == 0 || ev.Delta == 0 {
			return Pass
		}

		v.move(-ev.Delta * wheelStep)

		return Handled
	}

	return Pass
}

func (v *Viewer) keyDown(key string) Reaction {
	action, bound := v.keys[key]

	switch action {
	case ActionToggle:
		v.SetVisible(!v.visible)
		return Handled

	case ActionSave:
		//nolint:errcheck // SaveToFile logs its own failures.
		v.SaveToFile()
		return Handled
	}

	if !v.visible || len(v.path) == 0 {
		return Pass
	}

	if !bound {
		return v.digit(key)
	}

	switch action {
	case ActionUp:
		v.move(-1)
	case ActionDown:
		v.move(1)
	case ActionPageUp:
		v.move(-v.layout.MaxRows)
	case ActionPageDown:
		v.move(v.layout.MaxRows)
	case ActionExpand:
		v.expand()
	case ActionCollapse:
		v.collapse()
	case ActionNextRoot:
		v.cycleRoot(1)
	case ActionPrevRoot:
		v.cycleRoot(-1)
	default:
		return Pass
	}

	return Handled
}

// digit handles the numeric shortcuts: 1-9 open the n-th row that has a child
// table, 0 goes back.
func (v *Viewer) digit(key string) Reaction {
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return Pass
	}

	k := int(key[0] - '0')
	if k == 0 {
		v.collapse()
		return Handled
	}

	top := &v.path[len(v.path)-1]

	n := top.table.NumberRows()
	for row := range n {
		if !table.HasChild(top.table, row) {
			continue
		}

		k--
		if k == 0 {
			top.row = row
			v.keepVisible(top, n)
			v.expand()

			break
		}
	}

	return Handled
}

// move shifts the selection of the current table by delta rows.
func (v *Viewer) move(delta int) {
	top := &v.path[len(v.path)-1]
	n := top.table.NumberRows()

	top.row = clampRow(clampRow(top.row, n)+delta, n)
	v.keepVisible(top, n)
}

// keepVisible scrolls f so its selected row is inside the row window.
func (v *Viewer) keepVisible(f *frame, n int) {
	page := v.layout.MaxRows

	if f.row < f.scroll {
		f.scroll = f.row
	}

	if f.row >= f.scroll+page {
		f.scroll = f.row - page + 1
	}

	f.scroll = max(min(f.scroll, n-page), 0)
}

// expand pushes the child table of the selected row. Rows without a child are
// left alone.
func (v *Viewer) expand() {
	top := v.path[len(v.path)-1]

	n := top.table.NumberRows()
	if n == 0 {
		return
	}

	child := top.table.Child(clampRow(top.row, n))
	if child == nil {
		return
	}

	v.path = append(v.path, frame{table: child})
}

// collapse pops the current table. At a root table it does nothing.
func (v *Viewer) collapse() {
	if len(v.path) <= 1 {
		return
	}

	v.path[len(v.path)-1] = frame{}
	v.path = v.path[:len(v.path)-1]
}

// cycleRoot replaces the whole path with the root dir steps away from the
// viewed one, wrapping around.
func (v *Viewer) cycleRoot(dir int) {
	n := v.roots.Len()
	if n == 0 {
		return
	}

	roots := v.Roots()

	cur := -1

	for i, t := range roots {
		if t == v.path[0].table {
			cur = i
			break
		}
	}

	next := 0
	if cur >= 0 {
		next = ((cur+dir)%n + n) % n
	}

	clear(v.path)
	v.path = append(v.path[:0], frame{table: roots[next]})
}
