package source

import (
	"fmt"
	"strconv"
	"time"

	"go.jacobcolvin.com/profview/table"
)

const defaultHistory = 120

// section is the running statistics of one named timing.
type section struct {
	history *table.Static
	name    string
	pending time.Duration
	last    time.Duration
	total   time.Duration
	peak    time.Duration
	calls   int
	pcalls  int
	frames  int
}

// Frames aggregates section timings across frames.
//
// The host calls [Frames.Record] (or the closure from [Frames.Measure]) any
// number of times per frame, then [Frames.EndFrame]. Each row shows one
// section: the time spent in the last frame, the average and maximum over
// all frames it appeared in, and the number of calls in the last frame. Rows
// over the frame budget are highlighted. Each row's child lists the section's
// recent per-frame times, newest first.
//
// Create instances with [NewFrames].
type Frames struct {
	index    map[string]*section
	now      func() time.Time
	name     string
	title    string
	sections []*section
	budget   time.Duration
	history  int
	frame    int
}

// FramesOption configures a [Frames].
type FramesOption func(*Frames)

// WithBudget highlights sections whose last frame time exceeds d. Zero
// disables highlighting.
func WithBudget(d time.Duration) FramesOption {
	return func(f *Frames) {
		f.budget = d
	}
}

// WithHistory sets how many frames each section's child table keeps.
// Values less than 1 are clamped to 1.
func WithHistory(n int) FramesOption {
	return func(f *Frames) {
		f.history = max(n, 1)
	}
}

// WithFramesClock sets the clock used by [Frames.Measure].
func WithFramesClock(now func() time.Time) FramesOption {
	return func(f *Frames) {
		f.now = now
	}
}

// NewFrames creates an empty [Frames] table.
func NewFrames(name, title string, opts ...FramesOption) *Frames {
	f := &Frames{
		name:    name,
		title:   title,
		index:   map[string]*section{},
		history: defaultHistory,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Record adds d to the named section for the current frame.
func (f *Frames) Record(name string, d time.Duration) {
	s, ok := f.index[name]
	if !ok {
		s = &section{
			name: name,
			history: table.NewStatic(f.name+"/"+name, name+" history",
				table.NewColumn("Frame", 80),
				table.NewColumn("ms", 80),
			),
		}
		f.index[name] = s
		f.sections = append(f.sections, s)
	}

	s.pending += d
	s.pcalls++
}

// Measure starts timing the named section. Call the returned function when
// the section ends.
func (f *Frames) Measure(name string) func() {
	start := f.now()

	return func() {
		f.Record(name, f.now().Sub(start))
	}
}

// EndFrame folds the times recorded since the previous call into the
// statistics. Sections not recorded during the frame keep their values.
func (f *Frames) EndFrame() {
	f.frame++

	for _, s := range f.sections {
		if s.pcalls == 0 {
			continue
		}

		s.last = s.pending
		s.total += s.pending
		s.peak = max(s.peak, s.pending)
		s.calls = s.pcalls
		s.frames++

		s.pending = 0
		s.pcalls = 0

		f.pushHistory(s)
	}
}

func (f *Frames) pushHistory(s *section) {
	rows := make([][]string, 0, f.history)
	rows = append(rows, []string{strconv.Itoa(f.frame), millis(s.last)})

	for row := range min(s.history.NumberRows(), f.history-1) {
		rows = append(rows, []string{s.history.CellText(row, 0), s.history.CellText(row, 1)})
	}

	s.history.SetRows(rows)
}

// Frame returns the number of completed frames.
func (f *Frames) Frame() int {
	return f.frame
}

// Name implements [table.Table].
func (f *Frames) Name() string { return f.name }

// Title implements [table.Table].
func (f *Frames) Title() string {
	return fmt.Sprintf("%s (frame %d)", f.title, f.frame)
}

// NumberRows implements [table.Table].
func (f *Frames) NumberRows() int { return len(f.sections) }

// Columns implements [table.Table].
func (f *Frames) Columns() []table.Column {
	return []table.Column{
		table.NewColumn("Section", 160),
		table.NewColumn("Last ms", 72),
		table.NewColumn("Avg ms", 72),
		table.NewColumn("Max ms", 72),
		table.NewColumn("Calls", 56),
	}
}

// CellText implements [table.Table].
func (f *Frames) CellText(row, col int) string {
	if row < 0 || row >= len(f.sections) {
		return ""
	}

	s := f.sections[row]

	switch col {
	case 0:
		return s.name
	case 1:
		return millis(s.last)
	case 2:
		if s.frames == 0 {
			return millis(0)
		}

		return millis(s.total / time.Duration(s.frames))
	case 3:
		return millis(s.peak)
	case 4:
		return strconv.Itoa(s.calls)
	}

	return ""
}

// Child implements [table.Table].
func (f *Frames) Child(row int) table.Table {
	if row < 0 || row >= len(f.sections) {
		return nil
	}

	return f.sections[row].history
}

// IsHighlightRow implements [table.RowHighlighter].
func (f *Frames) IsHighlightRow(row int) bool {
	if f.budget <= 0 || row < 0 || row >= len(f.sections) {
		return false
	}

	return f.sections[row].last > f.budget
}

func millis(d time.Duration) string {
	return strconv.FormatFloat(float64(d)/float64(time.Millisecond), 'f', 2, 64)
}
