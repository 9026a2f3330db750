package source

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/pprof/profile"

	"go.jacobcolvin.com/profview/table"
)

// ErrReadProfile indicates a pprof profile that could not be read or parsed.
var ErrReadProfile = errors.New("read profile")

const (
	defaultTop       = 30
	defaultHotShare  = 10.0
	functionColWidth = 320
)

// funcStat is the aggregated cost of one function.
type funcStat struct {
	name string
	flat int64
	cum  int64
}

// edge is the cost of calls from one function into another.
type edge struct {
	callee string
	value  int64
}

// Pprof shows a pprof profile as a table of its most expensive functions.
//
// Each row's child lists the functions it calls, weighted by the samples that
// pass through the call, and each of those rows opens the callee's own
// callees. Callee tables are created once per function, so recursive code
// yields a cyclic table graph. Functions whose flat share reaches the hot
// threshold are highlighted.
//
// Create instances with [LoadPprof] or [ParsePprof].
type Pprof struct {
	callees    map[string]*Callees
	edges      map[string][]edge
	name       string
	title      string
	unit       string
	sampleType string
	funcs      []funcStat
	total      int64
	top        int
	hotShare   float64
}

// PprofOption configures a [Pprof].
type PprofOption func(*pprofOptions)

type pprofOptions struct {
	sampleType string
	top        int
	hotShare   float64
}

// WithTop limits the table to the n most expensive functions. Values less
// than 1 are clamped to 1. The default is 30.
func WithTop(n int) PprofOption {
	return func(o *pprofOptions) {
		o.top = max(n, 1)
	}
}

// WithSampleType selects the sample value to rank by, such as "cpu" or
// "alloc_space". By default the profile's last sample type is used, as in
// "go tool pprof".
func WithSampleType(name string) PprofOption {
	return func(o *pprofOptions) {
		o.sampleType = name
	}
}

// WithHotShare sets the flat percentage at which rows are highlighted. Zero
// disables highlighting. The default is 10.
func WithHotShare(percent float64) PprofOption {
	return func(o *pprofOptions) {
		o.hotShare = percent
	}
}

// LoadPprof reads a pprof profile file. The table is named after the file.
func LoadPprof(path string, opts ...PprofOption) (*Pprof, error) {
	f, err := os.Open(path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadProfile, err)
	}

	defer func() {
		//nolint:errcheck // Read-only file.
		f.Close()
	}()

	p, err := ParsePprof(f, "pprof:"+filepath.Base(path), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return p, nil
}

// ParsePprof parses a pprof profile, compressed or not, from r.
func ParsePprof(r io.Reader, name string, opts ...PprofOption) (*Pprof, error) {
	o := pprofOptions{top: defaultTop, hotShare: defaultHotShare}
	for _, opt := range opts {
		opt(&o)
	}

	prof, err := profile.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadProfile, err)
	}

	idx, err := sampleIndex(prof, o.sampleType)
	if err != nil {
		return nil, err
	}

	p := &Pprof{
		name:       name,
		callees:    map[string]*Callees{},
		unit:       prof.SampleType[idx].Unit,
		sampleType: prof.SampleType[idx].Type,
		top:        o.top,
		hotShare:   o.hotShare,
	}
	p.aggregate(prof, idx)
	p.title = fmt.Sprintf("%s: %s, total %s", name, p.sampleType, p.format(p.total))

	return p, nil
}

func sampleIndex(prof *profile.Profile, name string) (int, error) {
	if len(prof.SampleType) == 0 {
		return 0, fmt.Errorf("%w: profile has no sample types", ErrReadProfile)
	}

	if name == "" {
		return len(prof.SampleType) - 1, nil
	}

	for i, st := range prof.SampleType {
		if st.Type == name {
			return i, nil
		}
	}

	return 0, fmt.Errorf("%w: no sample type %q", ErrReadProfile, name)
}

// aggregate computes flat and cumulative values per function and the call
// edges between them. Stacks are leaf first.
func (p *Pprof) aggregate(prof *profile.Profile, idx int) {
	stats := map[string]*funcStat{}
	edgeSums := map[string]map[string]int64{}

	for _, s := range prof.Sample {
		if idx >= len(s.Value) || s.Value[idx] == 0 {
			continue
		}

		v := s.Value[idx]
		p.total += v

		var frames []string

		for _, loc := range s.Location {
			for _, line := range loc.Line {
				if line.Function != nil {
					frames = append(frames, line.Function.Name)
				}
			}
		}

		if len(frames) == 0 {
			continue
		}

		seen := map[string]bool{}
		seenEdge := map[[2]string]bool{}

		for i, fn := range frames {
			st, ok := stats[fn]
			if !ok {
				st = &funcStat{name: fn}
				stats[fn] = st
			}

			if i == 0 {
				st.flat += v
			}

			if !seen[fn] {
				seen[fn] = true
				st.cum += v
			}

			if i+1 < len(frames) {
				caller := frames[i+1]

				key := [2]string{caller, fn}
				if seenEdge[key] {
					continue
				}

				seenEdge[key] = true

				if edgeSums[caller] == nil {
					edgeSums[caller] = map[string]int64{}
				}

				edgeSums[caller][fn] += v
			}
		}
	}

	for _, st := range stats {
		p.funcs = append(p.funcs, *st)
	}

	slices.SortFunc(p.funcs, func(a, b funcStat) int {
		return cmp.Or(
			cmp.Compare(b.flat, a.flat),
			cmp.Compare(b.cum, a.cum),
			cmp.Compare(a.name, b.name),
		)
	})

	p.edges = make(map[string][]edge, len(edgeSums))
	for caller, callees := range edgeSums {
		es := make([]edge, 0, len(callees))
		for callee, v := range callees {
			es = append(es, edge{callee: callee, value: v})
		}

		slices.SortFunc(es, func(a, b edge) int {
			return cmp.Or(cmp.Compare(b.value, a.value), cmp.Compare(a.callee, b.callee))
		})

		p.edges[caller] = es
	}
}

// Total returns the sum of the ranked sample value over all samples.
func (p *Pprof) Total() int64 {
	return p.total
}

// Name implements [table.Table].
func (p *Pprof) Name() string { return p.name }

// Title implements [table.Table].
func (p *Pprof) Title() string { return p.title }

// NumberRows implements [table.Table].
func (p *Pprof) NumberRows() int { return min(len(p.funcs), p.top) }

// Columns implements [table.Table].
func (p *Pprof) Columns() []table.Column {
	return []table.Column{
		table.NewColumn("Function", functionColWidth),
		table.NewColumn("Flat", 88),
		table.NewColumn("Flat%", 64),
		table.NewColumn("Cum", 88),
		table.NewColumn("Cum%", 64),
	}
}

// CellText implements [table.Table].
func (p *Pprof) CellText(row, col int) string {
	if row < 0 || row >= p.NumberRows() {
		return ""
	}

	st := p.funcs[row]

	switch col {
	case 0:
		return st.name
	case 1:
		return p.format(st.flat)
	case 2:
		return p.percent(st.flat)
	case 3:
		return p.format(st.cum)
	case 4:
		return p.percent(st.cum)
	}

	return ""
}

// Child implements [table.Table].
func (p *Pprof) Child(row int) table.Table {
	if row < 0 || row >= p.NumberRows() {
		return nil
	}

	return p.calleesOf(p.funcs[row].name)
}

// IsHighlightRow implements [table.RowHighlighter].
func (p *Pprof) IsHighlightRow(row int) bool {
	if p.hotShare <= 0 || p.total == 0 || row < 0 || row >= p.NumberRows() {
		return false
	}

	return float64(p.funcs[row].flat)*100/float64(p.total) >= p.hotShare
}

// calleesOf returns the cached callee table of fn, or nil when fn calls
// nothing.
func (p *Pprof) calleesOf(fn string) table.Table {
	if len(p.edges[fn]) == 0 {
		return nil
	}

	c, ok := p.callees[fn]
	if !ok {
		c = &Callees{prof: p, fn: fn}
		p.callees[fn] = c
	}

	return c
}

func (p *Pprof) format(v int64) string {
	switch p.unit {
	case "nanoseconds":
		return time.Duration(v).Round(10 * time.Microsecond).String()
	case "bytes":
		return humanize.IBytes(uint64(max(v, 0)))
	}

	return humanize.Comma(v)
}

func (p *Pprof) percent(v int64) string {
	if p.total == 0 {
		return "0.00%"
	}

	return strconv.FormatFloat(float64(v)*100/float64(p.total), 'f', 2, 64) + "%"
}

// Callees lists the functions called by one function of a [Pprof].
type Callees struct {
	prof *Pprof
	fn   string
}

// Function returns the caller whose callees are listed.
func (c *Callees) Function() string { return c.fn }

// Name implements [table.Table].
func (c *Callees) Name() string { return c.prof.name + "/" + c.fn }

// Title implements [table.Table].
func (c *Callees) Title() string { return "callees of " + c.fn }

// NumberRows implements [table.Table].
func (c *Callees) NumberRows() int { return len(c.prof.edges[c.fn]) }

// Columns implements [table.Table].
func (c *Callees) Columns() []table.Column {
	return []table.Column{
		table.NewColumn("Callee", functionColWidth),
		table.NewColumn("Cum", 88),
		table.NewColumn("Cum%", 64),
	}
}

// CellText implements [table.Table].
func (c *Callees) CellText(row, col int) string {
	es := c.prof.edges[c.fn]
	if row < 0 || row >= len(es) {
		return ""
	}

	switch col {
	case 0:
		return es[row].callee
	case 1:
		return c.prof.format(es[row].value)
	case 2:
		return c.prof.percent(es[row].value)
	}

	return ""
}

// Child implements [table.Table].
func (c *Callees) Child(row int) table.Table {
	es := c.prof.edges[c.fn]
	if row < 0 || row >= len(es) {
		return nil
	}

	return c.prof.calleesOf(es[row].callee)
}
