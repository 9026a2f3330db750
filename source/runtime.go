package source

import (
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"go.jacobcolvin.com/profview/table"
)

const recentPauses = 16

// Runtime shows Go runtime statistics.
//
// Values are sampled by [Runtime.Refresh]; reading the table never touches
// the runtime. The heap row opens a memory breakdown and the GC row opens
// the most recent pause times. Pauses longer than the pause budget are
// highlighted.
//
// Create instances with [NewRuntime].
type Runtime struct {
	*table.Static

	memory      *table.Static
	gc          *table.Static
	readStats   func(*runtime.MemStats)
	goroutines  func() int
	pauseBudget time.Duration
}

// RuntimeOption configures a [Runtime].
type RuntimeOption func(*Runtime)

// WithMemStatsReader replaces [runtime.ReadMemStats].
func WithMemStatsReader(read func(*runtime.MemStats)) RuntimeOption {
	return func(r *Runtime) {
		r.readStats = read
	}
}

// WithGoroutineCounter replaces [runtime.NumGoroutine].
func WithGoroutineCounter(count func() int) RuntimeOption {
	return func(r *Runtime) {
		r.goroutines = count
	}
}

// WithPauseBudget highlights GC pauses longer than d. The default is 1ms.
func WithPauseBudget(d time.Duration) RuntimeOption {
	return func(r *Runtime) {
		r.pauseBudget = d
	}
}

// NewRuntime creates a [Runtime] table and samples it once.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	r := &Runtime{
		Static: table.NewStatic("runtime", "Go runtime",
			table.NewColumn("Metric", 160),
			table.NewColumn("Value", 160),
		),
		memory: table.NewStatic("runtime/memory", "Memory",
			table.NewColumn("Metric", 160),
			table.NewColumn("Value", 160),
		),
		gc: table.NewStatic("runtime/gc", "Recent GC pauses",
			table.NewColumn("Cycle", 80),
			table.NewColumn("Pause", 120),
		),
		readStats:   runtime.ReadMemStats,
		goroutines:  runtime.NumGoroutine,
		pauseBudget: time.Millisecond,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.Refresh()

	return r
}

// Refresh samples the runtime and replaces all rows.
func (r *Runtime) Refresh() {
	var m runtime.MemStats

	r.readStats(&m)

	r.SetRows([][]string{
		{"goroutines", strconv.Itoa(r.goroutines())},
		{"gomaxprocs", strconv.Itoa(runtime.GOMAXPROCS(0))},
		{"heap alloc", humanize.IBytes(m.HeapAlloc)},
		{"sys", humanize.IBytes(m.Sys)},
		{"gc cycles", humanize.Comma(int64(m.NumGC))},
		{"gc cpu", fmt.Sprintf("%.2f%%", m.GCCPUFraction*100)},
		{"go version", runtime.Version()},
	})
	r.SetChild(2, r.memory)
	r.SetChild(4, r.gc)

	r.memory.SetRows([][]string{
		{"heap alloc", humanize.IBytes(m.HeapAlloc)},
		{"heap sys", humanize.IBytes(m.HeapSys)},
		{"heap idle", humanize.IBytes(m.HeapIdle)},
		{"heap in use", humanize.IBytes(m.HeapInuse)},
		{"heap released", humanize.IBytes(m.HeapReleased)},
		{"heap objects", humanize.Comma(int64(m.HeapObjects))},
		{"stack in use", humanize.IBytes(m.StackInuse)},
		{"total alloc", humanize.IBytes(m.TotalAlloc)},
		{"mallocs", humanize.Comma(int64(m.Mallocs))},
		{"frees", humanize.Comma(int64(m.Frees))},
		{"next gc", humanize.IBytes(m.NextGC)},
	})

	r.gc.Reset()

	for i := range min(int(m.NumGC), recentPauses) {
		cycle := int(m.NumGC) - i
		pause := time.Duration(m.PauseNs[(cycle+len(m.PauseNs)-1)%len(m.PauseNs)]) //nolint:gosec // Pause times fit in int64.

		row := r.gc.AddRow(strconv.Itoa(cycle), pause.String())
		r.gc.SetHighlight(row, r.pauseBudget > 0 && pause > r.pauseBudget)
	}
}
