package profile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/dustin/go-humanize"

	"go.jacobcolvin.com/profview/table"
)

// State is the capture state of one profile.
type State string

const (
	// StateOff means no output path is configured.
	StateOff State = "off"
	// StatePending means the profile is written by the next snapshot or stop.
	StatePending State = "pending"
	// StateRecording means the CPU profile is being recorded.
	StateRecording State = "recording"
	// StateWritten means the profile was written.
	StateWritten State = "written"
	// StateFailed means writing the profile failed.
	StateFailed State = "failed"
)

// status is what the status table shows for one profile.
type status struct {
	err   error
	name  string
	path  string
	state State
	size  int64
}

// Profiler controls the lifecycle of runtime profiling sessions and reports
// their progress as a profile table.
//
// Call [Profiler.Start] to begin profiling and [Profiler.Stop] to write all
// enabled profiles. [Profiler.WriteSnapshots] writes the snapshot profiles
// at any time in between.
//
// Create instances with [Config.NewProfiler].
type Profiler struct {
	cpuFile *os.File
	logger  *slog.Logger
	report  *table.Static
	entries []*status
	Config
}

// Option configures a [Profiler].
type Option func(*Profiler)

// WithLogger sets the logger for capture events. The default is
// [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(p *Profiler) {
		p.logger = logger
	}
}

func newProfiler(c Config, opts ...Option) *Profiler {
	p := &Profiler{
		Config: c,
		logger: slog.Default(),
		report: table.NewStatic("pprof-capture", "pprof capture",
			table.NewColumn("Profile", 104),
			table.NewColumn("Path", 240),
			table.NewColumn("State", 88),
			table.NewColumn("Size", 80),
		),
	}
	for _, opt := range opts {
		opt(p)
	}

	for _, k := range p.kinds() {
		st := &status{name: k.name, path: k.path, state: StateOff}
		if k.path != "" {
			st.state = StatePending
		}

		p.entries = append(p.entries, st)
	}

	p.refresh()

	return p
}

type kind struct {
	name string
	path string
}

// kinds lists every profile in status table order, CPU first.
func (p *Profiler) kinds() []kind {
	return []kind{
		{"cpu", p.CPUProfile},
		{"heap", p.HeapProfile},
		{"allocs", p.AllocsProfile},
		{"goroutine", p.GoroutineProfile},
		{"threadcreate", p.ThreadcreateProfile},
		{"block", p.BlockProfile},
		{"mutex", p.MutexProfile},
	}
}

// Table returns the status table, one row per profile. Failed profiles are
// highlighted. The table is updated by the [Profiler] methods.
func (p *Profiler) Table() table.Table {
	return p.report
}

// State returns the capture state of the named profile.
func (p *Profiler) State(name string) State {
	for _, st := range p.entries {
		if st.name == name {
			return st.state
		}
	}

	return StateOff
}

// Start configures runtime profiling rates and starts CPU profiling if
// enabled. Rates that are not positive leave the runtime defaults alone.
// Call [Profiler.Stop] when profiling is complete to write snapshot profiles.
func (p *Profiler) Start() error {
	if p.MemProfileRate > 0 {
		runtime.MemProfileRate = p.MemProfileRate
	}

	if p.BlockProfileRate > 0 {
		runtime.SetBlockProfileRate(p.BlockProfileRate)
	}

	if p.MutexProfileFraction > 0 {
		runtime.SetMutexProfileFraction(p.MutexProfileFraction)
	}

	if p.CPUProfile == "" {
		return nil
	}

	cpu := p.entries[0]

	f, err := os.Create(p.CPUProfile) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		p.fail(cpu, err)

		return fmt.Errorf("creating CPU profile: %w", err)
	}

	err = pprof.StartCPUProfile(f)
	if err != nil {
		err = errors.Join(err, f.Close())
		p.fail(cpu, err)

		return fmt.Errorf("starting CPU profile: %w", err)
	}

	p.cpuFile = f
	cpu.state = StateRecording
	p.refresh()
	p.logger.Debug("recording cpu profile", slog.String("path", p.CPUProfile))

	return nil
}

// Stop stops CPU profiling and writes all enabled snapshot profiles.
func (p *Profiler) Stop() error {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()

		cpu := p.entries[0]
		f := p.cpuFile
		p.cpuFile = nil

		err := f.Close()
		if err != nil {
			p.fail(cpu, err)

			return fmt.Errorf("closing CPU profile: %w", err)
		}

		p.written(cpu)
	}

	return p.WriteSnapshots()
}

// WriteSnapshots writes all enabled snapshot profiles (heap, allocs,
// goroutine, etc.), replacing earlier snapshots.
func (p *Profiler) WriteSnapshots() error {
	for _, st := range p.entries[1:] {
		if st.path == "" {
			continue
		}

		err := writeProfile(st.name, st.path)
		if err != nil {
			p.fail(st, err)

			return fmt.Errorf("write %s profile: %w", st.name, err)
		}

		p.written(st)
	}

	return nil
}

func (p *Profiler) fail(st *status, err error) {
	st.state = StateFailed
	st.err = err
	p.refresh()
	p.logger.Warn("writing profile", slog.String("profile", st.name), slog.Any("err", err))
}

func (p *Profiler) written(st *status) {
	st.state = StateWritten
	st.err = nil
	st.size = 0

	if fi, err := os.Stat(st.path); err == nil {
		st.size = fi.Size()
	}

	p.refresh()
	p.logger.Info("wrote profile",
		slog.String("profile", st.name),
		slog.String("path", st.path),
		slog.Int64("bytes", st.size),
	)
}

func (p *Profiler) refresh() {
	rows := make([][]string, 0, len(p.entries))

	for i, st := range p.entries {
		size := ""
		if st.state == StateWritten {
			size = humanize.IBytes(uint64(max(st.size, 0)))
		}

		state := string(st.state)
		if st.err != nil {
			state += ": " + st.err.Error()
		}

		rows = append(rows, []string{st.name, st.path, state, size})
		p.report.SetHighlight(i, st.state == StateFailed)
	}

	p.report.SetRows(rows)
}

// writeProfile writes a named pprof profile to the given file path.
func writeProfile(name, path string) error {
	prof := pprof.Lookup(name)
	if prof == nil {
		return fmt.Errorf("unknown profile: %s", name)
	}

	f, err := os.Create(path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("create %s profile: %w", name, err)
	}

	err = prof.WriteTo(f, 0)
	if err != nil {
		return errors.Join(fmt.Errorf("write %s profile: %w", name, err), f.Close())
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("close %s profile: %w", name, err)
	}

	return nil
}
