package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	slogmulti "github.com/samber/slog-multi"

	"go.jacobcolvin.com/profview/log"
	"go.jacobcolvin.com/profview/profile"
	"go.jacobcolvin.com/profview/source"
	"go.jacobcolvin.com/profview/table"
	"go.jacobcolvin.com/profview/viewer"
)

var errUnknownTable = errors.New("unknown table")

// options holds the flag values shared by all commands.
type options struct {
	log      *log.Config
	profile  *profile.Config
	viewer   *viewer.Config
	pprof    []string
	sample   string
	budget   time.Duration
	fps      int
	top      int
	logLines int
}

func newOptions() *options {
	return &options{
		log:     log.NewConfig(),
		profile: profile.NewConfig(),
		viewer:  viewer.NewConfig(),
	}
}

// app is the set of tables and services behind one command.
type app struct {
	logger   *slog.Logger
	pub      *log.Publisher
	viewer   *viewer.Viewer
	frames   *source.Frames
	runtime  *source.Runtime
	logs     *source.LogTail
	profiler *profile.Profiler
	regs     []*viewer.Registration
}

// newApp builds the viewer and its sources. Logs always feed the log table
// as JSON. When echo is not nil they are also written there in the
// configured format.
func newApp(o *options, echo io.Writer) (*app, error) {
	pub := log.NewPublisher(log.WithBacklog(o.logLines))

	tail, err := o.log.NewTailHandler(pub)
	if err != nil {
		return nil, err
	}

	handler := tail
	if echo != nil {
		out, err := o.log.NewHandler(echo)
		if err != nil {
			return nil, err
		}

		handler = slogmulti.Fanout(tail, out)
	}

	logger := slog.New(handler)

	v, err := o.viewer.NewViewer(viewer.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	a := &app{
		logger:   logger,
		pub:      pub,
		viewer:   v,
		frames:   source.NewFrames("frames", "Frame timings", source.WithBudget(o.budget)),
		runtime:  source.NewRuntime(),
		logs:     source.NewLogTail(pub, source.WithLines(o.logLines), source.WithRemover(v.Remove)),
		profiler: o.profile.NewProfiler(profile.WithLogger(logger)),
	}

	a.register(a.frames)
	a.register(a.runtime)
	a.register(a.profiler.Table())
	a.register(a.logs)

	for _, path := range o.pprof {
		p, err := source.LoadPprof(path, source.WithTop(o.top), source.WithSampleType(o.sample))
		if err != nil {
			a.close()

			return nil, err
		}

		a.register(p)
		logger.Debug("loaded profile", slog.String("path", path), slog.String("table", p.Name()))
	}

	a.refresh()

	if name := o.viewer.Show; name != "" {
		if !v.ShowTable(name) {
			a.close()

			return nil, fmt.Errorf("%w: %q", errUnknownTable, name)
		}
	}

	viewer.Install(v)

	return a, nil
}

func (a *app) register(t table.Table) {
	a.regs = append(a.regs, a.viewer.AddRootTable(t))
}

// refresh updates the polled sources.
func (a *app) refresh() {
	a.runtime.Refresh()
	a.logs.Drain()
}

// close removes every table from the viewer and releases the log pipeline.
func (a *app) close() {
	for _, r := range a.regs {
		r.Close()
	}

	a.regs = nil

	if viewer.Default() == a.viewer {
		viewer.Uninstall()
	}

	a.logs.Close()

	//nolint:errcheck // Closing an in-memory publisher cannot fail.
	a.pub.Close()
}
