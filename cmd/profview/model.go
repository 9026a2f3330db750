package main

import (
	"fmt"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"go.jacobcolvin.com/profview/canvas"
	"go.jacobcolvin.com/profview/viewer"
)

// tickMsg signals that it is time to sample the sources.
type tickMsg struct{}

// model is the bubbletea model hosting the overlay.
//
// Every event is offered to the overlay first. Events it passes on reach
// the host's own bindings.
type model struct {
	app      *app
	text     *canvas.Text
	interval time.Duration
	fps      int
	ticks    int
	cols     int
	rows     int
}

func newModel(a *app, fps, cols, rows int) *model {
	l := a.viewer.Layout()

	return &model{
		app:      a,
		text:     canvas.NewText(cols, rows, canvas.WithCellSize(l.CharWidth, l.LineHeight)),
		interval: time.Second / time.Duration(fps),
		fps:      fps,
		cols:     cols,
		rows:     rows,
	}
}

func (m *model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// Init returns the first tick command.
func (m *model) Init() tea.Cmd {
	return m.tick()
}

// Update handles tick, resize, key and wheel messages.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		defer m.app.frames.Measure("input")()

		if viewer.InputThunk(viewer.KeyEvent(msg.String())) == viewer.Handled {
			return m, nil
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "p":
			err := m.app.profiler.WriteSnapshots()
			if err != nil {
				m.app.logger.Warn("writing pprof snapshots", slog.Any("err", err))
			}
		}

	case tea.MouseWheelMsg:
		delta := 0

		switch msg.Button {
		case tea.MouseWheelUp:
			delta = 1
		case tea.MouseWheelDown:
			delta = -1
		}

		viewer.InputThunk(viewer.WheelEvent(delta))

	case tea.WindowSizeMsg:
		m.cols = msg.Width
		m.rows = msg.Height
		m.text.Resize(m.cols, m.rows)
		m.app.logger.Debug("resized", slog.Int("cols", m.cols), slog.Int("rows", m.rows))

	case tickMsg:
		stop := m.app.frames.Measure("sample")

		m.ticks++
		if m.ticks%m.fps == 0 {
			m.app.runtime.Refresh()
		}

		m.app.logs.Drain()
		stop()

		m.app.frames.EndFrame()

		return m, m.tick()
	}

	return m, nil
}

// View renders the host screen with the overlay drawn on top.
func (m *model) View() tea.View {
	defer m.app.frames.Measure("render")()

	m.text.Clear()
	m.text.SetBase(m.screen())
	m.app.viewer.RenderProfile(m.text)

	v := tea.NewView(m.text.String())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion

	return v
}

// screen returns the host's own text, shown around and under the overlay.
func (m *model) screen() []string {
	lines := make([]string, m.rows)

	keys := "f11 overlay  shift+f11 save  p pprof snapshot  q quit"

	status := fmt.Sprintf("frame %d  %d tables  overlay %s",
		m.app.frames.Frame(), len(m.app.viewer.Roots()), onOff(m.app.viewer.Visible()))

	if m.rows > 0 {
		lines[m.rows-1] = status + "  |  " + keys
	}

	return lines
}

func onOff(b bool) string {
	if b {
		return "on"
	}

	return "off"
}
