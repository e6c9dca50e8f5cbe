package viz

import (
	"fmt"
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/orbitsim/internal/control"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/physics"
)

const (
	width           = 60
	height          = 24
	trailCapacity   = 400
	historyCapacity = 300
)

type TickMsg time.Time

type Options struct {
	// TimeScale is simulated seconds per real second.
	TimeScale float64
	FPS       int
	GIFPath   string
}

func DefaultOptions() Options {
	return Options{TimeScale: 1, FPS: 60, GIFPath: "orbit.gif"}
}

// Model is the live dashboard. Update runs on the Bubble Tea goroutine,
// which is the only goroutine touching the system.
type Model struct {
	exp        *experiment.Experiment
	opts       Options
	canvas     *Canvas
	view       Viewport
	trails     map[string][]dynamo.Vector2
	separation []float64
	running    bool
	last       time.Time
	err        error
	recording  bool
	frames     []*image.Paletted
	status     string
}

func NewModel(exp *experiment.Experiment, opts Options) Model {
	if opts.TimeScale <= 0 {
		opts.TimeScale = 1
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	m := Model{
		exp:     exp,
		opts:    opts,
		canvas:  NewCanvas(width, height),
		running: true,
	}
	m.resetView()
	return m
}

func (m *Model) resetView() {
	s := m.exp.System()
	pts := make([]dynamo.Vector2, 0, len(s.Orbiters()))
	for _, o := range s.Orbiters() {
		pts = append(pts, o.Position)
	}
	m.view = FitViewport(s.Anchor().Position, pts)
	m.trails = make(map[string][]dynamo.Vector2)
	m.separation = make([]float64, 0, historyCapacity)
	m.last = time.Time{}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.saveGIF()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
			m.last = time.Time{}
		case "r":
			m.err = m.exp.Reset()
			m.running = m.err == nil
			m.resetView()
			m.status = "reset"
		case "+", "=":
			m.applyMass(control.Increase)
		case "-", "_":
			m.applyMass(control.Decrease)
		case "g":
			if m.recording {
				m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
				m.status = "recording"
			}
		}
	case TickMsg:
		m.advance(time.Time(msg))
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) applyMass(a control.Action) {
	m.exp.Queue().Push(a)
	m.status = fmt.Sprintf("%s queued", a)
}

// advance feeds the real time since the previous frame, scaled, into the
// system.
func (m *Model) advance(now time.Time) {
	if !m.running || m.err != nil {
		m.last = time.Time{}
		return
	}
	if !m.last.IsZero() {
		elapsed := now.Sub(m.last).Seconds() * m.opts.TimeScale
		if _, err := m.exp.System().Advance(elapsed); err != nil {
			log.Error("simulation stopped", "err", err)
			m.err = err
			m.running = false
		}
	}
	m.last = now

	s := m.exp.System()
	for _, o := range s.Orbiters() {
		trail := append(m.trails[o.Name], o.Position)
		if len(trail) > trailCapacity {
			trail = trail[1:]
		}
		m.trails[o.Name] = trail
	}
	if len(s.Orbiters()) > 0 {
		m.separation = append(m.separation, physics.Distance(s.Orbiters()[0], s.Anchor()))
		if len(m.separation) > historyCapacity {
			m.separation = m.separation[1:]
		}
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	s := m.exp.System()

	for _, trail := range m.trails {
		for _, p := range trail {
			m.canvas.Set(m.view.Project(m.canvas, p))
		}
	}

	bodies := append([]*dynamo.Body{s.Anchor()}, s.Orbiters()...)
	for _, b := range bodies {
		x, y := m.view.Project(m.canvas, b.Position)
		m.canvas.DrawDisc(x, y, max(1, m.view.Pixels(m.canvas, b.Radius)/2))
	}
}

func (m Model) View() string {
	s := m.exp.System()
	var sb strings.Builder

	sb.WriteString(HeaderStyle.Render(strings.ToUpper(m.exp.Config().Name)) + "\n")

	switch {
	case m.err != nil:
		sb.WriteString(StatusError.Render("ERROR: "+m.err.Error()) + "\n\n")
	case m.recording:
		sb.WriteString(StatusRecording.Render("● REC") + "\n\n")
	case m.running:
		sb.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		sb.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	sb.WriteString(MetricLabel.Render("Time") + MetricValue.Render(fmt.Sprintf("%.2fs", s.Time())) + "\n")
	sb.WriteString(MetricLabel.Render("Ticks") + MetricValue.Render(fmt.Sprintf("%d", s.Ticks())) + "\n")
	sb.WriteString(MetricLabel.Render("Scale") + MetricValue.Render(fmt.Sprintf("%gx", m.opts.TimeScale)) + "\n\n")

	bodies := append([]*dynamo.Body{s.Anchor()}, s.Orbiters()...)
	for _, b := range bodies {
		sb.WriteString(fmt.Sprintf("%s %s\n", Swatch(b.Color), b.Name))
		sb.WriteString(MetricLabel.Render("  pos") + MetricValue.Render(fmt.Sprintf("(%.1f, %.1f)", b.Position.X, b.Position.Y)) + "\n")
		sb.WriteString(MetricLabel.Render("  vel") + MetricValue.Render(fmt.Sprintf("(%.3f, %.3f)", b.Velocity.X, b.Velocity.Y)) + "\n")
		sb.WriteString(MetricLabel.Render("  mass") + MetricValue.Render(fmt.Sprintf("%.3e", b.Mass)) + "\n")
		sb.WriteString(MetricLabel.Render("  radius") + MetricValue.Render(fmt.Sprintf("%.0f", b.Radius)) + "\n")
	}

	if len(m.separation) > 1 {
		chart := asciigraph.Plot(m.separation, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("separation"))
		sb.WriteString(graphStyle.Render(chart) + "\n")
	}

	if m.status != "" {
		sb.WriteString(Subtle.Render(m.status) + "\n")
	}
	sb.WriteString("\n" + Separator(30) + "\n")
	sb.WriteString(KeyHint.Render("+/-:Mass SP:Pause R:Reset\nG:Record Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.canvas.String()), statsStyle.Render(sb.String()))
}

// Run starts the dashboard on the terminal and blocks until the user quits.
func Run(exp *experiment.Experiment, opts Options) error {
	_, err := tea.NewProgram(NewModel(exp, opts), tea.WithAltScreen()).Run()
	return err
}
