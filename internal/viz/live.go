package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/coulombsim/internal/coulomb"
	"github.com/san-kum/coulombsim/internal/dynamo"
	"github.com/san-kum/coulombsim/internal/experiment"
	"github.com/san-kum/coulombsim/internal/metrics"
	"github.com/san-kum/coulombsim/internal/space"
)

const (
	width           = 60
	height          = 22
	historyCapacity = 600
	trailCapacity   = 120
	probeStep       = 0.25
	frameInterval   = time.Second / 60
)

const (
	GlyphPositive = '+'
	GlyphNegative = '-'
	GlyphNeutral  = 'o'
	GlyphFixed    = '#'
	GlyphProbe    = 'x'
)

type TickMsg time.Time

// Model ticks an experiment's engine on a timer and draws it.
type Model struct {
	exp           *experiment.Experiment
	dt            float64
	t             float64
	steps         int
	canvas        *Canvas
	camera        *Camera
	trails        map[uuid.UUID][]dynamo.Vec3
	energyHistory []float64
	probe         dynamo.Vec3
	title         string
	err           error
	showHelp      bool
}

// NewModel starts the engine running; the first tick moves it.
func NewModel(exp *experiment.Experiment, title string) Model {
	m := Model{
		exp:           exp,
		dt:            exp.Config().Dt,
		canvas:        NewCanvas(width, height),
		camera:        NewCamera(span(exp.Engine())),
		trails:        make(map[uuid.UUID][]dynamo.Vec3),
		energyHistory: make([]float64, 0, historyCapacity),
		title:         title,
	}
	m.camera.Perspective = exp.Transform().Mode() == space.Mode3D
	exp.Engine().SetRunning(true)
	return m
}

// span fits every starting charge on screen with some margin.
func span(e *coulomb.Engine) float64 {
	s := 0.0
	for _, c := range e.Charges() {
		for _, v := range c.Position {
			if v < 0 {
				v = -v
			}
			if v > s {
				s = v
			}
		}
	}
	return s*1.5 + 1
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	engine := m.exp.Engine()
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			engine.SetRunning(false)
			return m, tea.Quit
		case " ":
			engine.SetRunning(!engine.Running())
		case "r":
			m.reset()
		case "m":
			m.toggleMode()
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		case "up":
			m.probe[1] += probeStep
		case "down":
			m.probe[1] -= probeStep
		case "left":
			m.probe[0] -= probeStep
		case "right":
			m.probe[0] += probeStep
		case "x":
			m.camera.RotateX(0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
	case TickMsg:
		m.step()
		return m, tick()
	}
	return m, nil
}

// step advances the engine once when it is running.
func (m *Model) step() {
	updates, stepped := m.exp.Engine().Tick(m.dt)
	if !stepped {
		return
	}
	m.t += m.dt
	m.steps++

	for _, u := range updates {
		trail := append(m.trails[u.ID], u.To)
		if len(trail) > trailCapacity {
			trail = trail[1:]
		}
		m.trails[u.ID] = trail
	}

	frame := m.exp.Engine().Frame(m.steps, m.t)
	if !frame.IsValid() {
		m.exp.Engine().SetRunning(false)
		m.err = fmt.Errorf("step %d: %w", m.steps, dynamo.ErrInvalidState)
		return
	}
	m.energyHistory = append(m.energyHistory, metrics.FrameEnergy(m.exp.Transform(), frame))
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m *Model) clearHistory() {
	m.t, m.steps = 0, 0
	m.err = nil
	m.trails = make(map[uuid.UUID][]dynamo.Vec3)
	m.energyHistory = m.energyHistory[:0]
}

// reset reloads the configured charges and leaves the engine paused.
func (m *Model) reset() {
	m.clearHistory()
	if err := m.exp.Reset(); err != nil {
		m.err = err
	}
}

// toggleMode switches the engine between 2D and 3D. The switch removes every
// charge, so the configured charges are loaded again afterwards.
func (m *Model) toggleMode() {
	next := space.Mode3D
	if m.exp.Transform().Mode() == space.Mode3D {
		next = space.Mode2D
	}
	if err := m.exp.Engine().SetMode(next); err != nil {
		m.err = err
		return
	}
	m.camera.Reset()
	m.camera.Perspective = next == space.Mode3D
	m.reset()
}

func glyphFor(c *coulomb.Charge) rune {
	s := c.State()
	switch {
	case s.Fixed:
		return GlyphFixed
	case s.Neutral() || !s.Active:
		return GlyphNeutral
	case s.Charge > 0:
		return GlyphPositive
	default:
		return GlyphNegative
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	sw, sh := m.canvas.Width*2, m.canvas.Height*4

	if m.camera.Perspective {
		m.camera.DrawAxes(m.canvas, m.camera.Span/3)
	}

	for _, trail := range m.trails {
		for i := 1; i < len(trail); i++ {
			x0, y0, ok0 := m.camera.Project(trail[i-1], sw, sh)
			x1, y1, ok1 := m.camera.Project(trail[i], sw, sh)
			if ok0 && ok1 {
				m.canvas.DrawLine(x0, y0, x1, y1)
			}
		}
	}

	if x, y, ok := m.camera.Project(m.probe, sw, sh); ok {
		m.canvas.Put(x, y, GlyphProbe)
	}
	for _, c := range m.exp.Engine().Charges() {
		if x, y, ok := m.camera.Project(c.Position, sw, sh); ok {
			m.canvas.Put(x, y, glyphFor(c))
		}
	}
}

func (m Model) View() string {
	m.draw()
	engine := m.exp.Engine()

	canvasView := canvasStyle.Render(m.canvas.Render(GlyphStyle, TrailStyle))

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")

	status := StatusPaused.Render("PAUSED")
	if engine.Running() {
		status = StatusRunning.Render("RUNNING")
	}
	s.WriteString(status + "  " + valueStyle.Render(m.exp.Transform().Mode().String()) + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Potential energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.t))
	row("Steps", fmt.Sprintf("%d", m.steps))
	row("Active", fmt.Sprintf("%d/%d", engine.ActiveCount(), engine.MaxCharges()))
	s.WriteString(labelStyle.Render("Capacity") + ProgressBar(float64(engine.Len())/float64(engine.MaxCharges()), 16) + "\n")
	row("Probe", fmt.Sprintf("(%.2f, %.2f)", m.probe[0], m.probe[1]))
	row("Voltmeter", engine.VoltmeterReading(m.probe))
	row("Field", fmt.Sprintf("%.3g N/C", engine.FieldStrength(m.probe)))
	if len(m.energyHistory) > 0 {
		s.WriteString(labelStyle.Render("Trend") + SparklineChart(m.energyHistory, 16) + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause R:Reset Q:Quit\nM:2D/3D T:Theme ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset charges            ║
║  M        - Switch 2D/3D             ║
║  T        - Cycle themes             ║
║  Arrows   - Move voltmeter probe     ║
║  X/Y/Z    - Rotate 3D view           ║
║  +/-      - Zoom                     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run blocks until the user quits.
func Run(exp *experiment.Experiment, title string) error {
	_, err := tea.NewProgram(NewModel(exp, title), tea.WithAltScreen()).Run()
	return err
}
