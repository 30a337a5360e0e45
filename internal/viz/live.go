package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/wheelsim/internal/control"
	"github.com/san-kum/wheelsim/internal/sim"
	"github.com/san-kum/wheelsim/internal/wheelpole"
)

const (
	historyCapacity = 600
	tickRate        = 60
	nudgeStep       = 0.005
)

type TickMsg time.Time

// Model is the interactive view. Each tick advances the pendulum by enough
// steps to keep it close to real time. The applied torque is the manual
// torque plus, when enabled, the automatic controller's output.
type Model struct {
	pendulum    *wheelpole.Pendulum
	auto        sim.Controller
	autoName    string
	autoOn      bool
	manual      *control.Manual
	torqueLimit float64
	init        *wheelpole.State

	frame  Frame
	canvas *Canvas

	t            float64
	stepsPerTick int
	torque       float64
	reward       float64
	ret          float64
	rewards      []float64
	upright      int
	steps        int

	running  bool
	showHelp bool
	err      error
}

// NewModel builds the view around a reset pendulum. auto may be nil.
func NewModel(p *wheelpole.Pendulum, auto sim.Controller, autoName string, frame Frame, torqueLimit float64, init *wheelpole.State) Model {
	spt := int(math.Round(1 / (p.Params().Dt * tickRate)))
	if spt < 1 {
		spt = 1
	}
	m := Model{
		pendulum:     p,
		auto:         auto,
		autoName:     autoName,
		autoOn:       auto != nil,
		manual:       control.NewManual(),
		torqueLimit:  torqueLimit,
		init:         init,
		frame:        frame,
		canvas:       frame.NewCanvas(),
		stepsPerTick: spt,
		running:      true,
		rewards:      make([]float64, 0, historyCapacity),
	}
	m.reset()
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "left", "h":
			m.manual.Nudge(-nudgeStep)
		case "right", "l":
			m.manual.Nudge(nudgeStep)
		case "0":
			m.manual.SetTorque(0)
		case "c":
			if m.auto != nil {
				m.autoOn = !m.autoOn
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.err == nil {
			for i := 0; i < m.stepsPerTick; i++ {
				if err := m.step(); err != nil {
					m.err = err
					m.running = false
					break
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

// step advances the pendulum once.
func (m *Model) step() error {
	x := m.pendulum.State()
	u := m.manual.Compute(x, m.t)
	if m.autoOn {
		u += m.auto.Compute(x, m.t)
	}
	u = wheelpole.ClipTorque(u, m.torqueLimit)

	_, reward, _, err := m.pendulum.Step(u)
	if err != nil {
		return err
	}

	m.t += m.pendulum.Params().Dt
	m.torque = u
	m.reward = reward
	m.ret += reward
	m.steps++
	if math.Abs(m.pendulum.State().Rod) < wheelpole.Deg2Rad(5) {
		m.upright++
	}

	m.rewards = append(m.rewards, reward)
	if len(m.rewards) > historyCapacity {
		m.rewards = m.rewards[1:]
	}
	return nil
}

// reset starts a new episode and clears all history.
func (m *Model) reset() {
	m.pendulum.Reset()
	if m.init != nil {
		m.pendulum.SetState(*m.init)
	}
	if r, ok := m.auto.(sim.Resetter); ok {
		r.Reset()
	}
	m.manual.Reset()
	m.t, m.torque, m.reward, m.ret = 0, 0, 0, 0
	m.steps, m.upright = 0, 0
	m.rewards = m.rewards[:0]
	m.err = nil
}

func (m Model) Time() float64                 { return m.t }
func (m Model) Return() float64               { return m.ret }
func (m Model) Running() bool                 { return m.running }
func (m Model) ManualTorque() float64         { return m.manual.Torque }
func (m Model) AppliedTorque() float64        { return m.torque }
func (m Model) AutoEnabled() bool             { return m.autoOn }
func (m Model) Pendulum() *wheelpole.Pendulum { return m.pendulum }

// View renders the TUI interface.
func (m Model) View() string {
	x := m.pendulum.State()
	m.frame.Draw(m.canvas, m.pendulum.Params(), x.Rod)
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render("REACTION WHEEL PENDULUM") + "\n")
	status := StatusRunning.Render("RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	s.WriteString(status + "\n\n")
	if m.err != nil {
		s.WriteString(errorStyle.Render(m.err.Error()) + "\n\n")
	}

	if len(m.rewards) > 1 {
		chart := asciigraph.Plot(m.rewards, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Reward"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.t))
	row("Rod", fmt.Sprintf("%+.4f rad", x.Rod))
	row("Rod vel", fmt.Sprintf("%+.4f", x.RodDot))
	row("Wheel vel", fmt.Sprintf("%+.2f", x.WheelDot))
	row("Energy", fmt.Sprintf("%.4f", m.pendulum.Energy()))
	row("Reward", fmt.Sprintf("%.5f", m.reward))
	row("Return", fmt.Sprintf("%.3f", m.ret))

	limit := m.torqueLimit
	if limit <= 0 {
		limit = 0.1
	}
	row("Torque", TorqueBar(m.torque, limit, 20))
	if m.steps > 0 {
		row("Upright", ProgressBar(float64(m.upright)/float64(m.steps), 20))
	}

	s.WriteString("\nCONTROL\n")
	manual := fmt.Sprintf("manual %+.3f", m.manual.Torque)
	s.WriteString("  " + labelStyle.Render(manual) + "\n")
	if m.auto != nil {
		line := fmt.Sprintf("%s (off)", m.autoName)
		if m.autoOn {
			s.WriteString(activeParamStyle.Render("> "+m.autoName) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\n←→:Push  0:Release\nC:Controller ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset episode            ║
║  Q        - Quit                     ║
║  Left/H   - Push wheel negative      ║
║  Right/L  - Push wheel positive      ║
║  0        - Release manual torque    ║
║  C        - Toggle controller        ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
