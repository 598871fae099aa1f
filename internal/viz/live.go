// Package viz is the live operator panel: a bubbletea program that
// drains the engine on a render tick and turns the snapshot into a
// control-room view with per-motor panels and a g-force trace.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/ivanstan/hully-gully-sub000/internal/engine"
	"github.com/ivanstan/hully-gully-sub000/internal/motor"
)

const (
	historyCapacity = 600
	graphWidth      = 56
	graphHeight     = 6

	platformSpeedStep = 0.05 // rad/s per keypress
	windmillSpeedStep = 0.10
	tiltStep          = 0.05 // rad per keypress
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(11)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	faultStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model owns the engine for the lifetime of the program. Every mutation
// goes through the engine's command surface; the view only reads
// snapshots.
type Model struct {
	eng   *engine.Engine
	start time.Time
	fps   int

	platformTarget float64
	windmillTarget float64
	tiltTarget     float64
	platformDir    float64
	windmillDir    float64

	gHistory []float64
	paused   bool
	showHelp bool
	width    int
}

func NewModel(eng *engine.Engine, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	s := eng.Snapshot()
	eng.Start()
	return Model{
		eng:            eng,
		start:          time.Now(),
		fps:            fps,
		platformTarget: s.Platform.TargetAngularVelocity,
		windmillTarget: s.Windmill.TargetAngularVelocity,
		tiltTarget:     s.Tilt.TargetTiltAngle,
		platformDir:    s.Platform.Direction,
		windmillDir:    s.Windmill.Direction,
		gHistory:       make([]float64, 0, historyCapacity),
		width:          80,
	}
}

// Run blocks until the operator quits the panel.
func Run(eng *engine.Engine, fps int) error {
	p := tea.NewProgram(NewModel(eng, fps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case TickMsg:
		m.eng.Update(time.Since(m.start).Seconds())
		m.gHistory = append(m.gHistory, maxGForce(m.eng.Snapshot()))
		if len(m.gHistory) > historyCapacity {
			m.gHistory = m.gHistory[1:]
		}
		return m, m.tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case " ":
		if m.paused {
			m.eng.Resume()
		} else {
			m.eng.Pause()
		}
		m.paused = !m.paused

	case "up", "k":
		m.platformTarget += platformSpeedStep
		m.eng.UpdateControls(engine.ControlInput{PlatformSpeed: &m.platformTarget})
	case "down", "j":
		m.platformTarget = max(0, m.platformTarget-platformSpeedStep)
		m.eng.UpdateControls(engine.ControlInput{PlatformSpeed: &m.platformTarget})

	case "right", "l":
		m.windmillTarget += windmillSpeedStep
		m.eng.UpdateControls(engine.ControlInput{WindmillSpeed: &m.windmillTarget})
	case "left", "h":
		m.windmillTarget = max(0, m.windmillTarget-windmillSpeedStep)
		m.eng.UpdateControls(engine.ControlInput{WindmillSpeed: &m.windmillTarget})

	case "t":
		m.tiltTarget += tiltStep
		m.eng.UpdateControls(engine.ControlInput{TiltAngle: &m.tiltTarget})
		m.tiltTarget = m.eng.Snapshot().Tilt.TargetTiltAngle
	case "g":
		m.tiltTarget -= tiltStep
		m.eng.UpdateControls(engine.ControlInput{TiltAngle: &m.tiltTarget})
		m.tiltTarget = m.eng.Snapshot().Tilt.TargetTiltAngle

	case "R":
		m.platformDir = -m.platformDir
		m.eng.UpdateControls(engine.ControlInput{PlatformDirection: &m.platformDir})
	case "W":
		m.windmillDir = -m.windmillDir
		m.eng.UpdateControls(engine.ControlInput{WindmillDirection: &m.windmillDir})

	case "u":
		m.eng.StartHydraulicMotor()
	case "d":
		m.eng.StopHydraulicMotor()

	case "e":
		m.eng.EmergencyStopMotors()
		m.platformTarget = 0
		m.windmillTarget = 0
	case "x":
		m.eng.SimulatePowerLoss()
	case "f":
		m.eng.ResetMotorFaults()
	case "0":
		m.eng.Reset()
		s := m.eng.Snapshot()
		m.platformTarget = s.Platform.TargetAngularVelocity
		m.windmillTarget = s.Windmill.TargetAngularVelocity
		m.tiltTarget = s.Tilt.TargetTiltAngle
		m.platformDir = s.Platform.Direction
		m.windmillDir = s.Windmill.Direction
		m.gHistory = m.gHistory[:0]

	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m Model) View() string {
	s := m.eng.Snapshot()

	status := okStyle.Render("RUNNING")
	if m.paused {
		status = warnStyle.Render("PAUSED")
	}
	header := headerStyle.Render(fmt.Sprintf("hully-gully  t=%7.2fs  %s", s.Time, status))

	ride := panelStyle.Render(ridePanel(s, m.tiltTarget))
	motors := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(motorPanel("PLATFORM", m.eng.PlatformMotorState())),
		panelStyle.Render(motorPanel("WINDMILL", m.eng.WindmillMotorState())),
		panelStyle.Render(motorPanel("HYDRAULIC", m.eng.HydraulicMotorState())),
	)

	var graph string
	if len(m.gHistory) > 1 {
		graph = graphStyle.Render(asciigraph.Plot(m.gHistory,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("max cabin g-force")))
	}

	help := helpStyle.Render("↑/↓ platform  ←/→ windmill  t/g tilt  R/W reverse  u/d pump  space pause")
	if m.showHelp {
		help = helpStyle.Render(strings.Join([]string{
			"↑/↓ or k/j   platform speed target ±" + fmt.Sprintf("%.2f rad/s", platformSpeedStep),
			"←/→ or h/l   windmill speed target ±" + fmt.Sprintf("%.2f rad/s", windmillSpeedStep),
			"t/g          tilt target ±" + fmt.Sprintf("%.2f rad", tiltStep),
			"R / W        reverse platform / windmill",
			"u / d        hydraulic pump up / down",
			"e            emergency stop (ramp down, no trip)",
			"x            power-loss drill (trips all drives)",
			"f            reset motor faults",
			"0            reset ride state",
			"space        pause / resume      q  quit",
		}, "\n"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, ride, motors, graph, help)
}

func ridePanel(s engine.State, tiltTarget float64) string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	row("platform", fmt.Sprintf("%6.3f rad/s  (target %5.2f)  phase %5.2f",
		s.Platform.AngularVelocity, s.Platform.TargetAngularVelocity*s.Platform.Direction, s.PlatformPhase))
	row("windmill", fmt.Sprintf("%6.3f rad/s  (target %5.2f)  phase %5.2f",
		s.Windmill.AngularVelocity, s.Windmill.TargetAngularVelocity*s.Windmill.Direction, s.WindmillPhase))
	row("tilt", fmt.Sprintf("%6.3f rad    (target %5.2f)", s.Tilt.TiltAngle, tiltTarget))
	row("max g", fmt.Sprintf("%6.3f g over %d cabins", maxGForce(s), len(s.Cabins)))
	return strings.TrimRight(b.String(), "\n")
}

func motorPanel(name string, ms motor.State) string {
	state := okStyle.Render(ms.Operating.String())
	switch ms.Operating {
	case motor.Faulted:
		state = faultStyle.Render(ms.Operating.String() + " " + ms.Fault.String())
	case motor.Accelerating, motor.Decelerating:
		state = warnStyle.Render(ms.Operating.String())
	}

	dir := "fwd"
	if ms.CurrentDirection == motor.Reverse {
		dir = "rev"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", headerStyle.Render(name), state)
	fmt.Fprintf(&b, "freq  %5.1f Hz %s\n", ms.OutputFrequency, dir)
	fmt.Fprintf(&b, "amps  %5.1f A\n", ms.Electrical.PhaseA.Current)
	fmt.Fprintf(&b, "temp  %5.1f °C\n", ms.Temperature)
	fmt.Fprintf(&b, "power %5.2f kW", ms.Electrical.RealPower/1000)
	return b.String()
}

func maxGForce(s engine.State) float64 {
	maxG := 0.0
	for _, c := range s.Cabins {
		if c.GForce > maxG {
			maxG = c.GForce
		}
	}
	return maxG
}
