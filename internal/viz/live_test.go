package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ivanstan/hully-gully-sub000/internal/engine"
	"github.com/ivanstan/hully-gully-sub000/internal/kinematics"
)

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e, err := engine.New(engine.Config{
		PlatformRadius: 10, WindmillRadius: 4, PivotRadius: 6, SecondaryOffset: 1.5,
		MaxTiltAngle: 0.52, CabinCount: 8, FixedTimestep: 0.01,
		PlatformRampTau: 3, WindmillRampTau: 2, TiltRampTau: 4,
		DriveMode: engine.ModeRamp,
	})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSpeedKeysMoveTargets(t *testing.T) {
	m := NewModel(testEngine(t), 30)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)

	if got := m.eng.Snapshot().Platform.TargetAngularVelocity; got != 2*platformSpeedStep {
		t.Errorf("expected platform target %f, got %f", 2*platformSpeedStep, got)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	if got := m.eng.Snapshot().Windmill.TargetAngularVelocity; got != windmillSpeedStep {
		t.Errorf("expected windmill target %f, got %f", windmillSpeedStep, got)
	}
}

func TestSpeedTargetNeverNegative(t *testing.T) {
	m := NewModel(testEngine(t), 30)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	if got := m.eng.Snapshot().Platform.TargetAngularVelocity; got != 0 {
		t.Errorf("target went negative: %f", got)
	}
}

func TestTiltKeyClampsToConfig(t *testing.T) {
	m := NewModel(testEngine(t), 30)

	for i := 0; i < 20; i++ {
		next, _ := m.Update(key("t"))
		m = next.(Model)
	}

	maxTilt := m.eng.Config().MaxTiltAngle
	if got := m.eng.Snapshot().Tilt.TargetTiltAngle; got != maxTilt {
		t.Errorf("expected tilt target pinned at %f, got %f", maxTilt, got)
	}
	if m.tiltTarget != maxTilt {
		t.Errorf("local tilt target drifted past clamp: %f", m.tiltTarget)
	}
}

func TestEmergencyStopKeyZeroesTargets(t *testing.T) {
	m := NewModel(testEngine(t), 30)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	next, _ = m.Update(key("e"))
	m = next.(Model)

	s := m.eng.Snapshot()
	if s.Platform.TargetAngularVelocity != 0 || m.platformTarget != 0 {
		t.Error("emergency stop should zero the platform target")
	}
}

func TestViewRendersPanels(t *testing.T) {
	m := NewModel(testEngine(t), 30)
	view := m.View()

	for _, want := range []string{"PLATFORM", "WINDMILL", "HYDRAULIC", "max g"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestMaxGForce(t *testing.T) {
	s := engine.State{Cabins: []kinematics.CabinState{
		{GForce: 1.0}, {GForce: 2.3}, {GForce: 1.8},
	}}
	if got := maxGForce(s); got != 2.3 {
		t.Errorf("expected 2.3, got %f", got)
	}
}
