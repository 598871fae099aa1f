// Package program runs scripted ride cycles: a YAML scenario is a
// timed sequence of operator commands executed against the engine.
package program

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivanstan/hully-gully-sub000/internal/engine"
	"github.com/ivanstan/hully-gully-sub000/internal/telemetry"
)

// Scenario is a named sequence of ride commands.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step holds one command set and how long to let it play out. Nil
// fields leave the corresponding target untouched, matching the
// engine's partial control input.
type Step struct {
	Duration float64 `yaml:"duration"`

	PlatformSpeed     *float64 `yaml:"platform_speed"`
	PlatformDirection *float64 `yaml:"platform_direction"`
	WindmillSpeed     *float64 `yaml:"windmill_speed"`
	WindmillDirection *float64 `yaml:"windmill_direction"`
	TiltAngle         *float64 `yaml:"tilt_angle"`

	EmergencyStop bool `yaml:"emergency_stop"`
	PowerLoss     bool `yaml:"power_loss"`
	ResetFaults   bool `yaml:"reset_faults"`
}

// LoadScenario reads a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate rejects scenarios the runner cannot execute.
func (s *Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario %q has no steps", s.Name)
	}
	for i, step := range s.Steps {
		if step.Duration <= 0 {
			return fmt.Errorf("scenario %q step %d: duration must be positive", s.Name, i+1)
		}
	}
	return nil
}

// TotalDuration is the scripted length in simulated seconds.
func (s *Scenario) TotalDuration() float64 {
	total := 0.0
	for _, step := range s.Steps {
		total += step.Duration
	}
	return total
}

func (st Step) controls() engine.ControlInput {
	return engine.ControlInput{
		PlatformSpeed:     st.PlatformSpeed,
		PlatformDirection: st.PlatformDirection,
		WindmillSpeed:     st.WindmillSpeed,
		WindmillDirection: st.WindmillDirection,
		TiltAngle:         st.TiltAngle,
	}
}

// Run executes the scenario step by step, sampling telemetry every
// sampleEach engine steps. The context is checked between steps so a
// long script can be cancelled.
func Run(ctx context.Context, sc *Scenario, eng *engine.Engine, sampleEach int) ([]telemetry.Row, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if sampleEach <= 0 {
		sampleEach = 1
	}

	dt := eng.Config().FixedTimestep
	rows := make([]telemetry.Row, 0)
	tick := 0

	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return rows, fmt.Errorf("step %d: %w", i+1, err)
		}

		if step.ResetFaults {
			eng.ResetMotorFaults()
		}
		eng.UpdateControls(step.controls())
		if step.EmergencyStop {
			eng.EmergencyStopMotors()
		}
		if step.PowerLoss {
			eng.SimulatePowerLoss()
		}

		for elapsed := 0.0; elapsed < step.Duration; elapsed += dt {
			eng.Step(dt)
			if tick%sampleEach == 0 {
				rows = append(rows, telemetry.Capture(eng))
			}
			tick++
		}
	}
	return rows, nil
}

// ShowCycle is the built-in demonstration script: spin up, tilt out,
// reverse the windmill, level off and wind down.
func ShowCycle() *Scenario {
	f := func(v float64) *float64 { return &v }
	return &Scenario{
		Name:        "show-cycle",
		Description: "full ride cycle with a mid-program windmill reversal",
		Steps: []Step{
			{Duration: 30, PlatformSpeed: f(0.4), WindmillSpeed: f(0.8)},
			{Duration: 30, TiltAngle: f(0.35), WindmillSpeed: f(1.0)},
			{Duration: 45, WindmillDirection: f(-1)},
			{Duration: 20, TiltAngle: f(0), WindmillSpeed: f(0.4)},
			{Duration: 35, EmergencyStop: true},
		},
	}
}
