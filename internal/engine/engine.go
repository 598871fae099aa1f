// Package engine orchestrates the ride simulation: it owns the
// configuration and state, drives the three VFD motor models, applies
// ramping and safety policy, and recomputes cabin physics once per
// cabin per fixed timestep.
package engine

import (
	"fmt"
	"math"

	"github.com/ivanstan/hully-gully-sub000/internal/kinematics"
	"github.com/ivanstan/hully-gully-sub000/internal/motor"
)

// DriveMode selects how commanded speeds become angular velocities.
type DriveMode int

const (
	// ModeMotor runs the full VFD/induction-motor electromechanics.
	ModeMotor DriveMode = iota
	// ModeRamp bypasses the motors and ramps rates exponentially.
	ModeRamp
)

// Fixed drivetrain constants: gearbox ratios (motor shaft rad/s per
// stage rad/s), load inertias seen at each stage, and the heuristic
// load-torque model at the motor shaft.
const (
	platformGearRatio = 240.0
	windmillGearRatio = 120.0

	platformLoadInertia = 90000.0 // kg·m² at the platform
	windmillLoadInertia = 24000.0 // kg·m² at the disc

	platformLoadBase     = 8.0  // Nm, bearing drag
	platformLoadFriction = 0.15 // Nm per shaft rad/s
	platformLoadRipple   = 3.0  // Nm, track disturbance
	loadRippleHz         = 0.5

	windmillLoadBase     = 5.0
	windmillLoadFriction = 0.12
	windmillLoadRipple   = 4.0 // Nm, cabin imbalance, rotates with disc

	pumpLoadBase     = 4.0
	pumpLoadTiltGain = 30.0 // Nm per rad of tilt error
	pumpLoadMax      = 20.0
	pumpInertia      = 0.05

	// slip compensation applied when converting a desired speed into
	// a commanded VFD frequency
	nominalSlip = 0.03
)

// Config is the immutable ride configuration. It is created once and
// only read afterwards.
type Config struct {
	PlatformRadius  float64
	WindmillRadius  float64
	PivotRadius     float64
	SecondaryOffset float64

	MinTiltAngle float64
	MaxTiltAngle float64

	CabinCount    int
	FixedTimestep float64

	PlatformRampTau float64
	WindmillRampTau float64
	TiltRampTau     float64

	DriveMode DriveMode

	InitialPlatformSpeed float64
	InitialWindmillSpeed float64
	InitialTiltAngle     float64
}

// Engine is the single-writer owner of the simulation state. All of
// its methods are synchronous; nothing here blocks or spawns.
type Engine struct {
	cfg   Config
	state State

	platformDrive  *motor.Drive
	windmillDrive  *motor.Drive
	hydraulicDrive *motor.Drive

	running     bool
	anchored    bool // wall clock anchor for Update is valid
	accumulator float64
	lastWall    float64
	tiltRate    float64
}

// New validates the configuration and builds an engine at rest.
func New(cfg Config) (*Engine, error) {
	if cfg.FixedTimestep <= 0 {
		return nil, fmt.Errorf("fixed timestep must be positive, got %f", cfg.FixedTimestep)
	}
	if cfg.PlatformRadius <= 0 || cfg.WindmillRadius <= 0 || cfg.PivotRadius <= 0 {
		return nil, fmt.Errorf("geometry radii must be positive: platform %f, windmill %f, pivot %f",
			cfg.PlatformRadius, cfg.WindmillRadius, cfg.PivotRadius)
	}
	if cfg.PivotRadius > cfg.PlatformRadius {
		return nil, fmt.Errorf("tilt pivot at %f m sits outside the %f m platform", cfg.PivotRadius, cfg.PlatformRadius)
	}
	if cfg.CabinCount <= 0 {
		return nil, fmt.Errorf("cabin count must be positive, got %d", cfg.CabinCount)
	}
	if cfg.MaxTiltAngle < cfg.MinTiltAngle {
		return nil, fmt.Errorf("tilt range inverted: [%f, %f]", cfg.MinTiltAngle, cfg.MaxTiltAngle)
	}
	if cfg.PlatformRampTau <= 0 || cfg.WindmillRampTau <= 0 || cfg.TiltRampTau <= 0 {
		return nil, fmt.Errorf("ramp time constants must be positive")
	}

	e := &Engine{
		cfg:            cfg,
		platformDrive:  motor.NewDrive(motor.NewPlatformNameplate()),
		windmillDrive:  motor.NewDrive(motor.NewWindmillNameplate()),
		hydraulicDrive: motor.NewDrive(motor.NewHydraulicNameplate()),
	}
	e.rebuildState()
	return e, nil
}

func (e *Engine) rebuildState() {
	e.state = State{
		Platform: RotorState{Direction: 1},
		Windmill: RotorState{Direction: 1},
		Tilt: TiltState{
			PivotRadius:     e.cfg.PivotRadius,
			TiltAngle:       e.cfg.MinTiltAngle,
			TargetTiltAngle: e.cfg.MinTiltAngle,
			SecondaryOffset: e.cfg.SecondaryOffset,
		},
		Cabins: make([]kinematics.CabinState, e.cfg.CabinCount),
	}
	e.accumulator = 0
	e.anchored = false
	e.tiltRate = 0

	initial := ControlInput{
		PlatformSpeed: &e.cfg.InitialPlatformSpeed,
		WindmillSpeed: &e.cfg.InitialWindmillSpeed,
		TiltAngle:     &e.cfg.InitialTiltAngle,
	}
	e.UpdateControls(initial)
	e.refreshCabins()
}

// Config returns the ride configuration.
func (e *Engine) Config() Config { return e.cfg }

// Snapshot returns a read-only copy of the simulation state.
func (e *Engine) Snapshot() State { return e.state.clone() }

// PlatformMotorState returns a read-only copy of the platform drive.
func (e *Engine) PlatformMotorState() motor.State { return e.platformDrive.StateSnapshot() }

// WindmillMotorState returns a read-only copy of the windmill drive.
func (e *Engine) WindmillMotorState() motor.State { return e.windmillDrive.StateSnapshot() }

// HydraulicMotorState returns a read-only copy of the tilt pump drive.
func (e *Engine) HydraulicMotorState() motor.State { return e.hydraulicDrive.StateSnapshot() }

// Start begins draining wall-clock time into fixed steps.
func (e *Engine) Start() {
	e.running = true
	e.anchored = false
}

// Pause halts the accumulator drain. Accumulated fractional time and
// motor state are kept, so Resume continues seamlessly.
func (e *Engine) Pause() { e.running = false }

// Resume re-anchors the wall clock and continues.
func (e *Engine) Resume() {
	e.running = true
	e.anchored = false
}

// Reset rebuilds the simulation state from the configuration: zeroed
// phases, fresh cabins, targets back at their configured initial
// values. Healthy motors are rebuilt too; tripped motors keep their
// fault until ResetMotorFaults.
func (e *Engine) Reset() {
	for _, d := range e.drives() {
		if d.StateSnapshot().Fault == motor.FaultNone {
			d.Reset()
		}
	}
	e.rebuildState()
}

func (e *Engine) drives() [3]*motor.Drive {
	return [3]*motor.Drive{e.platformDrive, e.windmillDrive, e.hydraulicDrive}
}

// Update drains accumulated wall-clock time in whole fixed timesteps
// and reports how many steps ran. Physics results are independent of
// the caller's frame cadence.
func (e *Engine) Update(now float64) int {
	if !e.running {
		return 0
	}
	if !e.anchored {
		e.anchored = true
		e.lastWall = now
		return 0
	}

	e.accumulator += now - e.lastWall
	e.lastWall = now

	steps := 0
	for e.accumulator >= e.cfg.FixedTimestep {
		e.Step(e.cfg.FixedTimestep)
		e.accumulator -= e.cfg.FixedTimestep
		steps++
	}
	return steps
}

// Step advances the simulation by exactly dt seconds.
func (e *Engine) Step(dt float64) {
	if dt <= 0 {
		return
	}

	e.stepTilt(dt)

	if e.cfg.DriveMode == ModeMotor {
		e.stepMotors(dt)
	} else {
		e.stepRamp(dt)
	}

	e.state.PlatformPhase = wrapPhase(e.state.PlatformPhase + e.state.Platform.AngularVelocity*dt)
	e.state.WindmillPhase = wrapPhase(e.state.WindmillPhase + e.state.Windmill.AngularVelocity*dt)

	e.refreshCabins()
	e.state.Time += dt
}

// stepTilt ramps the tilt angle exponentially toward its target. The
// hydraulic actuator abstraction applies in both drive modes.
func (e *Engine) stepTilt(dt float64) {
	tilt := &e.state.Tilt
	alpha := 1 - math.Exp(-dt/e.cfg.TiltRampTau)
	next := tilt.TiltAngle + (tilt.TargetTiltAngle-tilt.TiltAngle)*alpha
	e.tiltRate = (next - tilt.TiltAngle) / dt
	tilt.TiltAngle = next
}

func (e *Engine) stepMotors(dt float64) {
	t := e.state.Time

	platLoad := platformLoadBase +
		platformLoadFriction*e.platformDrive.AbsoluteSpeed() +
		platformLoadRipple*math.Sin(2*math.Pi*loadRippleHz*t)
	e.platformDrive.SetLoadTorque(platLoad)
	e.platformDrive.Step(dt, platformLoadInertia/(platformGearRatio*platformGearRatio))

	windLoad := windmillLoadBase +
		windmillLoadFriction*e.windmillDrive.AbsoluteSpeed() +
		windmillLoadRipple*math.Sin(e.state.WindmillPhase)
	e.windmillDrive.SetLoadTorque(windLoad)
	e.windmillDrive.Step(dt, windmillLoadInertia/(windmillGearRatio*windmillGearRatio))

	tiltError := math.Abs(e.state.Tilt.TargetTiltAngle - e.state.Tilt.TiltAngle)
	pumpLoad := math.Min(pumpLoadBase+pumpLoadTiltGain*tiltError, pumpLoadMax)
	e.hydraulicDrive.SetLoadTorque(pumpLoad)
	e.hydraulicDrive.Step(dt, pumpInertia)

	e.state.Platform.AngularVelocity = e.platformDrive.OutputSpeed() / platformGearRatio
	e.state.Windmill.AngularVelocity = e.windmillDrive.OutputSpeed() / windmillGearRatio
}

// stepRamp is the simplified drive model: exponential approach toward
// target speed times direction, no electromechanics.
func (e *Engine) stepRamp(dt float64) {
	p := &e.state.Platform
	alpha := 1 - math.Exp(-dt/e.cfg.PlatformRampTau)
	p.AngularVelocity += (p.TargetAngularVelocity*p.Direction - p.AngularVelocity) * alpha

	w := &e.state.Windmill
	alpha = 1 - math.Exp(-dt/e.cfg.WindmillRampTau)
	w.AngularVelocity += (w.TargetAngularVelocity*w.Direction - w.AngularVelocity) * alpha
}

func (e *Engine) refreshCabins() {
	frame := kinematics.Frame{
		PlatformPhase:   e.state.PlatformPhase,
		PlatformOmega:   e.state.Platform.AngularVelocity,
		WindmillPhase:   e.state.WindmillPhase,
		WindmillOmega:   e.state.Windmill.AngularVelocity,
		TiltAngle:       e.state.Tilt.TiltAngle,
		TiltRate:        e.tiltRate,
		PivotRadius:     e.state.Tilt.PivotRadius,
		SecondaryOffset: e.state.Tilt.SecondaryOffset,
	}

	n := len(e.state.Cabins)
	for i := range e.state.Cabins {
		geo := kinematics.Geometry{
			Angle:    2 * math.Pi * float64(i) / float64(n),
			Distance: e.cfg.WindmillRadius,
		}
		e.state.Cabins[i] = kinematics.CabinPhysics(geo, frame)
	}
}

func wrapPhase(p float64) float64 {
	p = math.Mod(p, 2*math.Pi)
	if p < 0 {
		p += 2 * math.Pi
	}
	return p
}
