package engine

import (
	"math"

	"github.com/ivanstan/hully-gully-sub000/internal/motor"
)

// ControlInput is a partial operator command. Nil fields are left
// untouched; set fields update targets only, never instantaneous
// rates. Out-of-range values are made safe, not refused.
type ControlInput struct {
	PlatformSpeed     *float64 // rad/s magnitude
	PlatformDirection *float64 // sign only
	WindmillSpeed     *float64 // rad/s magnitude
	WindmillDirection *float64 // sign only
	TiltAngle         *float64 // rad, clamped into [MinTiltAngle, MaxTiltAngle]
}

// UpdateControls applies an operator command to the target fields and,
// in motor mode, forwards equivalent frequency/direction commands to
// the drives.
func (e *Engine) UpdateControls(in ControlInput) {
	if in.PlatformSpeed != nil {
		e.state.Platform.TargetAngularVelocity = math.Max(0, *in.PlatformSpeed)
	}
	if in.PlatformDirection != nil {
		e.state.Platform.Direction = signOf(*in.PlatformDirection)
	}
	if in.WindmillSpeed != nil {
		e.state.Windmill.TargetAngularVelocity = math.Max(0, *in.WindmillSpeed)
	}
	if in.WindmillDirection != nil {
		e.state.Windmill.Direction = signOf(*in.WindmillDirection)
	}
	if in.TiltAngle != nil {
		e.state.Tilt.TargetTiltAngle = clamp(*in.TiltAngle, e.cfg.MinTiltAngle, e.cfg.MaxTiltAngle)
	}

	if e.cfg.DriveMode != ModeMotor {
		return
	}

	if in.PlatformSpeed != nil {
		e.platformDrive.SetTargetFrequency(e.PlatformFrequencyFor(e.state.Platform.TargetAngularVelocity))
	}
	if in.PlatformDirection != nil {
		e.platformDrive.SetDirection(directionOf(e.state.Platform.Direction))
	}
	if in.WindmillSpeed != nil {
		e.windmillDrive.SetTargetFrequency(e.WindmillFrequencyFor(e.state.Windmill.TargetAngularVelocity))
	}
	if in.WindmillDirection != nil {
		e.windmillDrive.SetDirection(directionOf(e.state.Windmill.Direction))
	}
}

// SetPlatformMotorFrequency commands the platform VFD directly.
func (e *Engine) SetPlatformMotorFrequency(hz float64) {
	e.platformDrive.SetTargetFrequency(hz)
}

// SetPlatformMotorDirection commands the platform phase sequence.
func (e *Engine) SetPlatformMotorDirection(dir motor.Direction) {
	e.platformDrive.SetDirection(dir)
	e.state.Platform.Direction = float64(dir)
}

// SetWindmillMotorFrequency commands the windmill VFD directly.
func (e *Engine) SetWindmillMotorFrequency(hz float64) {
	e.windmillDrive.SetTargetFrequency(hz)
}

// SetWindmillMotorDirection commands the windmill phase sequence.
func (e *Engine) SetWindmillMotorDirection(dir motor.Direction) {
	e.windmillDrive.SetDirection(dir)
	e.state.Windmill.Direction = float64(dir)
}

// StartHydraulicMotor spins the tilt pump up to rated frequency.
func (e *Engine) StartHydraulicMotor() {
	e.hydraulicDrive.SetTargetFrequency(e.hydraulicDrive.Nameplate().RatedFrequency)
}

// StopHydraulicMotor winds the tilt pump down.
func (e *Engine) StopHydraulicMotor() {
	e.hydraulicDrive.SetTargetFrequency(0)
}

// EmergencyStopMotors zeroes every frequency and speed target. Motors
// decelerate on their normal ramps; nothing is tripped.
func (e *Engine) EmergencyStopMotors() {
	for _, d := range e.drives() {
		d.SetTargetFrequency(0)
	}
	e.state.Platform.TargetAngularVelocity = 0
	e.state.Windmill.TargetAngularVelocity = 0
}

// SimulatePowerLoss trips all three motors with a phase-loss fault;
// the ride coasts down through each motor's passive fault dynamics.
func (e *Engine) SimulatePowerLoss() {
	for _, d := range e.drives() {
		d.Trip(motor.FaultPhaseLoss)
	}
}

// ResetMotorFaults resets every tripped drive. Reset of the engine
// state is deliberately a separate operation.
func (e *Engine) ResetMotorFaults() {
	for _, d := range e.drives() {
		if d.StateSnapshot().Fault != motor.FaultNone {
			d.Reset()
		}
	}
}

// PlatformFrequencyFor converts a desired platform angular velocity
// into the VFD frequency that sustains it, with slip compensation.
func (e *Engine) PlatformFrequencyFor(omega float64) float64 {
	return frequencyForShaftSpeed(math.Abs(omega)*platformGearRatio, e.platformDrive.Nameplate())
}

// WindmillFrequencyFor converts a desired windmill angular velocity
// into the VFD frequency that sustains it.
func (e *Engine) WindmillFrequencyFor(omega float64) float64 {
	return frequencyForShaftSpeed(math.Abs(omega)*windmillGearRatio, e.windmillDrive.Nameplate())
}

// PlatformSpeedFor is the inverse mapping, frequency to steady-state
// platform angular velocity.
func (e *Engine) PlatformSpeedFor(hz float64) float64 {
	return shaftSpeedForFrequency(hz, e.platformDrive.Nameplate()) / platformGearRatio
}

// WindmillSpeedFor is the inverse mapping for the windmill stage.
func (e *Engine) WindmillSpeedFor(hz float64) float64 {
	return shaftSpeedForFrequency(hz, e.windmillDrive.Nameplate()) / windmillGearRatio
}

func frequencyForShaftSpeed(shaft float64, n motor.Nameplate) float64 {
	f := shaft * float64(n.Poles) / (4 * math.Pi)
	return f / (1 - nominalSlip)
}

func shaftSpeedForFrequency(hz float64, n motor.Nameplate) float64 {
	return n.SynchronousSpeed(hz) * (1 - nominalSlip)
}

func signOf(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func directionOf(sign float64) motor.Direction {
	if sign < 0 {
		return motor.Reverse
	}
	return motor.Forward
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
