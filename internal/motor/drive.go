// Package motor simulates VFD-controlled induction motors: frequency
// ramping, slip/torque via the Kloss approximation, three-phase
// electrical synthesis, a first-order thermal model, and trip logic.
package motor

import "math"

const (
	// phase sequence must never swap while the rotor carries
	// appreciable kinetic energy
	reversalSpeedEpsilon = 0.5 // rad/s
	reversalFreqEpsilon  = 0.5 // Hz

	breakdownSlip      = 0.20
	lowFreqBoostHz     = 10.0
	lowFreqTorqueBoost = 0.5
	minActiveFrequency = 0.01 // Hz, below this the inverter is off

	noLoadCurrentRatio   = 0.35
	overcurrentTripRatio = 2.0
	magnetizingBoost     = 0.8
	voltageBoostRatio    = 0.08

	thermalTau         = 300.0 // s
	ambientTemperature = 25.0  // °C
	maxTemperature     = 155.0 // °C, class F insulation limit
	maxTemperatureRise = 40.0  // °C per rated-loss unit

	faultCoastRate = 0.25 // 1/s, passive friction decay while tripped
)

// Drive is one VFD plus motor. All mutation happens through commands
// and Step; StateSnapshot hands out copies.
type Drive struct {
	nameplate Nameplate
	state     State

	// the operator's frequency request, preserved across a pending
	// reversal so ramping resumes once the sequence swaps
	requestedHz float64
}

func NewDrive(n Nameplate) *Drive {
	return &Drive{
		nameplate: n,
		state:     defaultState(),
	}
}

func defaultState() State {
	return State{
		AccelTime:        10.0,
		DecelTime:        8.0,
		TargetDirection:  Forward,
		CurrentDirection: Forward,
		Temperature:      ambientTemperature,
		Operating:        Stopped,
	}
}

func (d *Drive) Nameplate() Nameplate { return d.nameplate }

// StateSnapshot returns a read-only copy of the drive state.
func (d *Drive) StateSnapshot() State { return d.state }

// OutputSpeed is the shaft speed signed by the active phase sequence.
func (d *Drive) OutputSpeed() float64 {
	return d.state.ShaftSpeed * float64(d.state.CurrentDirection)
}

func (d *Drive) AbsoluteSpeed() float64 { return d.state.ShaftSpeed }

// SpeedPercent is the inverter output relative to its ceiling.
func (d *Drive) SpeedPercent() float64 {
	if d.nameplate.MaxFrequency <= 0 {
		return 0
	}
	return d.state.OutputFrequency / d.nameplate.MaxFrequency * 100
}

// SetRampTimes configures the VFD acceleration and deceleration ramps.
func (d *Drive) SetRampTimes(accel, decel float64) {
	if accel > 0 {
		d.state.AccelTime = accel
	}
	if decel > 0 {
		d.state.DecelTime = decel
	}
}

// SetTargetFrequency requests an inverter output frequency, clamped to
// [0, MaxFrequency]. During a pending reversal the ramp target stays
// pinned at zero and the request is held for after the swap.
func (d *Drive) SetTargetFrequency(hz float64) {
	if d.state.Fault != FaultNone {
		return
	}
	hz = clamp(hz, 0, d.nameplate.MaxFrequency)
	d.requestedHz = hz
	if !d.state.DirectionChangePending {
		d.state.TargetFrequency = hz
	}
}

// SetDirection requests a rotation direction. While the motor is
// moving the request only marks a pending reversal and forces the
// frequency target to zero; the phase sequence swaps in Step once the
// shaft is at standstill.
func (d *Drive) SetDirection(dir Direction) {
	if d.state.Fault != FaultNone {
		return
	}
	d.state.TargetDirection = dir

	if dir == d.state.CurrentDirection {
		if d.state.DirectionChangePending {
			// reversal cancelled, resume the held request
			d.state.DirectionChangePending = false
			d.state.TargetFrequency = d.requestedHz
		}
		return
	}

	if d.state.ShaftSpeed < reversalSpeedEpsilon && d.state.OutputFrequency < reversalFreqEpsilon {
		d.state.CurrentDirection = dir
		return
	}

	d.state.DirectionChangePending = true
	d.state.TargetFrequency = 0
}

// SetLoadTorque sets the torque the mechanical load reflects onto the
// shaft, clamped non-negative.
func (d *Drive) SetLoadTorque(nm float64) {
	if nm < 0 {
		nm = 0
	}
	d.state.LoadTorque = nm
}

// Trip forces the drive into the terminal fault state. The inverter
// output drops immediately; the shaft coasts down in Step.
func (d *Drive) Trip(fault Fault) {
	if fault == FaultNone || d.state.Fault != FaultNone {
		return
	}
	d.state.Fault = fault
	d.state.Operating = Faulted
	d.state.OutputFrequency = 0
	d.state.TargetFrequency = 0
	d.state.Electrical = Electrical{}
	d.state.ElectricalPower = 0
	d.state.OutputTorque = 0
	d.state.MechanicalPower = 0
	d.state.Slip = 0
}

// Reset reconstructs the default state from the nameplate, clearing
// any fault. It is the only way out of the fault state.
func (d *Drive) Reset() {
	d.state = defaultState()
	d.requestedHz = 0
}

// Step advances the drive by dt seconds against the given reflected
// load inertia. It never fails; degraded conditions land in the fault
// and operating enums.
func (d *Drive) Step(dt, reflectedInertia float64) {
	if dt <= 0 {
		return
	}
	s := &d.state

	if s.Fault != FaultNone {
		d.coast(dt)
		return
	}

	// reversal interlock: swap phase sequence only at standstill
	if s.DirectionChangePending && s.ShaftSpeed < reversalSpeedEpsilon && s.OutputFrequency < reversalFreqEpsilon {
		s.CurrentDirection = s.TargetDirection
		s.DirectionChangePending = false
		s.TargetFrequency = d.requestedHz
	}

	d.rampFrequency(dt)
	d.updateShaft(dt, reflectedInertia)

	current := d.estimateCurrent()
	d.synthesizeElectrical(current)

	if current > overcurrentTripRatio*d.nameplate.RatedCurrent {
		d.Trip(FaultOvercurrent)
		return
	}

	d.updateThermal(dt)
	if s.Temperature > maxTemperature {
		d.Trip(FaultOvertemperature)
		return
	}

	d.updateOperating()
	if s.OutputFrequency >= minActiveFrequency {
		s.Runtime += dt
	}
}

// coast is the passive dynamics while tripped: friction decay plus
// thermal relaxation toward ambient.
func (d *Drive) coast(dt float64) {
	s := &d.state
	s.ShaftSpeed *= math.Exp(-faultCoastRate * dt)
	if s.ShaftSpeed < 1e-3 {
		s.ShaftSpeed = 0
	}
	alpha := 1 - math.Exp(-dt/thermalTau)
	s.Temperature += (ambientTemperature - s.Temperature) * alpha
}

// rampFrequency moves the inverter output toward the target at the
// constant trapezoidal rate MaxFrequency/AccelTime (DecelTime down).
func (d *Drive) rampFrequency(dt float64) {
	s := &d.state
	diff := s.TargetFrequency - s.OutputFrequency
	if diff == 0 {
		return
	}

	var rate float64
	if diff > 0 {
		rate = d.nameplate.MaxFrequency / s.AccelTime
		step := rate * dt
		if step > diff {
			step = diff
		}
		s.OutputFrequency += step
	} else {
		rate = d.nameplate.MaxFrequency / s.DecelTime
		step := rate * dt
		if step > -diff {
			step = -diff
		}
		s.OutputFrequency -= step
	}
}

func (d *Drive) updateShaft(dt, reflectedInertia float64) {
	s := &d.state

	sync := d.nameplate.SynchronousSpeed(s.OutputFrequency)
	if sync <= 0 {
		s.Slip = 0
	} else {
		s.Slip = clamp((sync-s.ShaftSpeed)/sync, 0, 1)
	}

	avail := d.availableTorque()
	net := avail - s.LoadTorque

	inertia := d.nameplate.RotorInertia + reflectedInertia
	if inertia > 0 {
		s.ShaftSpeed += net / inertia * dt
	}
	if s.ShaftSpeed < 0 {
		// no reverse spin without an explicit phase-sequence swap
		s.ShaftSpeed = 0
	}

	s.OutputTorque = avail
	s.MechanicalPower = avail * s.ShaftSpeed
}

// availableTorque evaluates the Kloss approximation at the current
// slip, with constant-flux breakdown scaling and a boost below 10 Hz.
func (d *Drive) availableTorque() float64 {
	s := &d.state
	f := s.OutputFrequency
	if f < minActiveFrequency || s.Slip <= 0 {
		return 0
	}

	ratio := f / d.nameplate.RatedFrequency
	tb := d.nameplate.RatedTorque * ratio * ratio * d.nameplate.BreakdownTorqueMult

	torque := 2 * tb * breakdownSlip / (s.Slip + breakdownSlip*breakdownSlip/s.Slip)

	if f < lowFreqBoostHz {
		torque *= 1 + lowFreqTorqueBoost*(1-f/lowFreqBoostHz)
	}
	return torque
}

// estimateCurrent models stator current as no-load magnetizing current
// plus a torque-proportional component, boosted at very low frequency
// where magnetizing current dominates.
func (d *Drive) estimateCurrent() float64 {
	s := &d.state
	if s.OutputFrequency < minActiveFrequency {
		return 0
	}

	noLoad := noLoadCurrentRatio * d.nameplate.RatedCurrent
	torqueRatio := 0.0
	if d.nameplate.RatedTorque > 0 {
		torqueRatio = s.LoadTorque / d.nameplate.RatedTorque
	}
	current := noLoad + (d.nameplate.RatedCurrent-noLoad)*math.Min(torqueRatio, 1.5)

	freqRatio := s.OutputFrequency / d.nameplate.RatedFrequency
	if freqRatio < 0.2 {
		current *= 1 + magnetizingBoost*(1-freqRatio/0.2)
	}
	return current
}

func (d *Drive) updateThermal(dt float64) {
	s := &d.state

	losses := s.ElectricalPower - s.MechanicalPower
	if losses < 0 {
		losses = 0
	}
	target := ambientTemperature + maxTemperatureRise*losses/d.nameplate.RatedLosses()

	alpha := 1 - math.Exp(-dt/thermalTau)
	s.Temperature += (target - s.Temperature) * alpha
}

func (d *Drive) updateOperating() {
	s := &d.state
	switch {
	case s.OutputFrequency < minActiveFrequency && s.ShaftSpeed < reversalSpeedEpsilon:
		s.Operating = Stopped
	case s.OutputFrequency < s.TargetFrequency-1e-9:
		s.Operating = Accelerating
	case s.OutputFrequency > s.TargetFrequency+1e-9:
		s.Operating = Decelerating
	default:
		s.Operating = Running
	}
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
