package engine

import "github.com/ivanstan/hully-gully-sub000/internal/kinematics"

// RotorState is the kinematic condition of one rotating stage. The
// target fields are what the operator commands; the instantaneous
// angular velocity only ever approaches them through ramping.
type RotorState struct {
	AngularVelocity       float64 // rad/s, signed
	Direction             float64 // +1 forward, -1 reverse
	TargetAngularVelocity float64 // rad/s, magnitude
}

// TiltState is the hydraulic tilt actuator condition.
type TiltState struct {
	PivotRadius     float64
	TiltAngle       float64
	TargetTiltAngle float64
	SecondaryOffset float64
}

// State is the aggregate simulation state, owned exclusively by the
// Engine and mutated in place every tick. Snapshot hands out copies.
type State struct {
	Time float64

	Platform RotorState
	Windmill RotorState
	Tilt     TiltState

	PlatformPhase float64 // [0, 2π)
	WindmillPhase float64 // [0, 2π)

	Cabins []kinematics.CabinState
}

func (s *State) clone() State {
	c := *s
	c.Cabins = make([]kinematics.CabinState, len(s.Cabins))
	copy(c.Cabins, s.Cabins)
	return c
}
