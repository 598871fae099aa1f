// Package kinematics derives cabin motion from the ride's nested rotating
// frames: a yawing primary platform, a tilting pivot, and the spinning
// windmill disc carrying the cabins. All functions are pure; the caller
// passes the full frame pose each tick.
package kinematics

import "math"

const (
	// Gravity is standard gravity in m/s².
	Gravity = 9.81

	// diffStep is the central-difference step used for numerical
	// velocity and acceleration. Composing the three rotations has no
	// convenient closed-form derivative once the tilt is time-varying.
	diffStep = 1e-4

	radialEpsilon = 1e-10
)

// Geometry fixes a cabin's mounting on the windmill disc.
type Geometry struct {
	Angle    float64 // mounting angle on the disc, rad
	Distance float64 // distance from the disc center, m
}

// Frame is the instantaneous pose and rates of the superposed frames.
// Explicit struct rather than closures over shared config so every
// transform stays a pure function of its arguments.
type Frame struct {
	PlatformPhase   float64
	PlatformOmega   float64
	WindmillPhase   float64
	WindmillOmega   float64
	TiltAngle       float64
	TiltRate        float64
	PivotRadius     float64
	SecondaryOffset float64
}

func (f Frame) at(s float64) Frame {
	f.PlatformPhase += f.PlatformOmega * s
	f.WindmillPhase += f.WindmillOmega * s
	f.TiltAngle += f.TiltRate * s
	return f
}

// CabinState is fully derived: a pure function of geometry and frame,
// recomputed every tick and never accumulated.
type CabinState struct {
	Position     Vec3
	Velocity     Vec3
	Acceleration Vec3

	RadialAccel     float64
	TangentialAccel float64
	TotalAccel      float64
	GForce          float64
}

// CabinPosition maps a cabin through disc-local polar coordinates, the
// tilt rotation about the pivot axis, and the platform yaw, into world
// space.
func CabinPosition(g Geometry, f Frame) Vec3 {
	disc := g.Angle + f.WindmillPhase

	// point on the windmill disc: x outward along the pivot radial,
	// z tangential, offset by the secondary platform center
	dx := f.SecondaryOffset + g.Distance*math.Cos(disc)
	dz := g.Distance * math.Sin(disc)

	// tilt about the tangential axis through the pivot point
	sinT, cosT := math.Sin(f.TiltAngle), math.Cos(f.TiltAngle)
	px := f.PivotRadius + dx*cosT
	py := dx * sinT
	pz := dz

	// platform yaw about the vertical axis
	sinP, cosP := math.Sin(f.PlatformPhase), math.Cos(f.PlatformPhase)
	return Vec3{
		X: px*cosP - pz*sinP,
		Y: py,
		Z: px*sinP + pz*cosP,
	}
}

func velocityAt(g Geometry, f Frame, s float64) Vec3 {
	behind := CabinPosition(g, f.at(s-diffStep/2))
	ahead := CabinPosition(g, f.at(s+diffStep/2))
	return ahead.Sub(behind).Scale(1 / diffStep)
}

// CabinVelocity is the central finite difference of CabinPosition along
// the frame rates.
func CabinVelocity(g Geometry, f Frame) Vec3 {
	return velocityAt(g, f, 0)
}

// CabinAcceleration applies the same differencing to the velocity.
func CabinAcceleration(g Geometry, f Frame) Vec3 {
	behind := velocityAt(g, f, -diffStep/2)
	ahead := velocityAt(g, f, diffStep/2)
	return ahead.Sub(behind).Scale(1 / diffStep)
}

// DecomposeAcceleration projects acc onto the horizontal radial unit
// vector through pos and its perpendicular tangential direction. A cabin
// sitting on the world axis has no defined radial direction; everything
// is reported as tangential there.
func DecomposeAcceleration(acc, pos Vec3) (radial, tangential float64) {
	r := math.Sqrt(pos.X*pos.X + pos.Z*pos.Z)
	if r < radialEpsilon {
		return 0, acc.Norm()
	}
	ux, uz := pos.X/r, pos.Z/r
	radial = acc.X*ux + acc.Z*uz
	tangential = -acc.X*uz + acc.Z*ux
	return radial, tangential
}

// GForce normalizes an acceleration magnitude by standard gravity.
func GForce(acc Vec3) float64 {
	return acc.Norm() / Gravity
}

// CabinPhysics assembles a full CabinState. The g-force uses the proper
// acceleration (kinematic acceleration minus gravity), which is what a
// rider and the seat load cells actually feel.
func CabinPhysics(g Geometry, f Frame) CabinState {
	pos := CabinPosition(g, f)
	vel := CabinVelocity(g, f)
	acc := CabinAcceleration(g, f)

	radial, tangential := DecomposeAcceleration(acc, pos)
	proper := acc.Sub(Vec3{Y: -Gravity})

	return CabinState{
		Position:        pos,
		Velocity:        vel,
		Acceleration:    acc,
		RadialAccel:     radial,
		TangentialAccel: tangential,
		TotalAccel:      acc.Norm(),
		GForce:          GForce(proper),
	}
}
