package kinematics

import (
	"math"
	"testing"
)

func TestCabinPositionFlat(t *testing.T) {
	g := Geometry{Angle: 0, Distance: 4.0}
	f := Frame{PivotRadius: 6.0, SecondaryOffset: 1.5}

	pos := CabinPosition(g, f)

	wantX := 6.0 + 1.5 + 4.0
	if math.Abs(pos.X-wantX) > 1e-12 {
		t.Errorf("expected x=%.3f, got %.3f", wantX, pos.X)
	}
	if math.Abs(pos.Y) > 1e-12 || math.Abs(pos.Z) > 1e-12 {
		t.Errorf("expected cabin in the ground plane, got %+v", pos)
	}
}

func TestCabinPositionTilted(t *testing.T) {
	tilt := 0.3
	g := Geometry{Angle: 0, Distance: 4.0}
	f := Frame{PivotRadius: 6.0, SecondaryOffset: 1.5, TiltAngle: tilt}

	pos := CabinPosition(g, f)

	arm := 1.5 + 4.0
	wantX := 6.0 + arm*math.Cos(tilt)
	wantY := arm * math.Sin(tilt)
	if math.Abs(pos.X-wantX) > 1e-12 {
		t.Errorf("expected x=%.6f, got %.6f", wantX, pos.X)
	}
	if math.Abs(pos.Y-wantY) > 1e-12 {
		t.Errorf("expected y=%.6f, got %.6f", wantY, pos.Y)
	}
}

func TestCabinPositionPlatformYaw(t *testing.T) {
	g := Geometry{Angle: 0, Distance: 2.0}
	f := Frame{PivotRadius: 5.0, PlatformPhase: math.Pi / 2}

	pos := CabinPosition(g, f)

	if math.Abs(pos.X) > 1e-12 {
		t.Errorf("expected x=0 after quarter turn, got %.6f", pos.X)
	}
	if math.Abs(pos.Z-7.0) > 1e-12 {
		t.Errorf("expected z=7, got %.6f", pos.Z)
	}
}

func TestStationaryCabinReadsOneG(t *testing.T) {
	g := Geometry{Angle: 1.1, Distance: 4.0}
	f := Frame{PivotRadius: 6.0, SecondaryOffset: 1.5, TiltAngle: 0.2}

	c := CabinPhysics(g, f)

	if c.Velocity.Norm() > 1e-9 {
		t.Errorf("stationary cabin has velocity %.3e", c.Velocity.Norm())
	}
	if c.TotalAccel > 1e-6 {
		t.Errorf("stationary cabin has acceleration %.3e", c.TotalAccel)
	}
	if math.Abs(c.GForce-1.0) > 1e-6 {
		t.Errorf("stationary cabin should read 1 g, got %.6f", c.GForce)
	}
}

func TestWindmillSpinGForce(t *testing.T) {
	omega := 1.0
	r := 4.0
	g := Geometry{Angle: 0, Distance: r}
	f := Frame{
		PivotRadius:     6.0,
		SecondaryOffset: 1.5,
		WindmillOmega:   omega,
	}

	c := CabinPhysics(g, f)

	centripetal := omega * omega * r
	wantG := math.Sqrt(centripetal*centripetal+Gravity*Gravity) / Gravity
	if math.Abs(c.GForce-wantG) > 1e-6 {
		t.Errorf("expected %.8f g, got %.8f", wantG, c.GForce)
	}

	speed := c.Velocity.Norm()
	if math.Abs(speed-omega*r) > 1e-6 {
		t.Errorf("expected speed %.4f, got %.4f", omega*r, speed)
	}
}

func TestPlatformSpinCentripetal(t *testing.T) {
	omega := 0.8
	g := Geometry{Angle: 0, Distance: 3.0}
	f := Frame{
		PivotRadius:     6.0,
		SecondaryOffset: 1.0,
		PlatformOmega:   omega,
	}

	c := CabinPhysics(g, f)

	radius := c.Position.Norm()
	want := omega * omega * radius
	if math.Abs(c.TotalAccel-want) > 1e-6 {
		t.Errorf("expected |a|=%.6f, got %.6f", want, c.TotalAccel)
	}
	// centripetal acceleration points inward
	if c.RadialAccel > -want+1e-6 {
		t.Errorf("expected radial accel ~%.4f, got %.4f", -want, c.RadialAccel)
	}
	if math.Abs(c.TangentialAccel) > 1e-6 {
		t.Errorf("expected no tangential accel at constant rate, got %.3e", c.TangentialAccel)
	}
}

func TestDecomposeAccelerationOriginGuard(t *testing.T) {
	acc := Vec3{X: 1.0, Y: 2.0, Z: 2.0}
	radial, tangential := DecomposeAcceleration(acc, Vec3{})

	if radial != 0 {
		t.Errorf("expected radial 0 at origin, got %f", radial)
	}
	if math.Abs(tangential-3.0) > 1e-12 {
		t.Errorf("expected tangential |acc|=3, got %f", tangential)
	}
}

func TestGForce(t *testing.T) {
	if g := GForce(Vec3{Y: Gravity}); math.Abs(g-1.0) > 1e-12 {
		t.Errorf("expected 1 g, got %f", g)
	}
	if g := GForce(Vec3{}); g != 0 {
		t.Errorf("expected 0 g, got %f", g)
	}
}

func TestCabinPhysicsIsPure(t *testing.T) {
	g := Geometry{Angle: 2.0, Distance: 4.0}
	f := Frame{
		PlatformPhase: 1.2, PlatformOmega: 0.5,
		WindmillPhase: 0.7, WindmillOmega: 1.4,
		TiltAngle: 0.25, TiltRate: 0.05,
		PivotRadius: 6.0, SecondaryOffset: 1.5,
	}

	a := CabinPhysics(g, f)
	b := CabinPhysics(g, f)

	if a != b {
		t.Error("identical inputs must produce identical cabin state")
	}
}
