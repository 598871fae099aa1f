package engine

import (
	"math"
	"reflect"
	"testing"

	"github.com/ivanstan/hully-gully-sub000/internal/motor"
)

func testConfig(mode DriveMode) Config {
	return Config{
		PlatformRadius:  10.0,
		WindmillRadius:  4.0,
		PivotRadius:     6.0,
		SecondaryOffset: 1.5,
		MinTiltAngle:    0,
		MaxTiltAngle:    0.52,
		CabinCount:      8,
		FixedTimestep:   0.01,
		PlatformRampTau: 3.0,
		WindmillRampTau: 2.0,
		TiltRampTau:     4.0,
		DriveMode:       mode,
	}
}

func ptr(v float64) *float64 { return &v }

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero timestep", func(c *Config) { c.FixedTimestep = 0 }},
		{"no cabins", func(c *Config) { c.CabinCount = 0 }},
		{"inverted tilt range", func(c *Config) { c.MinTiltAngle = 1; c.MaxTiltAngle = 0 }},
		{"zero ramp tau", func(c *Config) { c.TiltRampTau = 0 }},
		{"zero platform radius", func(c *Config) { c.PlatformRadius = 0 }},
		{"zero windmill radius", func(c *Config) { c.WindmillRadius = 0 }},
		{"pivot outside platform", func(c *Config) { c.PivotRadius = c.PlatformRadius + 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(ModeRamp)
			tt.mutate(&cfg)
			if _, err := New(cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestPhasesStayWrapped(t *testing.T) {
	e, err := New(testConfig(ModeRamp))
	if err != nil {
		t.Fatal(err)
	}

	e.UpdateControls(ControlInput{
		PlatformSpeed: ptr(2.0),
		WindmillSpeed: ptr(5.0),
		TiltAngle:     ptr(0.4),
	})

	for i := 0; i < 20000; i++ {
		e.Step(0.05)
		s := e.Snapshot()
		if s.PlatformPhase < 0 || s.PlatformPhase >= 2*math.Pi {
			t.Fatalf("platform phase out of range: %f", s.PlatformPhase)
		}
		if s.WindmillPhase < 0 || s.WindmillPhase >= 2*math.Pi {
			t.Fatalf("windmill phase out of range: %f", s.WindmillPhase)
		}
	}
}

func TestTiltTargetClamped(t *testing.T) {
	e, _ := New(testConfig(ModeRamp))

	e.UpdateControls(ControlInput{TiltAngle: ptr(10.0)})
	if got := e.Snapshot().Tilt.TargetTiltAngle; got != 0.52 {
		t.Errorf("expected clamp to max tilt, got %f", got)
	}

	e.UpdateControls(ControlInput{TiltAngle: ptr(-3.0)})
	if got := e.Snapshot().Tilt.TargetTiltAngle; got != 0 {
		t.Errorf("expected clamp to min tilt, got %f", got)
	}
}

func TestUpdateControlsSetsTargetsOnly(t *testing.T) {
	e, _ := New(testConfig(ModeRamp))

	e.UpdateControls(ControlInput{PlatformSpeed: ptr(1.5)})

	s := e.Snapshot()
	if s.Platform.TargetAngularVelocity != 1.5 {
		t.Errorf("expected target 1.5, got %f", s.Platform.TargetAngularVelocity)
	}
	if s.Platform.AngularVelocity != 0 {
		t.Error("commands must never touch the instantaneous rate")
	}
}

func TestResetIsIdempotent(t *testing.T) {
	e, _ := New(testConfig(ModeRamp))
	e.UpdateControls(ControlInput{PlatformSpeed: ptr(1.0), WindmillSpeed: ptr(2.0), TiltAngle: ptr(0.3)})
	for i := 0; i < 500; i++ {
		e.Step(0.01)
	}

	e.Reset()
	first := e.Snapshot()
	e.Reset()
	second := e.Snapshot()

	if !reflect.DeepEqual(first, second) {
		t.Error("consecutive resets must yield identical state")
	}
	if first.Time != 0 || first.PlatformPhase != 0 || first.WindmillPhase != 0 {
		t.Error("reset must zero time and phases")
	}
}

func TestDeterminism(t *testing.T) {
	run := func() State {
		e, _ := New(testConfig(ModeMotor))
		e.UpdateControls(ControlInput{PlatformSpeed: ptr(0.5), WindmillSpeed: ptr(1.0), TiltAngle: ptr(0.4)})
		e.StartHydraulicMotor()
		for i := 0; i < 3000; i++ {
			e.Step(0.01)
			if i == 1500 {
				e.UpdateControls(ControlInput{WindmillDirection: ptr(-1.0)})
			}
		}
		return e.Snapshot()
	}

	if !reflect.DeepEqual(run(), run()) {
		t.Error("identical step sequences must produce bit-identical trajectories")
	}
}

func TestMotorModeReachesCommandedSpeed(t *testing.T) {
	e, _ := New(testConfig(ModeMotor))
	e.UpdateControls(ControlInput{PlatformSpeed: ptr(0.5), WindmillSpeed: ptr(1.0)})

	for i := 0; i < 6000; i++ {
		e.Step(0.01)
	}

	s := e.Snapshot()
	if math.Abs(s.Platform.AngularVelocity-0.5) > 0.05 {
		t.Errorf("platform should settle near 0.5 rad/s, got %f", s.Platform.AngularVelocity)
	}
	if math.Abs(s.Windmill.AngularVelocity-1.0) > 0.1 {
		t.Errorf("windmill should settle near 1.0 rad/s, got %f", s.Windmill.AngularVelocity)
	}
}

func TestRampModeReachesCommandedSpeed(t *testing.T) {
	e, _ := New(testConfig(ModeRamp))
	e.UpdateControls(ControlInput{PlatformSpeed: ptr(0.6), PlatformDirection: ptr(-1.0)})

	for i := 0; i < 3000; i++ {
		e.Step(0.01)
	}

	if got := e.Snapshot().Platform.AngularVelocity; math.Abs(got-(-0.6)) > 0.01 {
		t.Errorf("expected -0.6 rad/s after ramp, got %f", got)
	}
}

func TestEmergencyStopWindsDown(t *testing.T) {
	e, _ := New(testConfig(ModeMotor))
	e.UpdateControls(ControlInput{PlatformSpeed: ptr(0.5), WindmillSpeed: ptr(1.0)})
	for i := 0; i < 4000; i++ {
		e.Step(0.01)
	}

	e.EmergencyStopMotors()
	for i := 0; i < 4000; i++ {
		e.Step(0.01)
	}

	s := e.Snapshot()
	if math.Abs(s.Platform.AngularVelocity) > 0.02 {
		t.Errorf("platform still moving after e-stop: %f", s.Platform.AngularVelocity)
	}
	if math.Abs(s.Windmill.AngularVelocity) > 0.02 {
		t.Errorf("windmill still moving after e-stop: %f", s.Windmill.AngularVelocity)
	}
	if e.PlatformMotorState().Fault != motor.FaultNone {
		t.Error("e-stop must not trip faults")
	}
}

func TestPowerLossCoastDown(t *testing.T) {
	e, _ := New(testConfig(ModeMotor))
	e.UpdateControls(ControlInput{PlatformSpeed: ptr(0.5), WindmillSpeed: ptr(1.0)})
	for i := 0; i < 4000; i++ {
		e.Step(0.01)
	}

	e.SimulatePowerLoss()

	for _, ms := range []motor.State{e.PlatformMotorState(), e.WindmillMotorState(), e.HydraulicMotorState()} {
		if ms.Fault != motor.FaultPhaseLoss {
			t.Fatalf("expected phase-loss fault, got %v", ms.Fault)
		}
	}

	for i := 0; i < 6000; i++ {
		e.Step(0.01)
	}
	s := e.Snapshot()
	if math.Abs(s.Platform.AngularVelocity) > 1e-3 {
		t.Errorf("platform should coast to rest, got %f", s.Platform.AngularVelocity)
	}

	e.ResetMotorFaults()
	if e.PlatformMotorState().Fault != motor.FaultNone {
		t.Error("fault reset must clear the trip")
	}
}

func TestUpdateDrainsFixedSteps(t *testing.T) {
	e, _ := New(testConfig(ModeRamp))
	e.Start()

	e.Update(0) // anchor
	if steps := e.Update(0.105); steps != 10 {
		t.Errorf("expected 10 steps for 0.105 s at dt=0.01, got %d", steps)
	}
	if steps := e.Update(0.115); steps != 1 {
		t.Errorf("expected 1 step carrying remainder, got %d", steps)
	}
}

func TestUpdateCadenceIndependence(t *testing.T) {
	regular, _ := New(testConfig(ModeRamp))
	regular.UpdateControls(ControlInput{PlatformSpeed: ptr(1.0), WindmillSpeed: ptr(2.0)})
	irregular, _ := New(testConfig(ModeRamp))
	irregular.UpdateControls(ControlInput{PlatformSpeed: ptr(1.0), WindmillSpeed: ptr(2.0)})

	regular.Start()
	irregular.Start()
	regular.Update(0)
	irregular.Update(0)

	stepsA := 0
	for now := 0.02; now <= 1.0+1e-9; now += 0.02 {
		stepsA += regular.Update(now)
	}

	wall := []float64{0.013, 0.05, 0.051, 0.2, 0.33, 0.45, 0.7, 0.71, 0.99, 1.0}
	stepsB := 0
	for _, now := range wall {
		stepsB += irregular.Update(now)
	}

	if diff := stepsA - stepsB; diff < -1 || diff > 1 {
		t.Errorf("step counts differ by more than 1: %d vs %d", stepsA, stepsB)
	}

	ta := regular.Snapshot().Time
	tb := irregular.Snapshot().Time
	if math.Abs(ta-tb) > regular.Config().FixedTimestep+1e-9 {
		t.Errorf("simulated time diverged: %f vs %f", ta, tb)
	}
}

func TestPauseHaltsDrain(t *testing.T) {
	e, _ := New(testConfig(ModeRamp))
	e.Start()
	e.Update(0)
	e.Update(0.5)

	t0 := e.Snapshot().Time
	e.Pause()
	if steps := e.Update(5.0); steps != 0 {
		t.Errorf("paused engine must not step, got %d", steps)
	}

	e.Resume()
	e.Update(6.0) // re-anchor
	e.Update(6.1)

	if got := e.Snapshot().Time; math.Abs(got-t0-0.1) > 0.011 {
		t.Errorf("expected ~0.1 s progress after resume, got %f", got-t0)
	}
}

func TestGearHelperRoundTrip(t *testing.T) {
	e, _ := New(testConfig(ModeMotor))

	for _, omega := range []float64{0.1, 0.3, 0.5} {
		hz := e.PlatformFrequencyFor(omega)
		back := e.PlatformSpeedFor(hz)
		if math.Abs(back-omega) > 1e-9 {
			t.Errorf("platform round trip %f -> %f Hz -> %f", omega, hz, back)
		}
	}

	hz := e.WindmillFrequencyFor(1.2)
	if back := e.WindmillSpeedFor(hz); math.Abs(back-1.2) > 1e-9 {
		t.Errorf("windmill round trip drifted: %f", back)
	}
}

func TestCabinCountAndRecomputation(t *testing.T) {
	e, _ := New(testConfig(ModeRamp))
	s := e.Snapshot()
	if len(s.Cabins) != 8 {
		t.Fatalf("expected 8 cabins, got %d", len(s.Cabins))
	}

	// at rest every cabin reads one g
	for i, c := range s.Cabins {
		if math.Abs(c.GForce-1.0) > 1e-6 {
			t.Errorf("cabin %d at rest should read 1 g, got %f", i, c.GForce)
		}
	}

	// snapshots are copies, not views
	s.Cabins[0].GForce = 99
	if e.Snapshot().Cabins[0].GForce == 99 {
		t.Error("snapshot must not alias engine-owned state")
	}
}
