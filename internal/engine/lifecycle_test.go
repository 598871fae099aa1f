package engine_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ivanstan/hully-gully-sub000/internal/engine"
	"github.com/ivanstan/hully-gully-sub000/internal/motor"
)

func rideConfig() engine.Config {
	return engine.Config{
		PlatformRadius:  10.0,
		WindmillRadius:  4.0,
		PivotRadius:     6.0,
		SecondaryOffset: 1.5,
		MaxTiltAngle:    0.52,
		CabinCount:      8,
		FixedTimestep:   0.01,
		PlatformRampTau: 3.0,
		WindmillRampTau: 2.0,
		TiltRampTau:     4.0,
		DriveMode:       engine.ModeMotor,
	}
}

func speed(v float64) *float64 { return &v }

var _ = Describe("ride lifecycle", func() {
	var e *engine.Engine

	BeforeEach(func() {
		var err error
		e, err = engine.New(rideConfig())
		Expect(err).NotTo(HaveOccurred())
	})

	spinUp := func() {
		e.UpdateControls(engine.ControlInput{
			PlatformSpeed: speed(0.5),
			WindmillSpeed: speed(1.0),
		})
		for i := 0; i < 3000; i++ {
			e.Step(0.01)
		}
	}

	It("stays inert until started", func() {
		Expect(e.Update(1.0)).To(BeZero())
		Expect(e.Snapshot().Time).To(BeZero())
	})

	It("steps once started and holds while paused", func() {
		e.Start()
		e.Update(0)
		// wall-clock deltas are not exactly representable in binary, so
		// the drain count is only guaranteed to within one step
		Expect(e.Update(0.1)).To(BeNumerically("~", 10, 1))

		e.Pause()
		Expect(e.Update(10.0)).To(BeZero())

		e.Resume()
		e.Update(10.5)
		Expect(e.Update(10.6)).To(BeNumerically("~", 10, 1))
	})

	Describe("reset", func() {
		It("returns the ride to the configured rest state", func() {
			spinUp()
			e.Reset()

			s := e.Snapshot()
			Expect(s.Time).To(BeZero())
			Expect(s.PlatformPhase).To(BeZero())
			Expect(s.WindmillPhase).To(BeZero())
			Expect(s.Platform.AngularVelocity).To(BeZero())
		})

		It("does not clear motor faults", func() {
			spinUp()
			e.SimulatePowerLoss()
			e.Reset()

			Expect(e.PlatformMotorState().Fault).To(Equal(motor.FaultPhaseLoss))
			Expect(e.WindmillMotorState().Fault).To(Equal(motor.FaultPhaseLoss))
			Expect(e.HydraulicMotorState().Fault).To(Equal(motor.FaultPhaseLoss))
		})

		It("pairs with ResetMotorFaults for a full restart", func() {
			spinUp()
			e.SimulatePowerLoss()
			e.Reset()
			e.ResetMotorFaults()

			Expect(e.PlatformMotorState().Fault).To(Equal(motor.FaultNone))
			Expect(e.PlatformMotorState().Operating).To(Equal(motor.Stopped))
		})
	})

	Describe("power loss drill", func() {
		It("trips every drive and coasts the ride down", func() {
			spinUp()
			Expect(e.Snapshot().Platform.AngularVelocity).To(BeNumerically(">", 0.2))

			e.SimulatePowerLoss()
			for i := 0; i < 6000; i++ {
				e.Step(0.01)
			}

			Expect(e.Snapshot().Platform.AngularVelocity).To(BeNumerically("~", 0, 1e-3))
			Expect(e.PlatformMotorState().Operating).To(Equal(motor.Faulted))
		})

		It("keeps commands inert until faults are reset", func() {
			spinUp()
			e.SimulatePowerLoss()

			e.SetPlatformMotorFrequency(50)
			Expect(e.PlatformMotorState().TargetFrequency).To(BeZero())
		})
	})
})
