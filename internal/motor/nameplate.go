package motor

import "math"

// Nameplate is the immutable rating data of one induction motor, as it
// would appear on the physical plate.
type Nameplate struct {
	RatedPower     float64 // W
	RatedVoltage   float64 // V line-to-line
	RatedFrequency float64 // Hz
	RatedCurrent   float64 // A
	Poles          int
	PowerFactor    float64
	Efficiency     float64
	RatedTorque    float64 // Nm

	StartingTorqueMult  float64
	BreakdownTorqueMult float64
	StartingCurrentMult float64

	RotorInertia float64 // kg·m²
	MaxFrequency float64 // Hz, VFD output ceiling
}

// NewPlatformNameplate rates the primary platform drive.
func NewPlatformNameplate() Nameplate {
	return Nameplate{
		RatedPower:          15000,
		RatedVoltage:        400,
		RatedFrequency:      50,
		RatedCurrent:        29,
		Poles:               4,
		PowerFactor:         0.85,
		Efficiency:          0.91,
		RatedTorque:         97,
		StartingTorqueMult:  2.2,
		BreakdownTorqueMult: 2.8,
		StartingCurrentMult: 6.5,
		RotorInertia:        0.12,
		MaxFrequency:        60,
	}
}

// NewWindmillNameplate rates the windmill disc drive.
func NewWindmillNameplate() Nameplate {
	return Nameplate{
		RatedPower:          11000,
		RatedVoltage:        400,
		RatedFrequency:      50,
		RatedCurrent:        21,
		Poles:               4,
		PowerFactor:         0.84,
		Efficiency:          0.90,
		RatedTorque:         71,
		StartingTorqueMult:  2.3,
		BreakdownTorqueMult: 2.9,
		StartingCurrentMult: 6.8,
		RotorInertia:        0.09,
		MaxFrequency:        60,
	}
}

// NewHydraulicNameplate rates the tilt pump drive.
func NewHydraulicNameplate() Nameplate {
	return Nameplate{
		RatedPower:          7500,
		RatedVoltage:        400,
		RatedFrequency:      50,
		RatedCurrent:        15,
		Poles:               2,
		PowerFactor:         0.86,
		Efficiency:          0.89,
		RatedTorque:         24,
		StartingTorqueMult:  1.8,
		BreakdownTorqueMult: 2.5,
		StartingCurrentMult: 7.0,
		RotorInertia:        0.04,
		MaxFrequency:        50,
	}
}

// SynchronousSpeed is the stator field speed in rad/s at the given
// supply frequency.
func (n Nameplate) SynchronousSpeed(frequency float64) float64 {
	if n.Poles == 0 {
		return 0
	}
	rpm := 120 * frequency / float64(n.Poles)
	return rpm * 2 * math.Pi / 60
}

// RatedLosses is the dissipation budget at nameplate operating point.
func (n Nameplate) RatedLosses() float64 {
	if n.Efficiency <= 0 || n.Efficiency >= 1 {
		return n.RatedPower * 0.1
	}
	return n.RatedPower * (1/n.Efficiency - 1)
}
