package motor

import "math"

const twoPiOverThree = 2 * math.Pi / 3

// synthesizeElectrical builds the three-phase output snapshot from the
// V/Hz law and the current estimate. Reverse rotation swaps phases B
// and C; that swap is what physically reverses an induction motor.
func (d *Drive) synthesizeElectrical(current float64) {
	s := &d.state
	f := s.OutputFrequency

	var volts float64
	if f >= minActiveFrequency {
		volts = d.nameplate.RatedVoltage * f / d.nameplate.RatedFrequency
		if f < lowFreqBoostHz {
			volts += voltageBoostRatio * d.nameplate.RatedVoltage * (1 - f/lowFreqBoostHz)
		}
		if volts > d.nameplate.RatedVoltage {
			volts = d.nameplate.RatedVoltage
		}
	}

	phaseVolts := volts / math.Sqrt(3)

	pf := d.nameplate.PowerFactor
	if current == 0 || phaseVolts == 0 {
		pf = 0
	}
	phi := math.Acos(clamp(d.nameplate.PowerFactor, 0, 1))

	angleB, angleC := -twoPiOverThree, twoPiOverThree
	if s.CurrentDirection == Reverse {
		angleB, angleC = angleC, angleB
	}

	perPhase := phaseVolts * current * pf

	s.Electrical = Electrical{
		PhaseA: PhaseSnapshot{Voltage: phaseVolts, Current: current, Angle: 0, Power: perPhase},
		PhaseB: PhaseSnapshot{Voltage: phaseVolts, Current: current, Angle: angleB, Power: perPhase},
		PhaseC: PhaseSnapshot{Voltage: phaseVolts, Current: current, Angle: angleC, Power: perPhase},

		RealPower:     3 * perPhase,
		ApparentPower: 3 * phaseVolts * current,
		ReactivePower: 3 * phaseVolts * current * math.Sin(phi),
		PowerFactor:   pf,
	}
	s.ElectricalPower = s.Electrical.RealPower
}
