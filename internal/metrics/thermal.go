package metrics

// PeakMotorTemperature tracks the hottest any of the three drives got.
type PeakMotorTemperature struct {
	peak float64
}

func NewPeakMotorTemperature() *PeakMotorTemperature {
	return &PeakMotorTemperature{}
}

func (m *PeakMotorTemperature) Name() string { return "peak_motor_temp" }

func (m *PeakMotorTemperature) Observe(s Sample) {
	for _, t := range [3]float64{s.Platform.Temperature, s.Windmill.Temperature, s.Hydraulic.Temperature} {
		if t > m.peak {
			m.peak = t
		}
	}
}

func (m *PeakMotorTemperature) Value() float64 { return m.peak }
func (m *PeakMotorTemperature) Reset()         { m.peak = 0 }
