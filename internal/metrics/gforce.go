package metrics

import "math"

// PeakGForce tracks the highest g-load any cabin sees during a run.
type PeakGForce struct {
	peak float64
}

func NewPeakGForce() *PeakGForce {
	return &PeakGForce{}
}

func (m *PeakGForce) Name() string { return "peak_gforce" }

func (m *PeakGForce) Observe(s Sample) {
	for _, c := range s.State.Cabins {
		if c.GForce > m.peak {
			m.peak = c.GForce
		}
	}
}

func (m *PeakGForce) Value() float64 { return m.peak }
func (m *PeakGForce) Reset()         { m.peak = 0 }

// Smoothness is the mean absolute g-force change per observation on
// cabin 0; lower is a gentler ride.
type Smoothness struct {
	prev    float64
	sum     float64
	samples int
}

func NewSmoothness() *Smoothness {
	return &Smoothness{}
}

func (m *Smoothness) Name() string { return "smoothness" }

func (m *Smoothness) Observe(s Sample) {
	if len(s.State.Cabins) == 0 {
		return
	}
	g := s.State.Cabins[0].GForce
	if m.samples > 0 {
		m.sum += math.Abs(g - m.prev)
	}
	m.prev = g
	m.samples++
}

func (m *Smoothness) Value() float64 {
	if m.samples < 2 {
		return 0
	}
	return m.sum / float64(m.samples-1)
}

func (m *Smoothness) Reset() {
	m.prev = 0
	m.sum = 0
	m.samples = 0
}
