// Package metrics aggregates per-tick ride observations into summary
// figures reported at the end of a run.
package metrics

import (
	"github.com/ivanstan/hully-gully-sub000/internal/engine"
	"github.com/ivanstan/hully-gully-sub000/internal/motor"
)

// Sample is one tick's worth of observable state.
type Sample struct {
	State     engine.State
	Platform  motor.State
	Windmill  motor.State
	Hydraulic motor.State
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}
