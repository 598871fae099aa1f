// Package analysis evaluates ride comfort from recorded g-force
// series: oscillation spectrum, dominant excitation frequency, and
// jerk statistics.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/ivanstan/hully-gully-sub000/internal/telemetry"
)

// Spectrum returns the single-sided magnitude spectrum of values
// sampled at sampleRate Hz, with the matching frequency axis. The DC
// bin is included at index 0.
func Spectrum(values []float64, sampleRate float64) (freqs, mags []float64) {
	n := len(values)
	if n < 2 {
		return nil, nil
	}

	bins := fft.FFTReal(values)
	half := n/2 + 1

	freqs = make([]float64, half)
	mags = make([]float64, half)
	for i := 0; i < half; i++ {
		freqs[i] = float64(i) * sampleRate / float64(n)
		mags[i] = cmplx.Abs(bins[i]) / float64(n)
	}
	return freqs, mags
}

// DominantFrequency is the non-DC spectral peak of the series, in Hz.
func DominantFrequency(values []float64, sampleRate float64) float64 {
	freqs, mags := Spectrum(values, sampleRate)
	if len(mags) < 2 {
		return 0
	}

	best := 1
	for i := 2; i < len(mags); i++ {
		if mags[i] > mags[best] {
			best = i
		}
	}
	return freqs[best]
}

// ComfortReport summarizes one recorded run for commissioning.
type ComfortReport struct {
	Samples    int
	PeakGForce float64
	MeanGForce float64
	RMSJerk    float64 // g/s, from the max-g series
	DominantHz float64 // dominant cabin excitation
	SampleRate float64 // Hz of the recorded series
}

// Evaluate builds a comfort report from a recorded series.
func Evaluate(rows []telemetry.Row) ComfortReport {
	if len(rows) < 2 {
		return ComfortReport{Samples: len(rows)}
	}

	dt := rows[1].Time - rows[0].Time
	if dt <= 0 {
		return ComfortReport{Samples: len(rows)}
	}
	rate := 1 / dt

	g := make([]float64, len(rows))
	peak, sum := 0.0, 0.0
	for i, r := range rows {
		g[i] = r.MaxGForce
		sum += r.MaxGForce
		if r.MaxGForce > peak {
			peak = r.MaxGForce
		}
	}

	jerkSq := 0.0
	for i := 1; i < len(g); i++ {
		d := (g[i] - g[i-1]) / dt
		jerkSq += d * d
	}

	return ComfortReport{
		Samples:    len(rows),
		PeakGForce: peak,
		MeanGForce: sum / float64(len(rows)),
		RMSJerk:    math.Sqrt(jerkSq / float64(len(g)-1)),
		DominantHz: DominantFrequency(g, rate),
		SampleRate: rate,
	}
}
