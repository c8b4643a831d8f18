// Package turnout models day-to-day crowd turnout as a smooth noise curve.
// Consecutive days get similar turnout; the curve is fixed by the save seed.
package turnout

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

const octaves = 3

// Curve maps a festival day to a turnout factor in [1-amplitude, 1+amplitude].
type Curve struct {
	noise     opensimplex.Noise
	frequency float64
	amplitude float64
}

// New creates a curve. Amplitude is clamped to [0, 0.5] so the factor never
// drops below one half.
func New(seed int64, frequency, amplitude float64) *Curve {
	if amplitude < 0 {
		amplitude = 0
	}
	if amplitude > 0.5 {
		amplitude = 0.5
	}
	return &Curve{
		noise:     opensimplex.NewNormalized(seed),
		frequency: frequency,
		amplitude: amplitude,
	}
}

// Factor returns the turnout multiplier for day.
func (c *Curve) Factor(day int) float64 {
	n := octaveNoise(c.noise, float64(day), 0.5, c.frequency)
	return 1 + c.amplitude*(2*n-1)
}

// Scale applies the day's factor to n, rounding to the nearest integer.
func (c *Curve) Scale(n, day int) int {
	return int(math.Round(float64(n) * c.Factor(day)))
}

// Forecast returns factors for days [from, from+n).
func (c *Curve) Forecast(from, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = c.Factor(from + i)
	}
	return out
}

// octaveNoise layers frequencies; the result stays in [0, 1].
func octaveNoise(noise opensimplex.Noise, x, y, frequency float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= 0.5
		frequency *= 2
	}

	return total / maxVal
}
