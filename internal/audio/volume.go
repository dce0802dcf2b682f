package audio

import "math"

const (
	volumeCurveExponent = 0.5
	minVolumeDB         = -10.0
)

// levelToExponent maps a linear level in [0,1] onto the base-2 exponent
// effects.Volume expects, with a perceptual curve.
func levelToExponent(level float64) float64 {
	if level <= 0 {
		return minVolumeDB
	}
	if level >= 1 {
		return 0
	}
	adjusted := math.Pow(level, volumeCurveExponent)
	return (1.0 - adjusted) * minVolumeDB
}
