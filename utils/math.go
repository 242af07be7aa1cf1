// Package utils contains shared math and concurrency helpers.
package utils

import "math"

func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// NormalizeRadian maps an angle into the half-open interval [min, min+2π).
func NormalizeRadian(value, min float64) float64 {
	v := math.Mod(value-min, 2*math.Pi)
	if v < 0 {
		v += 2 * math.Pi
	}
	return v + min
}

// ClampInt limits n to the interval [min, max].
func ClampInt(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
