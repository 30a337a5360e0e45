package wheelpole

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"
)

// NormalizeAngle maps th to its representative in (-π, π].
//
// Uses a Euclidean modulo, so negative angles wrap the same way as positive
// ones. Angles already in range are returned unchanged.
func NormalizeAngle(th float64) float64 {
	if th > -math.Pi && th <= math.Pi {
		return th
	}
	r := math.Mod(th+math.Pi, 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	r -= math.Pi
	if r <= -math.Pi {
		r += 2 * math.Pi
	}
	return r
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Clip clamps v to the interval.
func Clip(v float64, bounds r1.Interval) float64 {
	return math.Max(math.Min(v, bounds.Max), bounds.Min)
}

// ClipTorque clamps torque to ±limit. A limit of zero or less disables it.
func ClipTorque(torque, limit float64) float64 {
	if limit <= 0 {
		return torque
	}
	return Clip(torque, r1.Interval{Min: -limit, Max: limit})
}
