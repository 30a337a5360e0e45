package analysis

import "math"

// SettlingTime returns the first time after which |values| stays within tol
// for the rest of the record. It returns -1 if the signal never settles.
func SettlingTime(times, values []float64, tol float64) float64 {
	n := len(values)
	if len(times) < n {
		n = len(times)
	}
	if n == 0 {
		return -1
	}

	last := -1
	for i := n - 1; i >= 0; i-- {
		if math.Abs(values[i]) > tol {
			last = i
			break
		}
	}
	if last == n-1 {
		return -1
	}
	return times[last+1]
}

// PeakAbs returns the largest |v| and its index.
func PeakAbs(values []float64) (float64, int) {
	peak, at := 0.0, -1
	for i, v := range values {
		if a := math.Abs(v); a > peak || at < 0 {
			peak, at = a, i
		}
	}
	return peak, at
}
