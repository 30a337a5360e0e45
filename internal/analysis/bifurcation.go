package analysis

import "math"

// BifurcationPoint holds the distinct late-time peaks of one run.
type BifurcationPoint struct {
	Param  float64
	Values []float64
}

// Bifurcation collects, for each swept parameter value, the distinct local
// maxima of its series after the leading transient fraction is discarded.
// A single value means the run settled into one orbit or a fixed point;
// several mean it wanders. Peaks closer than 1e-3 count as one.
func Bifurcation(params []float64, series [][]float64, transient float64) []BifurcationPoint {
	n := min(len(params), len(series))
	transient = math.Max(0, math.Min(transient, 1))

	out := make([]BifurcationPoint, 0, n)
	for i := 0; i < n; i++ {
		values := series[i]
		tail := values[int(transient*float64(len(values))):]

		peaks := LocalMaxima(tail)
		if len(peaks) == 0 && len(tail) > 0 {
			// no turning point: record where the run ended up
			peaks = []float64{tail[len(tail)-1]}
		}

		seen := make(map[int64]bool)
		distinct := make([]float64, 0, len(peaks))
		for _, v := range peaks {
			key := int64(math.Round(v * 1000))
			if !seen[key] {
				seen[key] = true
				distinct = append(distinct, v)
			}
		}
		out = append(out, BifurcationPoint{Param: params[i], Values: distinct})
	}
	return out
}

// LocalMaxima returns the values strictly greater than both neighbours.
func LocalMaxima(values []float64) []float64 {
	var peaks []float64
	for i := 1; i+1 < len(values); i++ {
		if values[i] > values[i-1] && values[i] > values[i+1] {
			peaks = append(peaks, values[i])
		}
	}
	return peaks
}

// BifurcationToASCII plots parameter against peak values.
func BifurcationToASCII(data []BifurcationPoint, width, height int) string {
	portrait := &PhasePortrait{XLabel: "param", YLabel: "peak"}
	for _, p := range data {
		for _, v := range p.Values {
			portrait.Points = append(portrait.Points, Point{X: p.Param, Y: v})
		}
	}
	return PhasePortraitToASCII(portrait, width, height)
}
