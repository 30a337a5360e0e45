package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/wheelsim/internal/wheelpole"
)

// SeparationRate estimates the largest Lyapunov exponent of the unforced
// pendulum started at x0. Two models run side by side, the second offset by
// perturbation in theta_rod; after every step the separation is measured
// and pulled back to the initial distance.
//
//	λ ≈ 1/(n·dt) · Σ ln(|δx_k| / |δx_0|)
//
// A positive value means nearby starts diverge exponentially.
func SeparationRate(p wheelpole.Params, x0 wheelpole.State, steps int, perturbation float64) (float64, error) {
	if steps < 1 {
		return 0, errors.New("analysis: steps must be positive")
	}
	if perturbation <= 0 {
		return 0, errors.New("analysis: perturbation must be positive")
	}

	ref, err := wheelpole.New(p, nil)
	if err != nil {
		return 0, err
	}
	off, err := wheelpole.New(p, nil)
	if err != nil {
		return 0, err
	}

	ref.SetState(x0)
	shifted := x0
	shifted.Rod += perturbation
	off.SetState(shifted)

	sumLog := 0.0
	for i := 0; i < steps; i++ {
		if _, _, _, err := ref.Step(0); err != nil {
			return 0, err
		}
		if _, _, _, err := off.Step(0); err != nil {
			return 0, err
		}

		a, b := ref.State(), off.State()
		d := delta(a, b)
		sep := math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2] + d[3]*d[3])
		if sep == 0 {
			continue
		}
		sumLog += math.Log(sep / perturbation)

		scale := perturbation / sep
		off.SetState(wheelpole.State{
			Rod:      a.Rod + d[0]*scale,
			Wheel:    a.Wheel + d[1]*scale,
			RodDot:   a.RodDot + d[2]*scale,
			WheelDot: a.WheelDot + d[3]*scale,
		})
	}

	return sumLog / (float64(steps) * p.Dt), nil
}

// delta is b-a with angle differences taken the short way round.
func delta(a, b wheelpole.State) [4]float64 {
	return [4]float64{
		wheelpole.NormalizeAngle(b.Rod - a.Rod),
		wheelpole.NormalizeAngle(b.Wheel - a.Wheel),
		b.RodDot - a.RodDot,
		b.WheelDot - a.WheelDot,
	}
}
