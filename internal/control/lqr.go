package control

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/wheelsim/internal/wheelpole"
)

// LQR is linear state feedback, torque = K·(x - Target), with x ordered
// (theta_rod, theta_wheel, theta_rod_dot, theta_wheel_dot).
type LQR struct {
	K      [4]float64
	Target wheelpole.State
}

func NewLQR(k [4]float64, target wheelpole.State) *LQR {
	return &LQR{K: k, Target: target}
}

// Gains tuned on the default parameters: closed loop rod poles near
// -3.7 ± 4.1i. The wheel angle is left free.
var uprightGains = [4]float64{3.0, 0.0, 0.5, 0.0}

func NewUprightLQR() *LQR {
	return NewLQR(uprightGains, wheelpole.State{})
}

func (l *LQR) Compute(x wheelpole.State, t float64) float64 {
	dx := []float64{
		wheelpole.NormalizeAngle(x.Rod - l.Target.Rod),
		wheelpole.NormalizeAngle(x.Wheel - l.Target.Wheel),
		x.RodDot - l.Target.RodDot,
		x.WheelDot - l.Target.WheelDot,
	}
	return floats.Dot(l.K[:], dx)
}

func (l *LQR) GetParams() map[string]float64 {
	return map[string]float64{
		"k_rod":       l.K[0],
		"k_wheel":     l.K[1],
		"k_rod_dot":   l.K[2],
		"k_wheel_dot": l.K[3],
	}
}

func (l *LQR) SetParam(name string, value float64) error {
	switch name {
	case "k_rod":
		l.K[0] = value
	case "k_wheel":
		l.K[1] = value
	case "k_rod_dot":
		l.K[2] = value
	case "k_wheel_dot":
		l.K[3] = value
	default:
		return unknownParam(name)
	}
	return nil
}
