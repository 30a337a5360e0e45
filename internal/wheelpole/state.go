package wheelpole

import "math"

// State is the angular state of the rod and the wheel. Angles are in
// radians, velocities in rad/s.
type State struct {
	Rod      float64 `json:"theta_rod" yaml:"theta_rod"`
	Wheel    float64 `json:"theta_wheel" yaml:"theta_wheel"`
	RodDot   float64 `json:"theta_rod_dot" yaml:"theta_rod_dot"`
	WheelDot float64 `json:"theta_wheel_dot" yaml:"theta_wheel_dot"`
}

// Observation is the 32-bit state vector handed to agents, ordered
// (theta_rod, theta_wheel, theta_rod_dot, theta_wheel_dot).
type Observation [4]float32

func (s State) Observation() Observation {
	return Observation{float32(s.Rod), float32(s.Wheel), float32(s.RodDot), float32(s.WheelDot)}
}

// Slice returns the state as a float64 vector in observation order.
func (s State) Slice() []float64 {
	return []float64{s.Rod, s.Wheel, s.RodDot, s.WheelDot}
}

func (s State) IsValid() bool {
	for _, v := range s.Slice() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Cost is the quadratic control cost of being at angle th with velocity
// thDot while applying torque. It is never negative.
func Cost(th, thDot, torque float64) float64 {
	th = NormalizeAngle(th)
	return th*th + 0.1*thDot*thDot + 0.001*torque*torque
}
