package metrics

import "github.com/san-kum/wheelsim/internal/wheelpole"

// Return is the undiscounted sum of rewards over an episode.
type Return struct {
	name string
	sum  float64
}

func NewReturn() *Return {
	return &Return{name: "return"}
}

func (r *Return) Name() string { return r.name }

func (r *Return) Observe(x wheelpole.State, torque, reward, t float64) {
	r.sum += reward
}

func (r *Return) Value() float64 { return r.sum }

func (r *Return) Reset() { r.sum = 0 }
