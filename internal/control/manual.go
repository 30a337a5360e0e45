package control

import "github.com/san-kum/wheelsim/internal/wheelpole"

// Manual applies whatever torque was last set on it.
// Used by the live view, where keys nudge the torque.
type Manual struct {
	Torque float64
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) SetTorque(u float64) {
	m.Torque = u
}

func (m *Manual) Nudge(delta float64) {
	m.Torque += delta
}

func (m *Manual) Compute(x wheelpole.State, t float64) float64 {
	return m.Torque
}

func (m *Manual) Reset() {
	m.Torque = 0
}
