package control

import "github.com/san-kum/wheelsim/internal/wheelpole"

type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Compute(x wheelpole.State, t float64) float64 {
	return 0
}
