package metrics

import (
	"math"

	"github.com/san-kum/wheelsim/internal/wheelpole"
)

// Upright is the fraction of steps with the rod within threshold radians of
// vertical.
type Upright struct {
	name      string
	threshold float64
	upright   int
	samples   int
}

func NewUpright(threshold float64) *Upright {
	return &Upright{
		name:      "upright",
		threshold: threshold,
	}
}

func (u *Upright) Name() string {
	return u.name
}

func (u *Upright) Observe(x wheelpole.State, torque, reward, t float64) {
	u.samples++
	if math.Abs(wheelpole.NormalizeAngle(x.Rod)) <= u.threshold {
		u.upright++
	}
}

func (u *Upright) Value() float64 {
	if u.samples == 0 {
		return 1.0
	}
	return float64(u.upright) / float64(u.samples)
}

func (u *Upright) Reset() {
	u.upright = 0
	u.samples = 0
}
