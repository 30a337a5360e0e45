package wheelpole

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distuv"
)

// Starter samples the rod angle used when a Pendulum is reset.
type Starter interface {
	Start() float64
}

// UniformStarter draws rod angles uniformly from an interval using its own
// seeded source.
type UniformStarter struct {
	bounds r1.Interval
	seed   uint64
	dist   distuv.Uniform
}

func NewUniformStarter(bounds r1.Interval, seed uint64) *UniformStarter {
	return &UniformStarter{
		bounds: bounds,
		seed:   seed,
		dist:   distuv.Uniform{Min: bounds.Min, Max: bounds.Max, Src: rand.NewSource(seed)},
	}
}

// DefaultStarter samples within ±StartAngle degrees.
func DefaultStarter(seed uint64) *UniformStarter {
	limit := Deg2Rad(StartAngle)
	return NewUniformStarter(r1.Interval{Min: -limit, Max: limit}, seed)
}

func (u *UniformStarter) Start() float64 {
	return u.dist.Rand()
}

func (u *UniformStarter) Bounds() r1.Interval { return u.bounds }
func (u *UniformStarter) Seed() uint64        { return u.seed }

// FixedStarter always starts the rod at the same angle.
type FixedStarter float64

func (f FixedStarter) Start() float64 {
	return float64(f)
}
