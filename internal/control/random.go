package control

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/wheelsim/internal/wheelpole"
)

// Random samples torque uniformly from [-Limit, Limit] with its own seeded
// source.
type Random struct {
	Limit float64
	seed  uint64
	dist  distuv.Uniform
}

func NewRandom(limit float64, seed uint64) *Random {
	r := &Random{Limit: limit, seed: seed}
	r.Reset()
	return r
}

func (r *Random) Compute(x wheelpole.State, t float64) float64 {
	return r.dist.Rand()
}

// Reset rewinds the source so every episode sees the same torque sequence.
func (r *Random) Reset() {
	r.dist = distuv.Uniform{Min: -r.Limit, Max: r.Limit, Src: rand.NewSource(r.seed)}
}
