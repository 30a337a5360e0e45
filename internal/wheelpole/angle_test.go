package wheelpole_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/san-kum/wheelsim/internal/wheelpole"
)

var _ = Describe("NormalizeAngle", func() {
	DescribeTable("maps angles into (-π, π]",
		func(in, want float64) {
			Expect(wheelpole.NormalizeAngle(in)).To(BeNumerically("~", want, 1e-12))
		},
		Entry("zero", 0.0, 0.0),
		Entry("small positive", 0.5, 0.5),
		Entry("small negative", -0.5, -0.5),
		Entry("pi stays pi", math.Pi, math.Pi),
		Entry("minus pi wraps to pi", -math.Pi, math.Pi),
		Entry("one turn past", 2*math.Pi+0.5, 0.5),
		Entry("one turn before", -2*math.Pi-0.5, -0.5),
		Entry("three pi", 3*math.Pi, math.Pi),
		Entry("just past pi", math.Pi+0.25, -math.Pi+0.25),
		Entry("many turns negative", -20*math.Pi+1, 1.0),
	)

	It("is idempotent and stays in range", func() {
		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 10000; i++ {
			th := (rng.Float64() - 0.5) * 200
			n := wheelpole.NormalizeAngle(th)
			Expect(n).To(BeNumerically(">", -math.Pi))
			Expect(n).To(BeNumerically("<=", math.Pi))
			Expect(wheelpole.NormalizeAngle(n)).To(Equal(n))
		}
	})

	It("propagates NaN", func() {
		Expect(math.IsNaN(wheelpole.NormalizeAngle(math.NaN()))).To(BeTrue())
	})
})

var _ = Describe("Cost", func() {
	It("is never negative", func() {
		rng := rand.New(rand.NewSource(11))
		for i := 0; i < 10000; i++ {
			th := (rng.Float64() - 0.5) * 50
			thDot := (rng.Float64() - 0.5) * 400
			torque := (rng.Float64() - 0.5) * 1000
			Expect(wheelpole.Cost(th, thDot, torque)).To(BeNumerically(">=", 0))
		}
	})

	It("weights angle, velocity and torque", func() {
		Expect(wheelpole.Cost(0.1, 0, 0)).To(BeNumerically("~", 0.01, 1e-15))
		Expect(wheelpole.Cost(0, 1, 0)).To(BeNumerically("~", 0.1, 1e-15))
		Expect(wheelpole.Cost(0, 0, 10)).To(BeNumerically("~", 0.1, 1e-15))
	})

	It("normalizes the angle first", func() {
		Expect(wheelpole.Cost(2*math.Pi+0.1, 0, 0)).To(BeNumerically("~", 0.01, 1e-12))
	})
})

var _ = Describe("ClipTorque", func() {
	DescribeTable("clamps to ±limit",
		func(torque, limit, want float64) {
			Expect(wheelpole.ClipTorque(torque, limit)).To(Equal(want))
		},
		Entry("inside", 0.1, 0.5, 0.1),
		Entry("above", 2.0, 0.5, 0.5),
		Entry("below", -2.0, 0.5, -0.5),
		Entry("zero limit disables", 7.0, 0.0, 7.0),
		Entry("negative limit disables", -7.0, -1.0, -7.0),
	)

	It("matches Clip over the symmetric interval", func() {
		bounds := r1.Interval{Min: -0.3, Max: 0.3}
		for _, u := range []float64{-1, -0.3, 0, 0.2, 0.3, 4} {
			Expect(wheelpole.ClipTorque(u, 0.3)).To(Equal(wheelpole.Clip(u, bounds)))
		}
	})
})
