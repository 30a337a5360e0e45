package wheelpole_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wheelsim/internal/wheelpole"
)

var _ = Describe("Pendulum", func() {
	var (
		params wheelpole.Params
		model  *wheelpole.Pendulum
	)

	BeforeEach(func() {
		params = wheelpole.DefaultParams()
		var err error
		model, err = wheelpole.New(params, wheelpole.DefaultStarter(42))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("New", func() {
		It("rejects non-positive parameters", func() {
			bad := params
			bad.MassRod = 0
			_, err := wheelpole.New(bad, nil)
			Expect(errors.Is(err, wheelpole.ErrInvalidParams)).To(BeTrue())

			bad = params
			bad.Dt = math.NaN()
			_, err = wheelpole.New(bad, nil)
			Expect(errors.Is(err, wheelpole.ErrInvalidParams)).To(BeTrue())
		})

		It("rejects non-finite gravity", func() {
			bad := params
			bad.Gravity = math.Inf(1)
			_, err := wheelpole.New(bad, nil)
			Expect(err).To(MatchError(wheelpole.ErrInvalidParams))
		})

		It("starts uninitialized", func() {
			Expect(model.Active()).To(BeFalse())
			_, _, _, err := model.Step(0)
			Expect(err).To(MatchError(wheelpole.ErrNotReset))
		})
	})

	Describe("Reset", func() {
		It("draws the rod angle within ±20 degrees and zeroes the rest", func() {
			limit := 20 * math.Pi / 180
			for i := 0; i < 2000; i++ {
				obs := model.Reset()
				s := model.State()
				Expect(s.Rod).To(BeNumerically(">=", -limit))
				Expect(s.Rod).To(BeNumerically("<=", limit))
				Expect(s.Wheel).To(BeZero())
				Expect(s.RodDot).To(BeZero())
				Expect(s.WheelDot).To(BeZero())
				Expect(obs[0]).To(Equal(float32(s.Rod)))
				Expect(obs[1:]).To(Equal([]float32{0, 0, 0}))
			}
		})

		It("is reproducible for equal seeds", func() {
			other, err := wheelpole.New(params, wheelpole.DefaultStarter(42))
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 50; i++ {
				Expect(model.Reset()).To(Equal(other.Reset()))
			}
		})

		It("clears the step counter", func() {
			model.Reset()
			for i := 0; i < 5; i++ {
				_, _, _, err := model.Step(0)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(model.Steps()).To(Equal(5))
			model.Reset()
			Expect(model.Steps()).To(BeZero())
		})
	})

	Describe("Step", func() {
		It("stays at rest when balanced exactly upright", func() {
			model.SetState(wheelpole.State{})
			for i := 0; i < 100; i++ {
				obs, reward, done, err := model.Step(0)
				Expect(err).NotTo(HaveOccurred())
				Expect(done).To(BeFalse())
				Expect(reward).To(BeZero())
				Expect(obs).To(Equal(wheelpole.Observation{}))
			}
			Expect(model.State()).To(Equal(wheelpole.State{}))
		})

		It("tips away from upright and reports pre-step cost", func() {
			model.SetState(wheelpole.State{Rod: 0.1})
			obs, reward, done, err := model.Step(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(done).To(BeFalse())
			Expect(reward).To(BeNumerically("~", -0.01, 1e-12))

			s := model.State()
			Expect(s.Rod).To(BeNumerically(">", 0.1))
			Expect(s.Rod).To(BeNumerically("~", 0.1, 1e-5))
			Expect(s.RodDot).To(BeNumerically("~", 0.00137527, 1e-7))
			Expect(s.WheelDot).To(BeNumerically("~", -0.00137527, 1e-7))
			Expect(s.Rod).To(BeNumerically("~", 0.1+s.RodDot*params.Dt, 1e-15))
			Expect(obs[0]).To(Equal(float32(s.Rod)))
		})

		It("clamps velocities at max speed", func() {
			for _, torque := range []float64{1e6, -1e6, math.Inf(1)} {
				model.SetState(wheelpole.State{Rod: 0.2})
				_, _, _, err := model.Step(torque)
				if math.IsInf(torque, 0) {
					Expect(err).To(MatchError(wheelpole.ErrInvalidState))
					continue
				}
				Expect(err).NotTo(HaveOccurred())
				s := model.State()
				Expect(math.Abs(s.RodDot)).To(Equal(params.MaxSpeed))
				Expect(math.Abs(s.WheelDot)).To(Equal(params.MaxSpeed))
				Expect(math.Signbit(s.RodDot)).To(Equal(torque > 0))
				Expect(math.Signbit(s.WheelDot)).To(Equal(torque < 0))
			}
		})

		It("keeps angles normalized over long runs", func() {
			model.Reset()
			for i := 0; i < 20000; i++ {
				obs, _, _, err := model.Step(0.5)
				Expect(err).NotTo(HaveOccurred())
				for _, th := range obs[:2] {
					Expect(float64(th)).To(BeNumerically(">=", -math.Pi-1e-6))
					Expect(float64(th)).To(BeNumerically("<=", math.Pi+1e-6))
				}
				s := model.State()
				Expect(math.Abs(s.RodDot)).To(BeNumerically("<=", params.MaxSpeed))
				Expect(math.Abs(s.WheelDot)).To(BeNumerically("<=", params.MaxSpeed))
			}
		})

		It("keeps the previous state when torque is not a number", func() {
			model.SetState(wheelpole.State{Rod: 0.3})
			before := model.State()
			_, _, _, err := model.Step(math.NaN())

			var stepErr *wheelpole.StepError
			Expect(errors.As(err, &stepErr)).To(BeTrue())
			Expect(stepErr.Step).To(BeZero())
			Expect(errors.Is(err, wheelpole.ErrInvalidState)).To(BeTrue())
			Expect(model.State()).To(Equal(before))
			Expect(model.Steps()).To(BeZero())
		})

		It("conserves energy within the integration error without torque", func() {
			model.SetState(wheelpole.State{Rod: 0.1})
			e0 := model.Energy()
			for i := 0; i < 500; i++ {
				_, _, _, err := model.Step(0)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(math.Abs(model.Energy()-e0) / math.Abs(e0)).To(BeNumerically("<", 1e-3))
		})
	})
})
