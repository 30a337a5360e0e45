package wheelpole

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r1"
)

// Pendulum integrates the coupled rod and wheel dynamics with a fixed
// timestep. Step is only valid after Reset; the model never ends an episode
// on its own.
type Pendulum struct {
	params Params
	start  Starter
	speed  r1.Interval
	state  State
	active bool
	steps  int
}

// New builds a model from p. A nil start uses DefaultStarter(0).
func New(p Params, start Starter) (*Pendulum, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if start == nil {
		start = DefaultStarter(0)
	}
	return &Pendulum{
		params: p,
		start:  start,
		speed:  r1.Interval{Min: -p.MaxSpeed, Max: p.MaxSpeed},
	}, nil
}

func (p *Pendulum) Params() Params { return p.params }
func (p *Pendulum) State() State   { return p.state }
func (p *Pendulum) Steps() int     { return p.steps }
func (p *Pendulum) Active() bool   { return p.active }

// Energy returns the mechanical energy of the current state.
func (p *Pendulum) Energy() float64 {
	return p.params.Energy(p.state)
}

// Reset draws a new rod angle from the starter and zeroes everything else.
func (p *Pendulum) Reset() Observation {
	p.state = State{Rod: p.start.Start()}
	p.active = true
	p.steps = 0
	return p.state.Observation()
}

// SetState overwrites the current state and marks the model active. Angles
// are normalized and velocities clamped so the model invariants hold.
func (p *Pendulum) SetState(s State) {
	p.state = State{
		Rod:      NormalizeAngle(s.Rod),
		Wheel:    NormalizeAngle(s.Wheel),
		RodDot:   Clip(s.RodDot, p.speed),
		WheelDot: Clip(s.WheelDot, p.speed),
	}
	p.active = true
}

// Step applies torque to the wheel for one timestep. It returns the new
// observation, the reward (negated cost of the pre-step state and this
// torque) and done, which is always false. Torque is not clamped.
func (p *Pendulum) Step(torque float64) (Observation, float64, bool, error) {
	if !p.active {
		return Observation{}, 0, false, ErrNotReset
	}

	prev := p.state
	next := p.advance(prev, torque)
	cost := Cost(prev.Rod, prev.RodDot, torque)
	if !next.IsValid() || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return prev.Observation(), 0, false, &StepError{
			Step:    p.steps,
			Torque:  torque,
			State:   next,
			Wrapped: fmt.Errorf("%w: torque %v from %+v", ErrInvalidState, torque, prev),
		}
	}

	p.state = next
	p.steps++
	return next.Observation(), -cost, false, nil
}

func (p *Pendulum) advance(s State, torque float64) State {
	dt := p.params.Dt
	effmm1, effmm2 := p.params.effective()
	rod := NormalizeAngle(s.Rod)
	a := p.params.gravityArm() * p.params.Gravity * math.Sin(rod)

	rodAcc := (a - torque) / (effmm1 - effmm2)
	rodDot := Clip(s.RodDot+rodAcc*dt, p.speed)

	wheelAcc := (torque*effmm1 - a*effmm2) / effmm2 / (effmm1 - effmm2)
	wheelDot := Clip(s.WheelDot+wheelAcc*dt, p.speed)

	return State{
		Rod:      NormalizeAngle(rod + rodDot*dt),
		Wheel:    NormalizeAngle(NormalizeAngle(s.Wheel) + wheelDot*dt),
		RodDot:   rodDot,
		WheelDot: wheelDot,
	}
}
