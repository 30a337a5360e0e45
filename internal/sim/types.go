package sim

import (
	"fmt"

	"github.com/san-kum/wheelsim/internal/wheelpole"
)

// Controller chooses the torque applied to the wheel.
type Controller interface {
	Compute(x wheelpole.State, t float64) float64
}

// Resetter is implemented by controllers and observers that carry memory
// between steps and must be cleared at the start of an episode.
type Resetter interface {
	Reset()
}

// Metric accumulates a scalar over an episode. Observe receives the state the
// torque was chosen in and the reward that torque earned.
type Metric interface {
	Name() string
	Observe(x wheelpole.State, torque, reward, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every step with the new state. Returning an
// error aborts the run.
type Observer interface {
	OnStep(x wheelpole.State, torque, t float64) error
}

// Renderer draws the rod at the given angle.
type Renderer interface {
	Draw(rodAngle float64) error
}

type Config struct {
	// Steps is the episode length. The model never ends an episode itself.
	Steps int
	// TorqueLimit clamps controller output to ±TorqueLimit when positive.
	TorqueLimit float64
	// Init replaces the sampled reset state when set.
	Init *wheelpole.State
}

func DefaultConfig() Config {
	return Config{Steps: 5000}
}

type Result struct {
	States     []wheelpole.State
	Torques    []float64
	Rewards    []float64
	Times      []float64
	Metrics    map[string]float64
	Return     float64
	StepsTaken int
}

// RodAngles returns the rod angle of every recorded state.
func (r *Result) RodAngles() []float64 {
	out := make([]float64, len(r.States))
	for i, s := range r.States {
		out[i] = s.Rod
	}
	return out
}

// SimError records where in an episode the model failed.
type SimError struct {
	Time float64
	Step int
	Err  error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
}

func (e *SimError) Unwrap() error {
	return e.Err
}
