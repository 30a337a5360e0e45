package metrics

import (
	"math"

	"github.com/san-kum/wheelsim/internal/wheelpole"
)

// Energy is the mean mechanical energy over observed states.
type Energy struct {
	name        string
	params      wheelpole.Params
	samples     int
	totalEnergy float64
}

func NewEnergy(p wheelpole.Params) *Energy {
	return &Energy{
		name:   "energy",
		params: p,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x wheelpole.State, torque, reward, t float64) {
	e.totalEnergy += e.params.Energy(x)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative deviation from the first observed
// energy. Only meaningful for uncontrolled runs.
type EnergyDrift struct {
	name          string
	params        wheelpole.Params
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(p wheelpole.Params) *EnergyDrift {
	return &EnergyDrift{
		name:   "energy_drift",
		params: p,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x wheelpole.State, torque, reward, t float64) {
	energy := e.params.Energy(x)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
