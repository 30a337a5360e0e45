package wheelpole

import (
	"fmt"
	"math"
)

// Default physical constants.
const (
	DefaultLenRod    = 0.5
	DefaultLenWheel  = 0.9
	DefaultRadWheel  = 0.1
	DefaultMassRod   = 0.1
	DefaultMassWheel = 0.05
	DefaultDt        = 0.001
	DefaultGravity   = 9.8
	DefaultMaxSpeed  = 100.0

	// StartAngle bounds the rod angle drawn on Reset, in degrees.
	StartAngle = 20.0
)

// Params holds the physical constants of the rod and wheel.
type Params struct {
	LenRod    float64 `json:"len_rod" yaml:"len_rod"`
	LenWheel  float64 `json:"len_wheel" yaml:"len_wheel"`
	RadWheel  float64 `json:"rad_wheel" yaml:"rad_wheel"`
	MassRod   float64 `json:"mass_rod" yaml:"mass_rod"`
	MassWheel float64 `json:"mass_wheel" yaml:"mass_wheel"`
	Dt        float64 `json:"dt" yaml:"dt"`
	Gravity   float64 `json:"gravity" yaml:"gravity"`
	MaxSpeed  float64 `json:"max_speed" yaml:"max_speed"`
}

func DefaultParams() Params {
	return Params{
		LenRod:    DefaultLenRod,
		LenWheel:  DefaultLenWheel,
		RadWheel:  DefaultRadWheel,
		MassRod:   DefaultMassRod,
		MassWheel: DefaultMassWheel,
		Dt:        DefaultDt,
		Gravity:   DefaultGravity,
		MaxSpeed:  DefaultMaxSpeed,
	}
}

// RodInertia is the thin-rod moment of inertia, m·l²/12.
func (p Params) RodInertia() float64 {
	return p.MassRod * p.LenRod * p.LenRod / 12
}

// WheelInertia is the solid-disk moment of inertia, m·r²/2.
func (p Params) WheelInertia() float64 {
	return p.MassWheel * p.RadWheel * p.RadWheel / 2
}

// effective returns the total inertia about the pivot and the wheel's own
// inertia.
func (p Params) effective() (effmm1, effmm2 float64) {
	effmm1 = p.MassRod*p.LenRod*p.LenRod + p.MassWheel*p.LenWheel*p.LenWheel +
		p.RodInertia() + p.WheelInertia()
	effmm2 = p.WheelInertia()
	return effmm1, effmm2
}

// gravityArm is the mass-weighted lever arm of the gravitational torque.
func (p Params) gravityArm() float64 {
	return p.MassRod*p.LenRod + p.MassWheel*p.LenWheel
}

// Validate reports whether the model can be integrated with p.
func (p Params) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"len_rod", p.LenRod},
		{"len_wheel", p.LenWheel},
		{"rad_wheel", p.RadWheel},
		{"mass_rod", p.MassRod},
		{"mass_wheel", p.MassWheel},
		{"dt", p.Dt},
		{"max_speed", p.MaxSpeed},
	}
	for _, f := range positive {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be positive and finite, got %v", ErrInvalidParams, f.name, f.v)
		}
	}
	if math.IsNaN(p.Gravity) || math.IsInf(p.Gravity, 0) {
		return fmt.Errorf("%w: gravity must be finite, got %v", ErrInvalidParams, p.Gravity)
	}
	effmm1, effmm2 := p.effective()
	if !(effmm1-effmm2 > 0) {
		return fmt.Errorf("%w: rod inertia about the pivot must be positive, got %v", ErrInvalidParams, effmm1-effmm2)
	}
	return nil
}

// Energy returns the mechanical energy of s: rod and absolute wheel kinetic
// energy plus gravitational potential, zero at the horizontal.
func (p Params) Energy(s State) float64 {
	effmm1, effmm2 := p.effective()
	spin := s.RodDot + s.WheelDot
	ke := 0.5*(effmm1-effmm2)*s.RodDot*s.RodDot + 0.5*effmm2*spin*spin
	pe := p.gravityArm() * p.Gravity * math.Cos(s.Rod)
	return ke + pe
}
