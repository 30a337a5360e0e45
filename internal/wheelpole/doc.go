// Package wheelpole models a reaction-wheel pendulum: an inverted rod
// pivoting about a fixed point with a flywheel mounted at its tip.
//
// Torque applied to the wheel reacts on the rod, which is the only way to
// actuate the system. The model advances both bodies by one fixed timestep
// per call:
//
//   - [Params]: physical constants, immutable inside a [Pendulum]
//   - [State]: rod and wheel angles and angular velocities
//   - [Pendulum]: the stepping model with Reset and Step
//   - [Starter]: samples the initial rod angle on Reset
//
// # Example
//
//	p, _ := wheelpole.New(wheelpole.DefaultParams(), wheelpole.DefaultStarter(42))
//	obs := p.Reset()
//	obs, reward, done, err := p.Step(0.05)
//
// A theta of zero is the upright (inverted) position, so the uncontrolled rod
// falls away from it.
//
// # Thread Safety
//
// A Pendulum is NOT safe for concurrent use. Parallel rollouts must own one
// Pendulum each.
package wheelpole
