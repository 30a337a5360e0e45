// Package control provides torque controllers for the reaction-wheel
// pendulum.
//
// Controllers implement [sim.Controller] and map the rod and wheel state to
// the torque applied to the wheel:
//
//   - [PID]: PID on the rod tilt
//   - [LQR]: full state feedback
//   - [Random]: seeded uniform torque, for exploration and baselines
//   - [Manual]: torque set from outside, used by the live view
//   - [None]: zero torque
//
// Positive torque accelerates the rod towards negative angles, so a
// stabilizing controller answers positive tilt with positive torque.
//
// # Usage
//
//	pid := control.NewPID(3.0, 0.0, 0.5, 0.0) // Kp, Ki, Kd, setpoint
//	d := sim.New(model, pid)
//
// Controllers implementing [Configurable] support live tuning.
package control
