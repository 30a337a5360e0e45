// Package viz draws the reaction-wheel pendulum in the terminal.
//
// Rendering goes through a braille [Canvas]: each character cell holds a
// 2x4 block of sub-pixels, so an 80x30 terminal gives a 160x120 drawing
// surface. The rod is drawn from the window origin to the tip returned by
// [Segment].
//
//   - [Terminal]: a [Renderer] writing frames to an io.Writer
//   - [Recorder]: a [Renderer] that only keeps the angles it was given
//   - [Model]: the interactive Bubble Tea view used by `wheelsim live`
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset the episode
//	←/→   - Push the wheel (manual torque)
//	C     - Toggle the automatic controller
//	?     - Show help overlay
package viz
