// Package analysis post-processes recorded trajectories.
//
//   - [PowerSpectrum]: magnitude spectrum of a signal of any length
//   - [DominantFrequency]: strongest non-DC frequency, in Hz
//   - [SettlingTime]: first time after which a signal stays within a band
//   - [RodPortrait], [PoincareSection], [PhasePortraitToASCII]: phase plots
//   - [SeparationRate]: divergence rate of two nearby unforced starts
//   - [Bifurcation]: late-time peaks across a parameter sweep
//
// A free-falling pendulum swings through the hanging position, so the rod
// angle spectrum peaks near the small-oscillation frequency:
//
//	f, _ := analysis.DominantFrequency(result.RodAngles(), params.Dt)
package analysis
