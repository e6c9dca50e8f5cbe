// Package analysis extracts orbital characteristics from recorded runs.
//
//   - [PowerSpectrum]: magnitude spectrum of a sampled series
//   - [DominantPeriod]: strongest non-DC period, e.g. the orbital period from
//     a recorded x coordinate
//   - [Divergence]: exponential growth rate of a small position offset
//
// # Period Estimation
//
//	xs := traj.Column("earth_x")
//	period, err := analysis.DominantPeriod(xs, dt)
package analysis
