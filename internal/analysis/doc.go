// Package analysis post-processes recorded runs.
//
//   - [PowerSpectrum] and [DominantFrequency]: oscillation content of a series
//   - [Crossings]: interpolated times a series passes a threshold
//   - [Divergence]: exponential growth rate of the gap between two runs
//   - [TraceCharge] and [TraceToASCII]: the path of one charge in the plane
//
// A bound pair released from rest oscillates through its partner; its
// period shows up both as the dominant frequency of the separation and as
// the spacing of its crossings:
//
//	sep := result.Separation(0, 1)
//	f := analysis.DominantFrequency(sep, cfg.Dt)
package analysis
