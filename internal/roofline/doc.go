// Package roofline classifies kernel metrics against a roofline performance
// model.
//
// The roofline model bounds achievable performance by two ceilings: a
// bandwidth-limited ramp (performance = arithmetic intensity x peak
// bandwidth) and a flat compute ceiling. The two meet at the knee,
// peakCompute / peakBandwidth. Kernels whose arithmetic intensity falls left
// of the knee are memory-bound; the rest are compute-bound.
//
// The analyzer is a pure transform: given an immutable snapshot of kernel
// metrics and the two hardware ceilings it produces
//
//   - a 100-point reference curve for the log-log chart,
//   - per-kernel (arithmetic intensity, performance) points,
//   - aggregate classification statistics, and
//   - an optimization focus selected by strict memory-bound majority.
//
// Kernels with non-finite coordinates are excluded from the points and from
// every statistic, but the input metrics slice is never modified. Re-running
// the analysis on identical inputs yields identical outputs.
package roofline
