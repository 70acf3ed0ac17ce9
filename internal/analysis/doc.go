// Package analysis extracts frequency and phase information from recorded
// wave runs.
//
//   - [PowerSpectrum]: magnitude spectrum of a probe or energy series
//   - [DominantFrequency]: strongest non-DC oscillation in Hz
//   - [GeneratePhasePortrait]: probe height against its rate of change
//   - [ZeroCrossings]: upward crossings of a level, for period estimates
//   - [RadialProfile]: mean |height| by ring distance from a splash
//
// # Probe Frequency
//
// A splash in a bounded pond rings at frequencies set by wave speed and grid
// size:
//
//	hz := analysis.DominantFrequency(result.Probe, cfg.FrameDt)
package analysis
