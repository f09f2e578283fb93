// Package fallback sequences transcription attempts across compute backends.
//
// The ladder is an explicit state machine:
//
//	TryPrimary -> TrySaferPrecision -> TryCPU -> Done
//
// A degenerate result (zero cues on audio longer than the short-clip
// threshold) moves one rung down. A runtime failure on a GPU rung jumps
// straight to TryCPU. Any usable result, a failure on TryCPU, or an
// exhausted ladder ends in Done. Attempts run strictly one after another and
// each Session is closed before the next plan loads.
package fallback
