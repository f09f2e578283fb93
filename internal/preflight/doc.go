// Package preflight provides readiness checks for the interpreters, GPU
// runtime, and model paths a transcription run depends on.
//
// The "transcribe doctor" command renders RunAll as a table. Checks for an
// engine that the configuration does not select are skipped.
package preflight
