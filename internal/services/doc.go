// Package services defines shared utilities consumed by the transcription
// pipeline, the engines, and the fallback orchestrator.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, engine names, and the active backend
//     for logging.
//   - Structured error markers plus the Wrap helper so callers can tell a
//     recoverable backend failure (fallback) from a fatal one (exit 1).
//
// Use these helpers when wiring new engine code so error classification stays
// uniform across attempts.
package services
