// Package logging assembles structured slog loggers and formatting helpers used
// across the transcription pipeline.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so engine and orchestrator code
// can tag log lines with run IDs, engine names, and the active backend. Output
// goes to stderr by default: stdout is reserved for the progress protocol.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
