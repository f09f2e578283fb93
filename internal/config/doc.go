// Package config loads, normalizes, and validates transcribe configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// HF_ENDPOINT and SUBGEN_LOG_LEVEL. The Config type centralizes every knob the
// CLI needs: engine selection, cue length, fallback thresholds, compute types
// for each backend, and model sources.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical engine names, and clear validation errors.
package config
