// Package transcribe wires one command-line invocation together: it locks
// the output path, inspects the audio, acquires the model, picks the engine
// and its backend ladder, and hands the run to the fallback orchestrator.
//
// Each attempt rewrites the subtitle file atomically, so a reader never sees
// a half-written file and a retry always starts numbering at 1.
package transcribe
