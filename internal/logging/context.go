package logging

import (
	"context"
	"log/slog"

	"subgen/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for the invocation identifier.
	FieldRunID = "run_id"
	// FieldEngine is the standardized structured logging key for the engine name.
	FieldEngine = "engine"
	// FieldBackend is the standardized structured logging key for the active compute backend.
	FieldBackend = "backend"
	// FieldEventType classifies warnings and errors for later filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to check next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldDecisionType names the kind of decision being logged.
	FieldDecisionType = "decision_type"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if engine, ok := services.EngineFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldEngine, engine))
	}
	if backend, ok := services.BackendFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldBackend, backend))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
