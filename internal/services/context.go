package services

import "context"

type contextKey string

const (
	runIDKey   contextKey = "run_id"
	engineKey  contextKey = "engine"
	backendKey contextKey = "backend"
)

// WithRunID annotates context with the invocation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext returns the invocation identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(runIDKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithEngine annotates context with the engine name (streaming/neural).
func WithEngine(ctx context.Context, engine string) context.Context {
	if engine == "" {
		return ctx
	}
	return context.WithValue(ctx, engineKey, engine)
}

// EngineFromContext returns the engine name if present.
func EngineFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(engineKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithBackend annotates context with the compute backend of the active attempt.
func WithBackend(ctx context.Context, backend string) context.Context {
	if backend == "" {
		return ctx
	}
	return context.WithValue(ctx, backendKey, backend)
}

// BackendFromContext returns the backend label if present.
func BackendFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(backendKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
