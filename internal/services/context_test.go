package services_test

import (
	"context"
	"testing"

	"subgen/internal/services"
)

func TestContextHelpersRoundTrip(t *testing.T) {
	ctx := services.WithRunID(context.Background(), "run-1")
	ctx = services.WithEngine(ctx, "neural")
	ctx = services.WithBackend(ctx, "gpu_primary")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-1" {
		t.Fatalf("unexpected run id %q (%v)", id, ok)
	}
	if engine, ok := services.EngineFromContext(ctx); !ok || engine != "neural" {
		t.Fatalf("unexpected engine %q (%v)", engine, ok)
	}
	if backend, ok := services.BackendFromContext(ctx); !ok || backend != "gpu_primary" {
		t.Fatalf("unexpected backend %q (%v)", backend, ok)
	}
}

func TestContextHelpersIgnoreEmptyValues(t *testing.T) {
	ctx := services.WithRunID(context.Background(), "")
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id for empty value")
	}
}
