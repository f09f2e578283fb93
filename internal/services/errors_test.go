package services_test

import (
	"errors"
	"strings"
	"testing"

	"subgen/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrEngineRuntime, "fasterwhisper", "transcribe", "helper exited", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrEngineRuntime) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"fasterwhisper", "transcribe", "helper exited"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestIsFatalClassification(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		fatal bool
		kind  string
	}{
		{"nil", nil, false, "ok"},
		{"input format", services.Wrap(services.ErrInputFormat, "audio", "inspect", "stereo", nil), true, "input_format"},
		{"model", services.Wrap(services.ErrModelAcquisition, "models", "download", "offline", nil), true, "model_acquisition"},
		{"backend", services.Wrap(services.ErrBackendUnavailable, "backend", "load", "no cuda", nil), false, "backend_unavailable"},
		{"runtime", services.Wrap(services.ErrEngineRuntime, "engine", "run", "oom", nil), false, "engine_runtime"},
		{"empty", services.Wrap(services.ErrEmptyResult, "engine", "run", "zero cues", nil), false, "empty_result"},
		{"plain", errors.New("other"), false, "unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.IsFatal(tc.err); got != tc.fatal {
				t.Fatalf("IsFatal = %v, want %v", got, tc.fatal)
			}
			if got := services.Kind(tc.err); got != tc.kind {
				t.Fatalf("Kind = %q, want %q", got, tc.kind)
			}
		})
	}
}
