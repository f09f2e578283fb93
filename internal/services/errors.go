package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool       = errors.New("external tool error")
	ErrValidation         = errors.New("validation error")
	ErrConfiguration      = errors.New("configuration error")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrEmptyResult        = errors.New("empty transcription result")
	ErrEngineRuntime      = errors.New("engine runtime error")
	ErrInputFormat        = errors.New("input format error")
	ErrModelAcquisition   = errors.New("model acquisition error")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether err must terminate the run instead of moving the
// fallback ladder to another backend.
func IsFatal(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrInputFormat),
		errors.Is(err, ErrModelAcquisition),
		errors.Is(err, ErrConfiguration),
		errors.Is(err, ErrValidation):
		return true
	default:
		return false
	}
}

// Kind returns a short classification label used in logs and diagnostics.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrBackendUnavailable):
		return "backend_unavailable"
	case errors.Is(err, ErrEmptyResult):
		return "empty_result"
	case errors.Is(err, ErrEngineRuntime):
		return "engine_runtime"
	case errors.Is(err, ErrInputFormat):
		return "input_format"
	case errors.Is(err, ErrModelAcquisition):
		return "model_acquisition"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrExternalTool):
		return "external_tool"
	default:
		return "unknown"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
