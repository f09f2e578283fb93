package testsupport

import (
	"path/filepath"
	"testing"

	"subgen/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose model directory is a per-test temp dir.
// GPU use is off and the VAD retry disabled unless an option changes them.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ModelDir = filepath.Join(base, "models")
	cfgVal.Neural.GPU = config.GPUOff
	cfgVal.Transcription.VADRetry = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithEngine selects the transcription engine.
func WithEngine(engine string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcription.Engine = config.NormalizeEngine(engine)
	}
}

// WithRuntime selects the neural runtime.
func WithRuntime(runtime string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Neural.Runtime = config.NormalizeRuntime(runtime)
	}
}

// WithGPU sets the gpu mode.
func WithGPU(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Neural.GPU = mode
	}
}

// WithVADRetry toggles the voice activity retry.
func WithVADRetry(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcription.VADRetry = enabled
	}
}

// WithLogDir points log output at a directory under the test temp dir.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.LogDir = filepath.Join(b.baseDir, "logs")
	}
}
