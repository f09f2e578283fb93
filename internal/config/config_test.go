package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subgen/internal/config"
	"subgen/internal/services"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Transcription.MaxChars != 20 {
		t.Fatalf("expected default max_chars 20, got %d", cfg.Transcription.MaxChars)
	}
	if cfg.Transcription.ShortClipSeconds != 2.0 {
		t.Fatalf("expected short clip threshold 2.0, got %v", cfg.Transcription.ShortClipSeconds)
	}
	if cfg.Transcription.MinContentBytes != 100 {
		t.Fatalf("expected min content bytes 100, got %d", cfg.Transcription.MinContentBytes)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HF_ENDPOINT", "")
	t.Setenv("SUBGEN_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.Transcription.Engine != config.EngineStreaming {
		t.Fatalf("expected streaming engine, got %q", cfg.Transcription.Engine)
	}
	if !filepath.IsAbs(cfg.Paths.ModelDir) || strings.Contains(cfg.Paths.ModelDir, "~") {
		t.Fatalf("expected expanded model dir, got %q", cfg.Paths.ModelDir)
	}
}

func TestLoadAppliesFileAndAliases(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("HF_ENDPOINT", "")
	t.Setenv("SUBGEN_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
model_dir = "~/models"

[transcription]
engine = "Whisper"
max_chars = 12

[neural]
runtime = "whisper.cpp"
gpu = "OFF"

[logging]
format = "JSON"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Transcription.Engine != config.EngineNeural {
		t.Fatalf("expected engine alias to map to neural, got %q", cfg.Transcription.Engine)
	}
	if cfg.Transcription.MaxChars != 12 {
		t.Fatalf("expected max_chars 12, got %d", cfg.Transcription.MaxChars)
	}
	if cfg.Neural.Runtime != config.RuntimeWhisperCPP {
		t.Fatalf("expected whisper-cpp runtime, got %q", cfg.Neural.Runtime)
	}
	if cfg.Neural.GPU != config.GPUOff {
		t.Fatalf("expected gpu off, got %q", cfg.Neural.GPU)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json format, got %q", cfg.Logging.Format)
	}
	if cfg.Paths.ModelDir != filepath.Join(home, "models") {
		t.Fatalf("expected model dir under home, got %q", cfg.Paths.ModelDir)
	}
	if cfg.Transcription.Language != "zh" {
		t.Fatalf("expected default language retained, got %q", cfg.Transcription.Language)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HF_ENDPOINT", "https://huggingface.co/")
	t.Setenv("SUBGEN_LOG_LEVEL", "DEBUG")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Neural.HFEndpoint != "https://huggingface.co" {
		t.Fatalf("expected HF_ENDPOINT override, got %q", cfg.Neural.HFEndpoint)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected debug level, got %q", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"engine", func(c *config.Config) { c.Transcription.Engine = "deepspeech" }, "transcription.engine"},
		{"max chars", func(c *config.Config) { c.Transcription.MaxChars = 0 }, "max_chars"},
		{"runtime", func(c *config.Config) { c.Neural.Runtime = "onnx" }, "neural.runtime"},
		{"gpu", func(c *config.Config) { c.Neural.GPU = "maybe" }, "neural.gpu"},
		{"beam", func(c *config.Config) { c.Neural.BeamSize = 0 }, "beam_size"},
		{"no speech", func(c *config.Config) { c.Neural.NoSpeechThreshold = 1.5 }, "no_speech_threshold"},
		{"chunk", func(c *config.Config) { c.Streaming.ChunkFrames = 0 }, "chunk_frames"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"hf endpoint", func(c *config.Config) { c.Neural.HFEndpoint = "mirror" }, "neural.hf_endpoint"},
		{"threads", func(c *config.Config) { c.Neural.Threads = -1 }, "neural.threads"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
			if !errors.Is(err, services.ErrConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestNormalizeEngineAliases(t *testing.T) {
	tests := map[string]string{
		"vosk":      config.EngineStreaming,
		" VOSK ":    config.EngineStreaming,
		"streaming": config.EngineStreaming,
		"whisper":   config.EngineNeural,
		"neural":    config.EngineNeural,
		"other":     "other",
	}
	for input, want := range tests {
		if got := config.NormalizeEngine(input); got != want {
			t.Errorf("NormalizeEngine(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HF_ENDPOINT", "")
	t.Setenv("SUBGEN_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Streaming.ChunkFrames != 4000 {
		t.Fatalf("expected chunk frames 4000, got %d", cfg.Streaming.ChunkFrames)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ModelDir = filepath.Join(base, "models")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.ModelDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q: %v", dir, err)
		}
	}
	if got := cfg.StreamingModelPath(); got != filepath.Join(cfg.Paths.ModelDir, "vosk-model-small-cn-0.22") {
		t.Fatalf("unexpected streaming model path %q", got)
	}
}
