package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscription()
	c.normalizeNeural()
	c.normalizeStreaming()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ModelDir) == "" {
		c.Paths.ModelDir = defaultModelDir
	}
	if c.Paths.ModelDir, err = expandPath(c.Paths.ModelDir); err != nil {
		return fmt.Errorf("paths.model_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Engine = NormalizeEngine(c.Transcription.Engine)
	if c.Transcription.Engine == "" {
		c.Transcription.Engine = defaultEngine
	}
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultModel
	}
	c.Transcription.Language = strings.ToLower(strings.TrimSpace(c.Transcription.Language))
	if c.Transcription.MaxChars == 0 {
		c.Transcription.MaxChars = defaultMaxChars
	}
	if c.Transcription.ShortClipSeconds == 0 {
		c.Transcription.ShortClipSeconds = defaultShortClipSeconds
	}
	if c.Transcription.MinContentBytes == 0 {
		c.Transcription.MinContentBytes = defaultMinContentBytes
	}
}

func (c *Config) normalizeNeural() {
	c.Neural.Runtime = NormalizeRuntime(c.Neural.Runtime)
	if c.Neural.Runtime == "" {
		c.Neural.Runtime = defaultRuntime
	}
	c.Neural.GPU = strings.ToLower(strings.TrimSpace(c.Neural.GPU))
	if c.Neural.GPU == "" {
		c.Neural.GPU = GPUAuto
	}
	c.Neural.Python = strings.TrimSpace(c.Neural.Python)
	if c.Neural.Python == "" {
		c.Neural.Python = defaultPython
	}
	if value, ok := os.LookupEnv("HF_ENDPOINT"); ok && strings.TrimSpace(value) != "" {
		c.Neural.HFEndpoint = value
	}
	c.Neural.HFEndpoint = strings.TrimRight(strings.TrimSpace(c.Neural.HFEndpoint), "/")
	c.Neural.PrimaryComputeType = defaultString(c.Neural.PrimaryComputeType, defaultPrimaryComputeType)
	c.Neural.SafeComputeType = defaultString(c.Neural.SafeComputeType, defaultSafeComputeType)
	c.Neural.CPUComputeType = defaultString(c.Neural.CPUComputeType, defaultCPUComputeType)
	if c.Neural.BeamSize == 0 {
		c.Neural.BeamSize = defaultBeamSize
	}
}

func (c *Config) normalizeStreaming() {
	c.Streaming.ModelName = defaultString(c.Streaming.ModelName, defaultStreamingModelName)
	c.Streaming.ModelURL = strings.TrimSpace(c.Streaming.ModelURL)
	if c.Streaming.ChunkFrames == 0 {
		c.Streaming.ChunkFrames = defaultChunkFrames
	}
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("SUBGEN_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// NormalizeEngine maps engine names and their historical aliases onto the
// canonical values. Unknown names are returned lowercased for validation.
func NormalizeEngine(value string) string {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "vosk", "kaldi", EngineStreaming:
		return EngineStreaming
	case "whisper", "faster-whisper", EngineNeural:
		return EngineNeural
	default:
		return v
	}
}

// NormalizeRuntime maps neural runtime names onto the canonical values.
func NormalizeRuntime(value string) string {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "faster_whisper", "fasterwhisper", "ctranslate2", RuntimeFasterWhisper:
		return RuntimeFasterWhisper
	case "whisper.cpp", "whispercpp", "whisper_cpp", "ggml", RuntimeWhisperCPP:
		return RuntimeWhisperCPP
	default:
		return v
	}
}

func defaultString(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
