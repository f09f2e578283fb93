package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ModelDir string `toml:"model_dir"`
	LogDir   string `toml:"log_dir"`
}

// Transcription contains settings shared by both engines.
type Transcription struct {
	Engine           string  `toml:"engine" validate:"oneof=streaming neural"`
	Model            string  `toml:"model"`
	Language         string  `toml:"language"`
	MaxChars         int     `toml:"max_chars" validate:"min=1"`
	ShortClipSeconds float64 `toml:"short_clip_seconds" validate:"gte=0"`
	MinContentBytes  int64   `toml:"min_content_bytes" validate:"gte=0"`
	VADRetry         bool    `toml:"vad_retry"`
}

// Neural contains configuration for the neural transcription engine and its
// backend ladder.
type Neural struct {
	Runtime            string  `toml:"runtime" validate:"oneof=faster-whisper whisper-cpp"`
	GPU                string  `toml:"gpu" validate:"oneof=auto on off"`
	Python             string  `toml:"python"`
	HFEndpoint         string  `toml:"hf_endpoint" validate:"omitempty,url"`
	PrimaryComputeType string  `toml:"primary_compute_type"`
	SafeComputeType    string  `toml:"safe_compute_type"`
	CPUComputeType     string  `toml:"cpu_compute_type"`
	BeamSize           int     `toml:"beam_size" validate:"min=1"`
	RepetitionPenalty  float64 `toml:"repetition_penalty" validate:"gte=0"`
	NoSpeechThreshold  float64 `toml:"no_speech_threshold" validate:"gte=0,lte=1"`
	Threads            int     `toml:"threads" validate:"gte=0"`
}

// Streaming contains configuration for the streaming recognizer.
type Streaming struct {
	ModelName   string `toml:"model_name"`
	ModelURL    string `toml:"model_url" validate:"omitempty,url"`
	ChunkFrames int    `toml:"chunk_frames" validate:"min=1"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" validate:"oneof=console json"`
	Level  string `toml:"level" validate:"oneof=debug info warn warning error"`
}

// Config encapsulates all configuration values for the transcribe CLI.
//
// Configuration sections by subsystem:
//   - Paths: model cache and optional log directory
//   - Transcription: engine choice, cue length, fallback thresholds
//   - Neural: faster-whisper / whisper.cpp runtime and compute types
//   - Streaming: Vosk model source and chunking
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Transcription Transcription `toml:"transcription"`
	Neural        Neural        `toml:"neural"`
	Streaming     Streaming     `toml:"streaming"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/subgen/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("subgen.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the model cache directory and the log directory
// when one is configured.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ModelDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// StreamingModelPath returns the directory the streaming model is extracted to.
func (c *Config) StreamingModelPath() string {
	return filepath.Join(c.Paths.ModelDir, c.Streaming.ModelName)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
