package transcribe

import (
	"context"
	"log/slog"
	"path/filepath"

	"subgen/internal/config"
	"subgen/internal/engine"
	"subgen/internal/engine/fasterwhisper"
	"subgen/internal/engine/vosk"
	"subgen/internal/engine/whispercpp"
	"subgen/internal/logging"
	"subgen/internal/models"
	"subgen/internal/progress"
)

// streamingComputeType labels the single Vosk plan in logs.
const streamingComputeType = "pcm16"

// acquire makes sure the model is on disk and returns the engine loader.
func (s *Service) acquire(ctx context.Context, logger *slog.Logger, reporter progress.Reporter) (engine.Loader, error) {
	cfg := s.cfg
	switch {
	case cfg.Transcription.Engine == config.EngineStreaming:
		dir, err := models.EnsureVosk(ctx, s.client, models.VoskSource{
			Dir:  cfg.Paths.ModelDir,
			Name: cfg.Streaming.ModelName,
			URL:  cfg.Streaming.ModelURL,
		}, reporter, logger)
		if err != nil {
			return nil, err
		}
		return vosk.NewLoader(vosk.Config{ModelDir: dir, ChunkFrames: cfg.Streaming.ChunkFrames}, logger), nil

	case cfg.Neural.Runtime == config.RuntimeWhisperCPP:
		path, err := models.EnsureFile(whispercpp.ModelPath(cfg.Paths.ModelDir, cfg.Transcription.Model))
		if err != nil {
			return nil, err
		}
		return whispercpp.NewLoader(whispercpp.Config{ModelPath: path, Threads: cfg.Neural.Threads}, logger), nil

	default:
		fwCfg := FasterWhisperConfig(cfg)
		path, err := models.EnsureWhisper(ctx, fasterwhisper.NewLoader(fwCfg, fasterwhisper.WithLogger(logger)),
			cfg.Transcription.Model, reporter, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("whisper model ready", logging.String("path", path))
		fwCfg.Model = path
		return fasterwhisper.NewLoader(fwCfg, fasterwhisper.WithLogger(logger)), nil
	}
}

// FasterWhisperConfig maps configuration onto helper settings.
func FasterWhisperConfig(cfg *config.Config) fasterwhisper.Config {
	return fasterwhisper.Config{
		Python:            cfg.Neural.Python,
		Model:             cfg.Transcription.Model,
		HelperDir:         filepath.Join(cfg.Paths.ModelDir, "helper"),
		HFEndpoint:        cfg.Neural.HFEndpoint,
		BeamSize:          cfg.Neural.BeamSize,
		RepetitionPenalty: cfg.Neural.RepetitionPenalty,
		NoSpeechThreshold: cfg.Neural.NoSpeechThreshold,
	}
}
