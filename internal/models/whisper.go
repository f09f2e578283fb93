package models

import (
	"context"
	"log/slog"
	"os"

	"subgen/internal/logging"
	"subgen/internal/progress"
	"subgen/internal/services"
)

// HubDownloader resolves a faster-whisper model to a local path.
type HubDownloader interface {
	Download(ctx context.Context, localOnly bool, progress func(percent int)) (string, error)
}

// EnsureWhisper resolves the faster-whisper model. A model value that is an
// existing directory is used as is. Otherwise the hub download runs, and on
// failure the local cache is consulted.
func EnsureWhisper(ctx context.Context, d HubDownloader, model string, reporter progress.Reporter, logger *slog.Logger) (string, error) {
	logger = logging.NewComponentLogger(logger, "models")
	if info, err := os.Stat(model); err == nil && info.IsDir() {
		return model, nil
	}

	tracker := progress.NewTracker(reporter, progress.PhaseDownload)
	tracker.Begin()
	path, err := d.Download(ctx, false, tracker.Func())
	if err == nil {
		tracker.Complete()
		return path, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	logging.WarnWithContext(logger, "model download failed; trying local cache", "model_download",
		logging.String("model", model),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check network access and the hub endpoint"),
		logging.String(logging.FieldImpact, "using a previously cached model if one exists"),
	)

	path, localErr := d.Download(ctx, true, nil)
	if localErr != nil {
		return "", services.Wrap(services.ErrModelAcquisition, "models", "resolve whisper model",
			model+" is neither downloadable nor cached", localErr)
	}
	tracker.Complete()
	logger.Info("using cached whisper model", logging.String("path", path))
	return path, nil
}

// EnsureFile checks that a model file exists and is not empty.
func EnsureFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", services.Wrap(services.ErrModelAcquisition, "models", "stat model", path, err)
	}
	if info.IsDir() || info.Size() == 0 {
		return "", services.Wrap(services.ErrModelAcquisition, "models", "stat model", path+" is not a model file", nil)
	}
	return path, nil
}
