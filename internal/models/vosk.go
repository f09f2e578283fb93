package models

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"subgen/internal/logging"
	"subgen/internal/progress"
	"subgen/internal/services"
)

// HTTPDoer describes the HTTP client used for model downloads.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// VoskSource describes where a Vosk model lives.
type VoskSource struct {
	Dir  string
	Name string
	URL  string
}

// ModelDir is the extracted model directory.
func (s VoskSource) ModelDir() string {
	return filepath.Join(s.Dir, s.Name)
}

// EnsureVosk returns the model directory, downloading and extracting the
// archive when it is missing.
func EnsureVosk(ctx context.Context, client HTTPDoer, src VoskSource, reporter progress.Reporter, logger *slog.Logger) (string, error) {
	logger = logging.NewComponentLogger(logger, "models")
	modelDir := src.ModelDir()
	if info, err := os.Stat(modelDir); err == nil && info.IsDir() {
		logger.Debug("vosk model present", logging.String("model_dir", modelDir))
		return modelDir, nil
	}
	if client == nil {
		client = http.DefaultClient
	}
	if err := os.MkdirAll(src.Dir, 0o755); err != nil {
		return "", services.Wrap(services.ErrModelAcquisition, "models", "create model dir", src.Dir, err)
	}

	archive := filepath.Join(src.Dir, src.Name+".zip")
	logger.Info("downloading vosk model",
		logging.String("model", src.Name),
		logging.String("url", src.URL),
	)
	size, err := download(ctx, client, src.URL, archive, progress.NewTracker(reporter, progress.PhaseDownload))
	if err != nil {
		_ = os.Remove(archive)
		return "", services.Wrap(services.ErrModelAcquisition, "models", "download vosk model", src.URL, err)
	}
	logger.Info("vosk model downloaded", logging.String("size", humanize.Bytes(uint64(size))))

	if err := extractZip(archive, src.Dir); err != nil {
		return "", services.Wrap(services.ErrModelAcquisition, "models", "extract vosk model", archive, err)
	}
	if err := os.Remove(archive); err != nil {
		logging.WarnWithContext(logger, "vosk archive cleanup failed", "model_cleanup",
			logging.String("path", archive),
			logging.Error(err),
			logging.String(logging.FieldImpact, "archive left in model directory"),
		)
	}
	if info, err := os.Stat(modelDir); err != nil || !info.IsDir() {
		return "", services.Wrap(services.ErrModelAcquisition, "models", "extract vosk model",
			fmt.Sprintf("archive did not contain %s", src.Name), nil)
	}
	return modelDir, nil
}

func download(ctx context.Context, client HTTPDoer, url, dest string, tracker *progress.Tracker) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return 0, fmt.Errorf("download returned %d", resp.StatusCode)
	}

	file, err := os.Create(dest)
	if err != nil {
		return 0, err
	}
	counter := &countingWriter{total: resp.ContentLength, tracker: tracker}
	tracker.Begin()
	written, copyErr := io.Copy(io.MultiWriter(file, counter), resp.Body)
	closeErr := file.Close()
	if copyErr != nil {
		return written, copyErr
	}
	if closeErr != nil {
		return written, closeErr
	}
	tracker.Complete()
	return written, nil
}

type countingWriter struct {
	total   int64
	written int64
	tracker *progress.Tracker
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.written += int64(len(p))
	if c.total > 0 {
		c.tracker.Update(int(c.written * 100 / c.total))
	}
	return len(p), nil
}

func extractZip(archive, dest string) error {
	reader, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer reader.Close()

	root, err := filepath.Abs(dest)
	if err != nil {
		return err
	}
	for _, entry := range reader.File {
		target := filepath.Join(root, entry.Name)
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry %q escapes %s", entry.Name, dest)
		}
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := extractFile(entry, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}
