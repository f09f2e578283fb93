package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"subgen/internal/audio"
	"subgen/internal/backend"
	"subgen/internal/config"
	"subgen/internal/engine"
	"subgen/internal/fallback"
	"subgen/internal/fileutil"
	"subgen/internal/language"
	"subgen/internal/logging"
	"subgen/internal/models"
	"subgen/internal/progress"
	"subgen/internal/services"
	"subgen/internal/subtitle"
)

// Request names the input audio and the subtitle file to produce.
type Request struct {
	AudioPath  string
	OutputPath string
}

// Result summarizes one invocation.
type Result struct {
	RunID      string
	OutputPath string
	Engine     string
	Language   string
	Duration   time.Duration
	Outcome    fallback.Outcome
	Backend    backend.Backend
	Cues       int
	Silence    bool
	Rescued    bool
	Attempts   []fallback.Attempt
	Err        error
}

// OutputProduced reports whether a subtitle file exists at the output path.
func (r Result) OutputProduced() bool {
	return r.OutputPath != "" && fileutil.Exists(r.OutputPath)
}

// Service runs transcriptions for one configuration.
type Service struct {
	cfg      *config.Config
	logger   *slog.Logger
	progress progress.Reporter
	loader   engine.Loader
	probe    backend.Prober
	client   models.HTTPDoer
	newRunID func() string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithProgress sets the progress sink used for downloads and attempts.
func WithProgress(reporter progress.Reporter) Option {
	return func(s *Service) {
		if reporter != nil {
			s.progress = reporter
		}
	}
}

// WithLoader bypasses model acquisition and engine selection.
func WithLoader(loader engine.Loader) Option {
	return func(s *Service) {
		s.loader = loader
	}
}

// WithProber overrides GPU detection.
func WithProber(probe backend.Prober) Option {
	return func(s *Service) {
		if probe != nil {
			s.probe = probe
		}
	}
}

// WithHTTPClient sets the client used for model downloads.
func WithHTTPClient(client models.HTTPDoer) Option {
	return func(s *Service) {
		if client != nil {
			s.client = client
		}
	}
}

// NewService constructs a Service.
func NewService(cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		cfg:      cfg,
		logger:   logging.NewNop(),
		progress: progress.Nop,
		newRunID: uuid.NewString,
	}
	s.probe = func() backend.Availability { return backend.ProbeGPU(cfg.Neural.GPU) }
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "transcribe")
	return s
}

// Run transcribes req.AudioPath into req.OutputPath. The error is non-nil
// when no usable output could be produced.
func (s *Service) Run(ctx context.Context, req Request) (Result, error) {
	result := Result{
		RunID:      s.newRunID(),
		OutputPath: req.OutputPath,
		Engine:     s.cfg.Transcription.Engine,
		Outcome:    fallback.Failed,
	}
	ctx = services.WithRunID(ctx, result.RunID)
	ctx = services.WithEngine(ctx, result.Engine)
	logger := logging.WithContext(ctx, s.logger)
	reporter := progress.Multi(s.progress, newProgressLog(logger))

	lang, err := language.Normalize(s.cfg.Transcription.Language)
	if err != nil {
		return result, err
	}
	result.Language = lang

	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0o755); err != nil {
		return result, services.Wrap(services.ErrConfiguration, "transcribe", "create output dir", filepath.Dir(req.OutputPath), err)
	}
	lock := flock.New(req.OutputPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return result, services.Wrap(services.ErrConfiguration, "transcribe", "acquire lock", req.OutputPath, err)
	}
	if !locked {
		return result, services.Wrap(services.ErrValidation, "transcribe", "acquire lock",
			fmt.Sprintf("another run is writing %s", req.OutputPath), nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Debug("release output lock", logging.Error(err))
		}
		_ = os.Remove(lock.Path())
	}()

	info, err := audio.Inspect(req.AudioPath)
	if err != nil {
		return result, err
	}
	result.Duration = info.Duration
	if result.Engine == config.EngineStreaming {
		if err := audio.RequireMonoPCM16(info); err != nil {
			return result, err
		}
	}
	logger.Info("transcription started",
		logging.String("audio", req.AudioPath),
		logging.String("output", req.OutputPath),
		logging.Duration("duration", info.Duration),
		logging.Int("sample_rate", info.SampleRate),
		logging.Int("channels", info.Channels),
		logging.String("language", language.DisplayName(lang)),
	)

	setup, err := s.prepare(ctx, logger, reporter)
	if err != nil {
		return result, err
	}

	output := newFileOutput(req.OutputPath, s.cfg.Transcription.MinContentBytes)
	orchestrator := fallback.New(setup.loader, output, fallback.Options{
		Ladder:           setup.ladder,
		GPU:              setup.gpu,
		MaxChars:         s.cfg.Transcription.MaxChars,
		ShortClipSeconds: s.cfg.Transcription.ShortClipSeconds,
		AudioDuration:    info.Seconds(),
		VADRetry:         s.cfg.Transcription.VADRetry,
		Language:         lang,
	}, fallback.WithLogger(logger), fallback.WithProgress(reporter))

	run, runErr := orchestrator.Run(ctx, req.AudioPath)
	result.Outcome = run.Outcome
	result.Backend = run.Backend
	result.Cues = run.Cues
	result.Silence = run.Silence
	result.Rescued = run.Rescued
	result.Attempts = run.Attempts
	result.Err = run.Err

	if runErr != nil {
		if output.discardTrivial() {
			logger.Debug("removed incomplete subtitle file", logging.String("path", req.OutputPath))
		}
		return result, runErr
	}

	attrs := []logging.Attr{
		logging.String("outcome", run.Outcome.String()),
		logging.String("backend", run.Backend.String()),
		logging.Int("cues", run.Cues),
		logging.Int("attempts", len(run.Attempts)),
		logging.Bool("rescued", run.Rescued),
	}
	if run.Cues > 0 {
		if first, last, err := subtitle.Bounds(req.OutputPath); err == nil {
			attrs = append(attrs, logging.Float64("first_cue_seconds", first), logging.Float64("last_cue_seconds", last))
		}
	}
	logger.Info("transcription finished", logging.Args(attrs...)...)
	return result, nil
}

type runSetup struct {
	loader engine.Loader
	ladder backend.Ladder
	gpu    bool
}

// prepare acquires the model and selects the engine and ladder.
func (s *Service) prepare(ctx context.Context, logger *slog.Logger, reporter progress.Reporter) (runSetup, error) {
	cfg := s.cfg
	var setup runSetup

	switch cfg.Transcription.Engine {
	case config.EngineStreaming:
		setup.ladder = backend.CPUOnly(streamingComputeType)
		logger.Info("streaming engine runs on cpu",
			logging.Args(logging.DecisionAttrs("initial_backend", backend.CPU.String(), "streaming engine")...)...)
	case config.EngineNeural:
		setup.ladder = backend.LadderFromConfig(cfg.Neural)
		if cfg.Neural.Runtime == config.RuntimeWhisperCPP && s.loader == nil {
			logger.Info("whisper-cpp build runs on cpu",
				logging.Args(logging.DecisionAttrs("initial_backend", backend.CPU.String(), "cpu-only runtime")...)...)
			break
		}
		availability := s.probe()
		setup.gpu = availability.GPU
		logger.Info("gpu probe", logging.Bool("gpu", availability.GPU), logging.String("detail", availability.Detail))
	default:
		return setup, services.Wrap(services.ErrConfiguration, "transcribe", "select engine",
			fmt.Sprintf("unsupported engine %q", cfg.Transcription.Engine), nil)
	}

	if s.loader != nil {
		setup.loader = s.loader
		return setup, nil
	}
	loader, err := s.acquire(ctx, logger, reporter)
	if err != nil {
		return setup, err
	}
	setup.loader = loader
	return setup, nil
}
