package fasterwhisper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"subgen/internal/backend"
	"subgen/internal/engine"
	"subgen/internal/logging"
	"subgen/internal/services"
)

// Loader starts helper processes bound to backend plans.
type Loader struct {
	cfg    Config
	start  Starter
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithProcessStarter replaces process creation (for testing).
func WithProcessStarter(start Starter) Option {
	return func(l *Loader) {
		if start != nil {
			l.start = start
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader.
func NewLoader(cfg Config, opts ...Option) *Loader {
	if cfg.Python == "" {
		cfg.Python = DefaultPython
	}
	l := &Loader{cfg: cfg, start: startExec, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = logging.NewComponentLogger(l.logger, "faster-whisper")
	return l
}

// Name identifies the engine in logs.
func (l *Loader) Name() string { return "faster-whisper" }

// Load starts the helper in serve mode and waits for the model to load.
func (l *Loader) Load(ctx context.Context, plan backend.Plan) (engine.Session, error) {
	script, err := WriteHelper(l.cfg.HelperDir)
	if err != nil {
		return nil, services.Wrap(services.ErrEngineRuntime, "faster-whisper", "prepare helper", "", err)
	}
	args := l.serveArgs(script, plan)
	l.logger.Debug("starting helper", logging.String("python", l.cfg.Python), logging.String("plan", plan.String()))

	proc, err := l.start(ctx, l.cfg.Python, args, HelperEnv(os.Environ(), l.cfg.HFEndpoint))
	if err != nil {
		return nil, services.Wrap(services.ErrEngineRuntime, "faster-whisper", "start helper", l.cfg.Python, err)
	}

	s := &session{proc: proc, events: newEventReader(proc.Stdout()), plan: plan, logger: l.logger}
	for {
		ev, err := s.events.next()
		if err != nil {
			return nil, s.abort("load model", err)
		}
		switch ev.Event {
		case eventReady:
			l.logger.Info("model loaded", logging.String("device", ev.Device), logging.String("compute_type", ev.ComputeType))
			return s, nil
		case eventError:
			loadErr := errorFromEvent("load model", ev)
			if plan.Backend.IsGPU() && errors.Is(loadErr, services.ErrEngineRuntime) {
				// A GPU plan that cannot initialise is unavailable, not broken.
				loadErr = services.Wrap(services.ErrBackendUnavailable, "faster-whisper", "load model", ev.Message, nil)
			}
			s.shutdown()
			return nil, loadErr
		}
	}
}

func (l *Loader) serveArgs(script string, plan backend.Plan) []string {
	args := []string{
		script, "serve",
		"--model", l.cfg.Model,
		"--device", plan.Device,
		"--compute-type", plan.ComputeType,
	}
	if l.cfg.BeamSize > 0 {
		args = append(args, "--beam-size", strconv.Itoa(l.cfg.BeamSize))
	}
	if l.cfg.RepetitionPenalty > 0 {
		args = append(args, "--repetition-penalty", strconv.FormatFloat(l.cfg.RepetitionPenalty, 'f', -1, 64))
	}
	if l.cfg.NoSpeechThreshold > 0 {
		args = append(args, "--no-speech-threshold", strconv.FormatFloat(l.cfg.NoSpeechThreshold, 'f', -1, 64))
	}
	return args
}

type session struct {
	proc   Process
	events *eventReader
	plan   backend.Plan
	logger *slog.Logger
	closed bool
}

// Transcribe sends one request and collects its events.
func (s *session) Transcribe(ctx context.Context, req engine.Request) (engine.Transcript, error) {
	var transcript engine.Transcript
	if s.closed {
		return transcript, services.Wrap(services.ErrEngineRuntime, "faster-whisper", "transcribe", "session closed", nil)
	}
	line, err := encodeRequest(req)
	if err != nil {
		return transcript, services.Wrap(services.ErrEngineRuntime, "faster-whisper", "transcribe", "", err)
	}
	if _, err := s.proc.Stdin().Write(line); err != nil {
		return transcript, s.abort("send request", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return transcript, err
		}
		ev, err := s.events.next()
		if err != nil {
			return transcript, s.abort("transcribe", err)
		}
		switch ev.Event {
		case eventInfo:
			transcript.Language = ev.Language
			transcript.LanguageProbability = ev.LanguageProbability
			transcript.Duration = ev.Duration
			s.logger.Info("detected language",
				logging.String("language", ev.Language),
				logging.Float64("probability", ev.LanguageProbability),
				logging.Float64("duration_seconds", ev.Duration),
			)
		case eventSegment:
			transcript.Segments = append(transcript.Segments, segmentFromEvent(ev))
			req.ReportProgress(progressFor(ev.End, transcript.Duration))
		case eventDone:
			return transcript, nil
		case eventError:
			return transcript, errorFromEvent("transcribe", ev)
		}
	}
}

// Close ends the helper and reports a non-zero exit.
func (s *session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	_ = s.proc.Stdin().Close()
	if err := s.proc.Wait(); err != nil {
		return services.Wrap(services.ErrEngineRuntime, "faster-whisper", "helper exit", s.proc.Stderr(), err)
	}
	return nil
}

func (s *session) shutdown() {
	if s.closed {
		return
	}
	s.closed = true
	_ = s.proc.Stdin().Close()
	_ = s.proc.Wait()
}

// abort tears the helper down after an unexpected stream failure.
func (s *session) abort(operation string, cause error) error {
	s.shutdown()
	stderr := s.proc.Stderr()
	if errors.Is(cause, io.EOF) {
		cause = fmt.Errorf("helper exited unexpectedly")
	}
	return services.Wrap(services.ErrEngineRuntime, "faster-whisper", operation, stderr, cause)
}
