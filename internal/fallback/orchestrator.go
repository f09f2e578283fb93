package fallback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"subgen/internal/backend"
	"subgen/internal/engine"
	"subgen/internal/logging"
	"subgen/internal/progress"
	"subgen/internal/services"
	"subgen/internal/subtitle"
)

// Outcome is the terminal result of a run.
type Outcome int

const (
	Success Outcome = iota
	Exhausted
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Exhausted:
		return "exhausted"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Attempt records one rung of the ladder. Attempts live only in memory.
type Attempt struct {
	State      State
	Plan       backend.Plan
	Outcome    AttemptOutcome
	Cues       int
	Segments   int
	Duration   float64
	Language   string
	VADRetried bool
	Elapsed    time.Duration
	Err        error
}

// Result summarizes a finished run.
type Result struct {
	Outcome  Outcome
	Backend  backend.Backend
	Cues     int
	Silence  bool
	Rescued  bool
	Attempts []Attempt
	Err      error
}

// Output persists the cues of an attempt. Every Write replaces what a
// previous attempt wrote. HasContent reports whether this run has already
// persisted a non-trivial file.
type Output interface {
	Write(cues []subtitle.Cue) error
	HasContent() bool
}

// Options tunes the ladder.
type Options struct {
	Ladder           backend.Ladder
	GPU              bool
	MaxChars         int
	ShortClipSeconds float64
	// AudioDuration is used when the engine does not report a duration.
	AudioDuration float64
	VADRetry      bool
	Language      string
}

// Orchestrator drives the ladder for one audio file.
type Orchestrator struct {
	loader   engine.Loader
	output   Output
	opts     Options
	progress progress.Reporter
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithProgress sets the progress sink.
func WithProgress(reporter progress.Reporter) Option {
	return func(o *Orchestrator) {
		if reporter != nil {
			o.progress = reporter
		}
	}
}

// New constructs an Orchestrator.
func New(loader engine.Loader, output Output, opts Options, options ...Option) *Orchestrator {
	o := &Orchestrator{
		loader:   loader,
		output:   output,
		opts:     opts,
		progress: progress.Nop,
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range options {
		opt(o)
	}
	o.logger = logging.NewComponentLogger(o.logger, "fallback")
	return o
}

// Run transcribes audioPath, walking the ladder until Done. The returned
// error is non-nil only for Failed runs.
func (o *Orchestrator) Run(ctx context.Context, audioPath string) (Result, error) {
	var result Result
	state := InitialState(o.opts.GPU)
	if !o.opts.GPU {
		o.logger.Info("gpu unavailable; starting on cpu",
			logging.Args(logging.DecisionAttrs("initial_backend", backend.CPU.String(), "no gpu runtime")...)...)
	}

	for state != StateDone {
		attempt, fatal := o.attempt(ctx, state, audioPath)
		result.Attempts = append(result.Attempts, attempt)
		result.Backend = attempt.Plan.Backend

		if fatal != nil {
			result.Outcome = Failed
			result.Err = fatal
			return result, fatal
		}

		if attempt.Outcome == AttemptRuntimeError && o.output.HasContent() {
			logging.WarnWithContext(o.logger, "attempt failed after subtitles were written; keeping output", "fallback_rescued",
				logging.String("state", state.String()),
				logging.Error(attempt.Err),
				logging.Alert("partial_output"),
				logging.String(logging.FieldErrorHint, "inspect the subtitle file for truncation"),
				logging.String(logging.FieldImpact, "no further backends will be tried"),
			)
			result.Outcome = Success
			result.Rescued = true
			result.Cues = attempt.Cues
			return result, nil
		}

		nextState := Next(state, attempt.Outcome)
		switch {
		case attempt.Outcome == AttemptSuccess:
			result.Outcome = Success
			result.Cues = attempt.Cues
			result.Silence = attempt.Cues == 0
			if result.Silence {
				o.logger.Info("no speech in short clip; accepting empty subtitles",
					logging.Float64("duration_seconds", attempt.Duration),
					logging.Float64("short_clip_seconds", o.opts.ShortClipSeconds),
				)
			}
			return result, nil
		case nextState == StateDone && attempt.Outcome == AttemptEmpty:
			result.Outcome = Exhausted
			result.Err = services.Wrap(services.ErrEmptyResult, "fallback", "run",
				fmt.Sprintf("no cues after %d attempts", len(result.Attempts)), nil)
			logging.ErrorWithContext(o.logger, "all backends produced empty results", "fallback_exhausted",
				logging.Int("attempts", len(result.Attempts)),
				logging.Float64("duration_seconds", attempt.Duration),
				logging.String(logging.FieldErrorHint, "check the audio has speech and the language setting"),
			)
			return result, nil
		case nextState == StateDone:
			result.Outcome = Failed
			result.Err = attempt.Err
			logging.ErrorWithContext(o.logger, "transcription failed on cpu", "fallback_failed",
				logging.String("plan", attempt.Plan.String()),
				logging.Error(attempt.Err),
				logging.String(logging.FieldErrorHint, "run `transcribe doctor` to check the engine installation"),
			)
			return result, attempt.Err
		}

		logging.WarnWithContext(o.logger, "falling back to next backend", "fallback_transition",
			logging.String("from", state.String()),
			logging.String("to", nextState.String()),
			logging.String("trigger", attempt.Outcome.String()),
			logging.String("next_plan", o.opts.Ladder.Plan(nextState.Backend()).String()),
			logging.String(logging.FieldErrorHint, triggerHint(attempt)),
			logging.String(logging.FieldImpact, "transcription will be retried on a safer backend"),
		)
		state = nextState

		if err := ctx.Err(); err != nil {
			result.Outcome = Failed
			result.Err = err
			return result, err
		}
	}
	return result, nil
}

func triggerHint(a Attempt) string {
	if a.Err != nil {
		return a.Err.Error()
	}
	return fmt.Sprintf("0 cues on %.2fs of audio", a.Duration)
}

// attempt runs one rung. The second return value is set for errors that must
// end the run without further fallback.
func (o *Orchestrator) attempt(ctx context.Context, state State, audioPath string) (Attempt, error) {
	plan := o.opts.Ladder.Plan(state.Backend())
	a := Attempt{State: state, Plan: plan}
	started := o.now()

	ctx = services.WithBackend(ctx, plan.Backend.String())
	logger := logging.WithContext(ctx, o.logger)
	tracker := progress.NewTracker(o.progress, progress.PhaseTranscribe)
	tracker.Begin()

	logger.Info("loading model", logging.String("loader", o.loader.Name()), logging.String("plan", plan.String()))
	session, err := o.loader.Load(ctx, plan)
	if err != nil {
		return o.finish(a, started, AttemptRuntimeError, err)
	}

	req := engine.Request{
		AudioPath: audioPath,
		Language:  o.opts.Language,
		Progress:  tracker.Update,
	}
	transcript, err := session.Transcribe(ctx, req)
	if err == nil && len(transcript.Segments) == 0 && o.opts.VADRetry {
		logger.Warn("no segments detected; retrying with vad filter",
			logging.String(logging.FieldEventType, "vad_retry"),
			logging.String(logging.FieldErrorHint, "audio may be quiet or mostly silence"),
			logging.String(logging.FieldImpact, "attempt repeated once with voice activity detection"),
		)
		req.VADFilter = true
		tracker.Begin()
		transcript, err = session.Transcribe(ctx, req)
		a.VADRetried = true
	}
	if err != nil {
		if closeErr := session.Close(); closeErr != nil {
			logger.Debug("session close after failure", logging.Error(closeErr))
		}
		return o.finish(a, started, AttemptRuntimeError, err)
	}

	cues := engine.Cues(transcript.Segments, o.opts.MaxChars)
	a.Cues = len(cues)
	a.Segments = len(transcript.Segments)
	a.Language = transcript.Language
	a.Duration = transcript.Duration
	if a.Duration <= 0 {
		a.Duration = o.opts.AudioDuration
	}

	if err := o.output.Write(cues); err != nil {
		_ = session.Close()
		a.Err = err
		a.Outcome = AttemptRuntimeError
		return a, fmt.Errorf("write subtitles: %w", err)
	}

	if err := session.Close(); err != nil {
		return o.finish(a, started, AttemptRuntimeError,
			services.Wrap(services.ErrEngineRuntime, o.loader.Name(), "close session", "", err))
	}

	outcome := AttemptSuccess
	if IsDegenerate(a.Cues, a.Duration, o.opts.ShortClipSeconds) {
		outcome = AttemptEmpty
	}
	tracker.Complete()
	return o.finish(a, started, outcome, nil)
}

func (o *Orchestrator) finish(a Attempt, started time.Time, outcome AttemptOutcome, err error) (Attempt, error) {
	a.Outcome = outcome
	a.Err = err
	a.Elapsed = o.now().Sub(started)
	attrs := []logging.Attr{
		logging.String("state", a.State.String()),
		logging.String("plan", a.Plan.String()),
		logging.String("outcome", outcome.String()),
		logging.Int("cues", a.Cues),
		logging.Duration("elapsed", a.Elapsed),
	}
	if err != nil {
		attrs = append(attrs, logging.Error(err), logging.String("error_kind", services.Kind(err)))
	}
	o.logger.Info("attempt finished", logging.Args(attrs...)...)

	if err != nil && (services.IsFatal(err) || errors.Is(err, context.Canceled)) {
		return a, err
	}
	return a, nil
}
