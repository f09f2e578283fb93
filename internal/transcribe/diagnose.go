package transcribe

import (
	"context"
	"errors"
	"time"

	"subgen/internal/backend"
	"subgen/internal/config"
	"subgen/internal/engine"
	"subgen/internal/language"
	"subgen/internal/logging"
	"subgen/internal/progress"
	"subgen/internal/services"
)

// PlanReport is the outcome of running one backend plan in isolation.
type PlanReport struct {
	Plan      backend.Plan
	Status    string
	Segments  int
	Elapsed   time.Duration
	FirstText string
	Err       error
}

// Plan report statuses.
const (
	StatusOK          = "ok"
	StatusEmpty       = "empty"
	StatusUnavailable = "unavailable"
	StatusError       = "error"
)

// Diagnose runs every device and precision combination once against
// audioPath without fallback or output, so a user can see which plans work
// on this host. Model acquisition errors end the sweep.
func (s *Service) Diagnose(ctx context.Context, audioPath string) ([]PlanReport, error) {
	logger := logging.WithContext(services.WithEngine(ctx, s.cfg.Transcription.Engine), s.logger)
	lang, err := language.Normalize(s.cfg.Transcription.Language)
	if err != nil {
		return nil, err
	}

	loader := s.loader
	if loader == nil {
		if loader, err = s.acquire(ctx, logger, progress.Multi(s.progress, newProgressLog(logger))); err != nil {
			return nil, err
		}
	}

	plans := []backend.Plan{backend.CPUOnly(streamingComputeType).CPU}
	if s.cfg.Transcription.Engine == config.EngineNeural {
		plans = backend.DiagnosticPlans(backend.LadderFromConfig(s.cfg.Neural))
	}

	reports := make([]PlanReport, 0, len(plans))
	for _, plan := range plans {
		report := s.runPlan(ctx, loader, plan, engine.Request{AudioPath: audioPath, Language: lang})
		logger.Info("diagnostic plan finished",
			logging.String("plan", plan.String()),
			logging.String("status", report.Status),
			logging.Int("segments", report.Segments),
			logging.Duration("elapsed", report.Elapsed),
		)
		reports = append(reports, report)
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		if services.IsFatal(report.Err) {
			return reports, report.Err
		}
	}
	return reports, nil
}

func (s *Service) runPlan(ctx context.Context, loader engine.Loader, plan backend.Plan, req engine.Request) PlanReport {
	report := PlanReport{Plan: plan}
	started := time.Now()

	session, err := loader.Load(ctx, plan)
	if err != nil {
		return classify(report, err, started)
	}
	transcript, err := session.Transcribe(ctx, req)
	closeErr := session.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		return classify(report, err, started)
	}

	report.Segments = len(transcript.Segments)
	report.Status = StatusOK
	if report.Segments == 0 {
		report.Status = StatusEmpty
	} else {
		report.FirstText = transcript.Segments[0].Text
	}
	report.Elapsed = time.Since(started)
	return report
}

func classify(report PlanReport, err error, started time.Time) PlanReport {
	report.Err = err
	report.Status = StatusError
	if errors.Is(err, services.ErrBackendUnavailable) {
		report.Status = StatusUnavailable
	}
	report.Elapsed = time.Since(started)
	return report
}
