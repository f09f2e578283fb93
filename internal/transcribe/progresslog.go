package transcribe

import (
	"log/slog"
	"sync"

	"subgen/internal/logging"
	"subgen/internal/progress"
)

// progressLog mirrors progress signals into the debug log in 25% steps.
type progressLog struct {
	mu      sync.Mutex
	logger  *slog.Logger
	sampler *logging.ProgressSampler
}

func newProgressLog(logger *slog.Logger) *progressLog {
	return &progressLog{logger: logger, sampler: logging.NewProgressSampler(25)}
}

func (p *progressLog) Report(phase progress.Phase, percent int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// Attempts restart at zero.
	if percent == 0 {
		p.sampler.Reset()
	}
	if !p.sampler.ShouldLog(float64(percent), phase.Tag()) {
		return
	}
	p.logger.Debug("progress",
		logging.String("phase", phase.Tag()),
		logging.Int("percent", percent),
	)
}
