package preflight

import (
	"context"

	"subgen/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckDirectoryAccess("Model directory", cfg.Paths.ModelDir)}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	for _, status := range CheckSystemDeps(cfg) {
		results = append(results, Result{
			Name:     status.Name,
			Passed:   status.Available,
			Optional: status.Optional,
			Detail:   status.Detail,
		})
	}

	switch cfg.Transcription.Engine {
	case config.EngineStreaming:
		results = append(results, CheckStreamingModel(cfg))
	case config.EngineNeural:
		results = append(results, CheckGPU(cfg.Neural.GPU))
		if cfg.Neural.Runtime == config.RuntimeFasterWhisper {
			results = append(results, CheckPythonModule(ctx, cfg.Neural.Python, "faster_whisper"))
		}
	}
	return results
}
