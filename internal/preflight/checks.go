package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"subgen/internal/backend"
	"subgen/internal/config"
	"subgen/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the binaries the selected engine needs.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	var tools []deps.Tool
	if cfg.Transcription.Engine == config.EngineNeural {
		if cfg.Neural.Runtime == config.RuntimeFasterWhisper {
			tools = append(tools, deps.Tool{
				Name:    "Python",
				Command: cfg.Neural.Python,
				Purpose: "runs the faster-whisper helper",
			})
		}
		tools = append(tools, deps.Tool{
			Name:     "nvidia-smi",
			Command:  deps.NvidiaSMICommand,
			Purpose:  "enables gpu backends",
			Optional: true,
		})
	}
	return deps.Lookup(tools)
}

// CheckGPU reports what the gpu setting resolves to on this host.
func CheckGPU(mode string) Result {
	availability := backend.ProbeGPU(mode)
	result := Result{Name: "GPU runtime", Passed: availability.GPU, Optional: true, Detail: availability.Detail}
	if !availability.GPU && result.Detail == "" {
		result.Detail = "cpu only"
	}
	return result
}

// CheckStreamingModel reports whether the Vosk model is already extracted.
// A missing model is not a failure because the first run downloads it.
func CheckStreamingModel(cfg *config.Config) Result {
	const name = "Vosk model"
	path := cfg.StreamingModelPath()
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return Result{Name: name, Passed: true, Detail: path}
	case err == nil:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	default:
		return Result{Name: name, Passed: true, Optional: true, Detail: fmt.Sprintf("not downloaded; will fetch %s", cfg.Streaming.ModelURL)}
	}
}

// CheckPythonModule verifies that the interpreter can import module. It uses
// a 30-second timeout and a single attempt.
func CheckPythonModule(ctx context.Context, python, module string) Result {
	name := fmt.Sprintf("Python module %s", module)
	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(checkCtx, python, "-c", "import "+module)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{Name: name, Detail: summarizeImportError(checkCtx, err, output)}
	}
	return Result{Name: name, Passed: true, Detail: "importable"}
}

func summarizeImportError(ctx context.Context, err error, output []byte) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "import timed out"
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return fmt.Sprintf("interpreter not found (%v)", execErr.Err)
	}
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if last := strings.TrimSpace(lines[len(lines)-1]); last != "" {
		return last
	}
	return err.Error()
}
