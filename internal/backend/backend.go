// Package backend names the compute backends a neural attempt can run on and
// maps them to device and precision plans.
package backend

import (
	"fmt"

	"subgen/internal/config"
	"subgen/internal/deps"
)

// Backend is one rung of the fallback ladder.
type Backend int

const (
	GPUPrimary Backend = iota
	GPUSafePrecision
	CPU
)

// String returns the log label for b.
func (b Backend) String() string {
	switch b {
	case GPUPrimary:
		return "gpu_primary"
	case GPUSafePrecision:
		return "gpu_safe_precision"
	case CPU:
		return "cpu"
	default:
		return fmt.Sprintf("backend(%d)", int(b))
	}
}

// IsGPU reports whether b needs an acceleration runtime.
func (b Backend) IsGPU() bool {
	return b == GPUPrimary || b == GPUSafePrecision
}

// Devices.
const (
	DeviceCUDA = "cuda"
	DeviceCPU  = "cpu"
)

// Plan is the concrete device and numeric precision for a backend.
type Plan struct {
	Backend     Backend
	Device      string
	ComputeType string
}

func (p Plan) String() string {
	return fmt.Sprintf("%s/%s", p.Device, p.ComputeType)
}

// Ladder holds the plan for every backend.
type Ladder struct {
	Primary Plan
	Safe    Plan
	CPU     Plan
}

// LadderFromConfig builds the ladder from neural settings.
func LadderFromConfig(cfg config.Neural) Ladder {
	return Ladder{
		Primary: Plan{Backend: GPUPrimary, Device: DeviceCUDA, ComputeType: cfg.PrimaryComputeType},
		Safe:    Plan{Backend: GPUSafePrecision, Device: DeviceCUDA, ComputeType: cfg.SafeComputeType},
		CPU:     Plan{Backend: CPU, Device: DeviceCPU, ComputeType: cfg.CPUComputeType},
	}
}

// CPUOnly returns a ladder for engines that never use a GPU.
func CPUOnly(computeType string) Ladder {
	cpu := Plan{Backend: CPU, Device: DeviceCPU, ComputeType: computeType}
	return Ladder{Primary: cpu, Safe: cpu, CPU: cpu}
}

// Plan returns the plan for b.
func (l Ladder) Plan(b Backend) Plan {
	switch b {
	case GPUPrimary:
		return l.Primary
	case GPUSafePrecision:
		return l.Safe
	default:
		return l.CPU
	}
}

// DiagnosticPlans lists the device and precision combinations the diagnose
// command sweeps, ending with the CPU plan.
func DiagnosticPlans(l Ladder) []Plan {
	plans := []Plan{
		l.Primary,
		{Backend: GPUSafePrecision, Device: DeviceCUDA, ComputeType: "float16"},
		{Backend: GPUSafePrecision, Device: DeviceCUDA, ComputeType: "float32"},
	}
	if l.Safe.ComputeType != "float16" && l.Safe.ComputeType != "float32" {
		plans = append(plans, l.Safe)
	}
	return append(plans, l.CPU)
}

// Availability is the result of a GPU probe.
type Availability struct {
	GPU    bool
	Detail string
}

// Prober reports whether GPU backends can be attempted.
type Prober func() Availability

// ProbeGPU honours the configured gpu mode: off never uses the GPU, on always
// tries it, and auto looks for a CUDA runtime.
func ProbeGPU(mode string) Availability {
	return probe(mode, deps.DetectCUDA)
}

func probe(mode string, detect func() deps.CUDAStatus) Availability {
	switch mode {
	case config.GPUOff:
		return Availability{Detail: "gpu disabled by configuration"}
	case config.GPUOn:
		return Availability{GPU: true, Detail: "gpu forced by configuration"}
	default:
		status := detect()
		return Availability{GPU: status.Available, Detail: status.Detail}
	}
}
