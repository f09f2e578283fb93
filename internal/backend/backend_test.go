package backend

import (
	"testing"

	"subgen/internal/config"
	"subgen/internal/deps"
)

func TestLadderFromConfig(t *testing.T) {
	cfg := config.Default()
	ladder := LadderFromConfig(cfg.Neural)

	tests := []struct {
		backend Backend
		device  string
		compute string
	}{
		{GPUPrimary, DeviceCUDA, "int8"},
		{GPUSafePrecision, DeviceCUDA, "int8_float32"},
		{CPU, DeviceCPU, "int8"},
	}
	for _, tt := range tests {
		plan := ladder.Plan(tt.backend)
		if plan.Backend != tt.backend || plan.Device != tt.device || plan.ComputeType != tt.compute {
			t.Errorf("plan for %s = %+v", tt.backend, plan)
		}
	}
}

func TestBackendLabels(t *testing.T) {
	if GPUPrimary.String() != "gpu_primary" || GPUSafePrecision.String() != "gpu_safe_precision" || CPU.String() != "cpu" {
		t.Fatal("unexpected backend labels")
	}
	if !GPUPrimary.IsGPU() || !GPUSafePrecision.IsGPU() || CPU.IsGPU() {
		t.Fatal("unexpected IsGPU classification")
	}
}

func TestCPUOnlyLadder(t *testing.T) {
	ladder := CPUOnly("int8")
	for _, b := range []Backend{GPUPrimary, GPUSafePrecision, CPU} {
		if ladder.Plan(b).Device != DeviceCPU {
			t.Fatalf("expected cpu device for %s", b)
		}
	}
}

func TestDiagnosticPlansEndOnCPU(t *testing.T) {
	plans := DiagnosticPlans(LadderFromConfig(config.Default().Neural))
	if len(plans) != 5 {
		t.Fatalf("expected 5 plans, got %d: %v", len(plans), plans)
	}
	if last := plans[len(plans)-1]; last.Backend != CPU {
		t.Fatalf("expected cpu last, got %+v", last)
	}
}

func TestProbeModes(t *testing.T) {
	available := func() deps.CUDAStatus { return deps.CUDAStatus{Available: true, Detail: "libcuda"} }
	missing := func() deps.CUDAStatus { return deps.CUDAStatus{Detail: "not found"} }

	if got := probe(config.GPUOff, available); got.GPU {
		t.Fatal("expected gpu off to ignore detection")
	}
	if got := probe(config.GPUOn, missing); !got.GPU {
		t.Fatal("expected gpu on to force availability")
	}
	if got := probe(config.GPUAuto, available); !got.GPU || got.Detail != "libcuda" {
		t.Fatalf("unexpected auto probe %+v", got)
	}
	if got := probe(config.GPUAuto, missing); got.GPU {
		t.Fatal("expected auto probe to report missing runtime")
	}
}
