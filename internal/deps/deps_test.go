package deps

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestLookup(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	tools := []Tool{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := Lookup(tools)
	if len(results) != len(tools) {
		t.Fatalf("expected %d results, got %d", len(tools), len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Path != present || results[0].Name != "Present" {
		t.Fatalf("expected resolved path, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}
}

func TestFindLibrary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("library search path differs on windows")
	}
	dir := t.TempDir()
	name := "libsubgen-test.so"
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatalf("write lib: %v", err)
	}
	key := "LD_LIBRARY_PATH"
	if runtime.GOOS == "darwin" {
		key = "DYLD_LIBRARY_PATH"
	}
	t.Setenv(key, dir)

	path, ok := FindLibrary(name)
	if !ok || path != filepath.Join(dir, name) {
		t.Fatalf("expected library found in %s, got %q %v", dir, path, ok)
	}
	if _, ok := FindLibrary("libdefinitely-missing.so.42"); ok {
		t.Fatal("expected missing library not found")
	}
}

func TestDetectCUDAWithoutDriver(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("windows probes cuDNN on PATH")
	}
	t.Setenv("PATH", t.TempDir())
	status := DetectCUDA()
	if status.Available {
		t.Fatal("expected CUDA unavailable without nvidia-smi")
	}
	if status.Detail == "" {
		t.Fatal("expected detail when CUDA is unavailable")
	}
}
