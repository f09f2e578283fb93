package deps

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// CUDA runtime markers. On Windows faster-whisper needs cuDNN 9 on PATH; on
// Linux the driver ships nvidia-smi and libcuda.
const (
	WindowsCUDNNLibrary = "cudnn_ops64_9.dll"
	LinuxCUDALibrary    = "libcuda.so.1"
	NvidiaSMICommand    = "nvidia-smi"
)

// CUDAStatus describes whether a usable CUDA runtime was found.
type CUDAStatus struct {
	Available bool
	Detail    string
}

// DetectCUDA looks for the CUDA runtime without loading it.
func DetectCUDA() CUDAStatus {
	if runtime.GOOS == "windows" {
		if path, ok := FindLibrary(WindowsCUDNNLibrary); ok {
			return CUDAStatus{Available: true, Detail: path}
		}
		return CUDAStatus{Detail: fmt.Sprintf("%s not found on PATH", WindowsCUDNNLibrary)}
	}
	smi := LookupOne(Tool{Name: "nvidia-smi", Command: NvidiaSMICommand})
	if !smi.Available {
		return CUDAStatus{Detail: smi.Detail}
	}
	if path, ok := FindLibrary(LinuxCUDALibrary); ok {
		return CUDAStatus{Available: true, Detail: path}
	}
	return CUDAStatus{Available: true, Detail: smi.Detail}
}

// FindLibrary searches the dynamic library search directories for name.
func FindLibrary(name string) (string, bool) {
	for _, dir := range librarySearchDirs() {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

func librarySearchDirs() []string {
	var dirs []string
	add := func(list string) {
		for _, dir := range filepath.SplitList(list) {
			if dir = strings.TrimSpace(dir); dir != "" {
				dirs = append(dirs, dir)
			}
		}
	}
	switch runtime.GOOS {
	case "windows":
		add(os.Getenv("PATH"))
	case "darwin":
		add(os.Getenv("DYLD_LIBRARY_PATH"))
	default:
		add(os.Getenv("LD_LIBRARY_PATH"))
		dirs = append(dirs,
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/usr/lib64",
			"/usr/lib",
			"/usr/local/cuda/lib64",
		)
	}
	return dirs
}
