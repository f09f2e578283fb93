package fasterwhisper

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"subgen/internal/fileutil"
)

//go:embed assets/helper.py
var helperScript []byte

// WriteHelper materializes the helper script in dir and returns its path.
// An identical existing copy is left untouched.
func WriteHelper(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create helper dir: %w", err)
	}
	path := filepath.Join(dir, HelperFileName)
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, helperScript) {
		return path, nil
	}
	if err := fileutil.WriteFileAtomic(path, helperScript, 0o644); err != nil {
		return "", fmt.Errorf("write helper script: %w", err)
	}
	return path, nil
}

// HelperEnv returns the environment for helper processes. The hub endpoint
// is set explicitly and offline mode is cleared so downloads can proceed.
func HelperEnv(base []string, hfEndpoint string) []string {
	env := make([]string, 0, len(base)+3)
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		switch key {
		case "HF_HUB_OFFLINE", "HF_ENDPOINT", "PYTHONIOENCODING":
			continue
		}
		env = append(env, kv)
	}
	if hfEndpoint != "" {
		env = append(env, "HF_ENDPOINT="+hfEndpoint)
	}
	return append(env,
		"HF_HUB_DISABLE_SYMLINKS_WARNING=1",
		"PYTHONIOENCODING=utf-8",
	)
}
