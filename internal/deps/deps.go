package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool is an external executable an engine shells out to.
type Tool struct {
	Name     string
	Command  string
	Purpose  string
	Optional bool
}

// Status is the lookup result for a Tool. Path is the resolved executable.
type Status struct {
	Tool
	Available bool
	Path      string
	Detail    string
}

// Lookup resolves every tool on PATH, preserving order.
func Lookup(tools []Tool) []Status {
	out := make([]Status, 0, len(tools))
	for _, tool := range tools {
		out = append(out, LookupOne(tool))
	}
	return out
}

// LookupOne resolves a single tool. Absolute commands are checked directly.
func LookupOne(tool Tool) Status {
	tool.Command = strings.TrimSpace(tool.Command)
	tool.Purpose = strings.TrimSpace(tool.Purpose)
	status := Status{Tool: tool}
	if tool.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	path, err := exec.LookPath(tool.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("%q not found on PATH", tool.Command)
		return status
	}
	status.Available = true
	status.Path = path
	status.Detail = path
	return status
}
