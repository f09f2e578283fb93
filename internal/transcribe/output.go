package transcribe

import (
	"fmt"
	"os"

	"subgen/internal/fileutil"
	"subgen/internal/subtitle"
)

// fileOutput persists attempt cues to the SRT path.
type fileOutput struct {
	path     string
	minBytes int64
	written  bool
}

func newFileOutput(path string, minBytes int64) *fileOutput {
	return &fileOutput{path: path, minBytes: minBytes}
}

// Write replaces the file with cues. Zero cues still produce an empty file.
func (o *fileOutput) Write(cues []subtitle.Cue) error {
	if err := fileutil.WriteFileAtomic(o.path, []byte(subtitle.Render(cues)), 0o644); err != nil {
		return fmt.Errorf("write subtitles %s: %w", o.path, err)
	}
	o.written = true
	return nil
}

// HasContent only counts files written by this run.
func (o *fileOutput) HasContent() bool {
	return o.written && fileutil.HasContent(o.path, o.minBytes)
}

// discardTrivial removes the output unless it holds real content.
func (o *fileOutput) discardTrivial() bool {
	if fileutil.HasContent(o.path, o.minBytes) {
		return false
	}
	return os.Remove(o.path) == nil
}
