// Package whispercpp runs GGML Whisper models in-process through the
// whisper.cpp bindings. The cgo code is compiled only with the
// "whisper_cpp" build tag.
package whispercpp

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"subgen/internal/engine"
	"subgen/internal/logging"
	"subgen/internal/subtitle"
)

// Config captures whisper.cpp settings.
type Config struct {
	// ModelPath is a GGML model file.
	ModelPath string
	// Threads is the decoder thread count; zero keeps the library default.
	Threads int
}

// ModelPath resolves a model name to <dir>/ggml-<name>.bin. Values that
// already look like a file path are returned unchanged.
func ModelPath(dir, model string) string {
	model = strings.TrimSpace(model)
	if strings.HasSuffix(model, ".bin") || strings.ContainsRune(model, filepath.Separator) {
		return model
	}
	return filepath.Join(dir, fmt.Sprintf("ggml-%s.bin", model))
}

// Loader loads whisper.cpp models. This build runs on the CPU only.
type Loader struct {
	cfg    Config
	logger *slog.Logger
}

// NewLoader creates a Loader.
func NewLoader(cfg Config, logger *slog.Logger) *Loader {
	return &Loader{cfg: cfg, logger: logging.NewComponentLogger(logger, "whisper-cpp")}
}

// Name identifies the engine in logs.
func (l *Loader) Name() string { return "whisper-cpp" }

type token struct {
	text       string
	start, end time.Duration
}

// isSpecialToken reports control tokens such as [_BEG_] or <|endoftext|>.
func isSpecialToken(text string) bool {
	return strings.HasPrefix(text, "[_") || strings.HasPrefix(text, "<|")
}

// buildSegment turns decoder output into an engine segment. Tokens carry the
// leading whitespace, so concatenating them reproduces the segment text.
func buildSegment(start, end time.Duration, text string, tokens []token) engine.Segment {
	seg := engine.Segment{
		Start: start.Seconds(),
		End:   end.Seconds(),
		Text:  strings.TrimSpace(text),
	}
	for _, tok := range tokens {
		if tok.text == "" || isSpecialToken(tok.text) {
			continue
		}
		seg.Words = append(seg.Words, subtitle.Word{
			Start: tok.start.Seconds(),
			End:   max(tok.end, tok.start).Seconds(),
			Text:  tok.text,
		})
	}
	return seg
}
