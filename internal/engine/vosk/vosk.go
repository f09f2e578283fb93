// Package vosk adapts the Vosk (Kaldi) streaming recognizer to the engine
// contract. The cgo binding is compiled only with the "vosk" build tag;
// without it every plan reports the backend as unavailable.
package vosk

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"subgen/internal/engine"
	"subgen/internal/logging"
	"subgen/internal/subtitle"
)

// Config captures recognizer settings.
type Config struct {
	// ModelDir is an extracted Vosk model directory.
	ModelDir string
	// ChunkFrames is how many frames are fed per AcceptWaveform call.
	ChunkFrames int
}

// DefaultChunkFrames matches the chunk size the recognizer is tuned for.
const DefaultChunkFrames = 4000

// Loader loads Vosk models. Vosk only runs on the CPU.
type Loader struct {
	cfg    Config
	logger *slog.Logger
}

// NewLoader creates a Loader.
func NewLoader(cfg Config, logger *slog.Logger) *Loader {
	if cfg.ChunkFrames <= 0 {
		cfg.ChunkFrames = DefaultChunkFrames
	}
	return &Loader{cfg: cfg, logger: logging.NewComponentLogger(logger, "vosk")}
}

// Name identifies the engine in logs.
func (l *Loader) Name() string { return "vosk" }

type resultWord struct {
	Conf  float64 `json:"conf"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Word  string  `json:"word"`
}

type result struct {
	Result []resultWord `json:"result"`
	Text   string       `json:"text"`
}

// DecodeResult parses one Result/FinalResult record. ok is false when the
// record carries no words.
func DecodeResult(raw string) (engine.Segment, bool, error) {
	var res result
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return engine.Segment{}, false, fmt.Errorf("decode vosk result: %w", err)
	}
	if len(res.Result) == 0 {
		return engine.Segment{}, false, nil
	}
	seg := engine.Segment{
		Start: res.Result[0].Start,
		End:   res.Result[len(res.Result)-1].End,
		Text:  strings.TrimSpace(res.Text),
		Words: make([]subtitle.Word, 0, len(res.Result)),
	}
	for _, w := range res.Result {
		seg.Words = append(seg.Words, subtitle.Word{Start: w.Start, End: max(w.End, w.Start), Text: w.Word})
	}
	return seg, true, nil
}

func framesPercent(read, total int) int {
	if total <= 0 {
		return 0
	}
	return read * 100 / total
}
