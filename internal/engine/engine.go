// Package engine defines the contract between the fallback orchestrator and
// the wrapped speech-recognition engines.
//
// A Loader turns a backend plan into a Session. A Session transcribes one
// request and must release its acceleration context on Close so the next
// plan can load in the same process.
package engine

import (
	"context"

	"subgen/internal/backend"
	"subgen/internal/subtitle"
)

// Request describes one transcription pass.
type Request struct {
	AudioPath string
	// Language is an ISO 639-1 code; empty lets the engine detect it.
	Language  string
	VADFilter bool
	// Progress receives 0..100 as the engine advances through the audio.
	Progress func(percent int)
}

// Segment is a span of transcript. Words is empty when the engine did not
// produce word-level timings.
type Segment struct {
	Start float64
	End   float64
	Text  string
	Words []subtitle.Word
}

// Transcript is the engine output for one request.
type Transcript struct {
	Language            string
	LanguageProbability float64
	Duration            float64
	Segments            []Segment
}

// Session is a loaded model bound to one backend plan.
type Session interface {
	Transcribe(ctx context.Context, req Request) (Transcript, error)
	Close() error
}

// Loader loads a model for a backend plan. Loaders return an error wrapping
// services.ErrBackendUnavailable when the plan's device cannot be used.
type Loader interface {
	Name() string
	Load(ctx context.Context, plan backend.Plan) (Session, error)
}

// ReportProgress calls fn when it is set.
func (r Request) ReportProgress(percent int) {
	if r.Progress != nil {
		r.Progress(percent)
	}
}

// Cues converts segments into numbered cues. Segments with word timings are
// split by maxChars; the rest become one cue each.
func Cues(segments []Segment, maxChars int) []subtitle.Cue {
	builder := subtitle.NewBuilder(maxChars)
	for _, seg := range segments {
		if len(seg.Words) > 0 {
			builder.AddWords(seg.Words)
			continue
		}
		builder.AddText(seg.Start, seg.End, seg.Text)
	}
	return builder.Cues()
}
