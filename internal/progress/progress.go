package progress

import (
	"fmt"
	"io"
	"sync"
)

// Phase tags a progress signal.
type Phase string

const (
	PhaseDownload   Phase = "download"
	PhaseTranscribe Phase = "transcribe"
)

// Tag returns the protocol prefix for the phase.
func (p Phase) Tag() string {
	switch p {
	case PhaseDownload:
		return "DOWNLOAD_PROGRESS"
	default:
		return "TRANS_PROGRESS"
	}
}

// Reporter receives progress signals. Implementations must not block.
type Reporter interface {
	Report(phase Phase, percent int)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(phase Phase, percent int)

// Report calls f.
func (f ReporterFunc) Report(phase Phase, percent int) { f(phase, percent) }

// Nop discards every signal.
var Nop Reporter = ReporterFunc(func(Phase, int) {})

type flusher interface {
	Flush() error
}

type syncer interface {
	Sync() error
}

// LineWriter writes the line protocol and flushes after every line.
// Consecutive duplicate values for the same phase are dropped, except 0,
// which marks the start of an attempt.
type LineWriter struct {
	mu   sync.Mutex
	w    io.Writer
	last map[Phase]int
}

// NewLineWriter returns a LineWriter for w.
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: w, last: make(map[Phase]int)}
}

// Report writes "TAG: N".
func (l *LineWriter) Report(phase Phase, percent int) {
	if l == nil || l.w == nil {
		return
	}
	percent = Clamp(percent)

	l.mu.Lock()
	defer l.mu.Unlock()
	if prev, ok := l.last[phase]; ok && prev == percent && percent != 0 {
		return
	}
	l.last[phase] = percent

	_, _ = fmt.Fprintf(l.w, "%s: %d\n", phase.Tag(), percent)
	switch f := l.w.(type) {
	case flusher:
		_ = f.Flush()
	case syncer:
		_ = f.Sync()
	}
}

// Multi fans out to every non-nil reporter.
func Multi(reporters ...Reporter) Reporter {
	filtered := make([]Reporter, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			filtered = append(filtered, r)
		}
	}
	switch len(filtered) {
	case 0:
		return Nop
	case 1:
		return filtered[0]
	}
	return ReporterFunc(func(phase Phase, percent int) {
		for _, r := range filtered {
			r.Report(phase, percent)
		}
	})
}

// Clamp bounds percent to 0..100.
func Clamp(percent int) int {
	return max(0, min(100, percent))
}
