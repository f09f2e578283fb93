package progress

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Bar renders progress as a terminal bar, one bar per phase change.
type Bar struct {
	mu    sync.Mutex
	w     io.Writer
	bar   *progressbar.ProgressBar
	phase Phase
	last  int
}

// NewBar returns a Bar that draws to w.
func NewBar(w io.Writer) *Bar {
	return &Bar{w: w}
}

// Report moves the bar, starting a fresh one when the phase changes or the
// value goes backwards (a new attempt).
func (b *Bar) Report(phase Phase, percent int) {
	percent = Clamp(percent)
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar == nil || b.phase != phase || percent < b.last {
		if b.bar != nil {
			_ = b.bar.Finish()
		}
		b.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(b.w),
			progressbar.OptionSetDescription(describe(phase)),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
		)
		b.phase = phase
	}
	b.last = percent
	_ = b.bar.Set(percent)
}

// Close finishes the current bar.
func (b *Bar) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar == nil {
		return nil
	}
	err := b.bar.Finish()
	b.bar = nil
	return err
}

func describe(phase Phase) string {
	if phase == PhaseDownload {
		return "downloading model"
	}
	return "transcribing"
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
