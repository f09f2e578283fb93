package progress

import "sync"

// Tracker forwards a single phase to a Reporter while keeping values
// non-decreasing. Begin resets the floor to 0 for a new attempt.
type Tracker struct {
	mu      sync.Mutex
	sink    Reporter
	phase   Phase
	current int
	started bool
}

// NewTracker returns a Tracker for phase.
func NewTracker(sink Reporter, phase Phase) *Tracker {
	if sink == nil {
		sink = Nop
	}
	return &Tracker{sink: sink, phase: phase}
}

// Begin starts a new attempt and emits 0.
func (t *Tracker) Begin() {
	t.mu.Lock()
	t.current = 0
	t.started = true
	t.mu.Unlock()
	t.sink.Report(t.phase, 0)
}

// Update emits percent when it moves forward.
func (t *Tracker) Update(percent int) {
	percent = Clamp(percent)
	t.mu.Lock()
	if t.started && percent <= t.current {
		t.mu.Unlock()
		return
	}
	t.current = percent
	t.started = true
	t.mu.Unlock()
	t.sink.Report(t.phase, percent)
}

// Complete emits 100.
func (t *Tracker) Complete() {
	t.Update(100)
}

// Current returns the last emitted value.
func (t *Tracker) Current() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Func returns Update as a plain callback for engines.
func (t *Tracker) Func() func(int) {
	return t.Update
}
