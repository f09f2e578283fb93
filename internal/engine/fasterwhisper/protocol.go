package fasterwhisper

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"subgen/internal/engine"
	"subgen/internal/services"
	"subgen/internal/subtitle"
)

// Event kinds emitted by the helper.
const (
	eventDownload = "download"
	eventModel    = "model"
	eventReady    = "ready"
	eventInfo     = "info"
	eventSegment  = "segment"
	eventDone     = "done"
	eventError    = "error"
)

// Error kinds carried by error events.
const (
	kindBackendUnavailable = "backend_unavailable"
	kindRuntime            = "runtime"
	kindModel              = "model"
)

type wordEvent struct {
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Word        string  `json:"word"`
	Probability float64 `json:"probability"`
}

type event struct {
	Event               string      `json:"event"`
	Kind                string      `json:"kind,omitempty"`
	Message             string      `json:"message,omitempty"`
	Percent             float64     `json:"percent,omitempty"`
	Path                string      `json:"path,omitempty"`
	Device              string      `json:"device,omitempty"`
	ComputeType         string      `json:"compute_type,omitempty"`
	Language            string      `json:"language,omitempty"`
	LanguageProbability float64     `json:"language_probability,omitempty"`
	Duration            float64     `json:"duration,omitempty"`
	Start               float64     `json:"start,omitempty"`
	End                 float64     `json:"end,omitempty"`
	Text                string      `json:"text,omitempty"`
	Words               []wordEvent `json:"words,omitempty"`
	Segments            int         `json:"segments,omitempty"`
}

type request struct {
	Audio     string `json:"audio"`
	Language  string `json:"language,omitempty"`
	VADFilter bool   `json:"vad_filter"`
}

// eventReader decodes one event per line. Lines that are not JSON objects
// (stray library output) are skipped.
type eventReader struct {
	scanner *bufio.Scanner
}

func newEventReader(r io.Reader) *eventReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventLineBytes)
	return &eventReader{scanner: scanner}
}

// next returns the next event, or io.EOF when the stream ends.
func (r *eventReader) next() (event, error) {
	for r.scanner.Scan() {
		line := strings.TrimSpace(r.scanner.Text())
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var ev event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			continue
		}
		if ev.Event == "" {
			continue
		}
		return ev, nil
	}
	if err := r.scanner.Err(); err != nil {
		return event{}, err
	}
	return event{}, io.EOF
}

// errorFromEvent maps a helper error event to the repository error markers.
func errorFromEvent(operation string, ev event) error {
	marker := services.ErrEngineRuntime
	switch ev.Kind {
	case kindBackendUnavailable:
		marker = services.ErrBackendUnavailable
	case kindModel:
		marker = services.ErrModelAcquisition
	}
	return services.Wrap(marker, "faster-whisper", operation, ev.Message, nil)
}

func segmentFromEvent(ev event) engine.Segment {
	seg := engine.Segment{Start: ev.Start, End: ev.End, Text: ev.Text}
	if len(ev.Words) > 0 {
		seg.Words = make([]subtitle.Word, 0, len(ev.Words))
		for _, w := range ev.Words {
			seg.Words = append(seg.Words, subtitle.Word{Start: w.Start, End: max(w.End, w.Start), Text: w.Word})
		}
	}
	return seg
}

func progressFor(end, duration float64) int {
	if duration <= 0 {
		return 0
	}
	return int(end * 100 / duration)
}

func encodeRequest(req engine.Request) ([]byte, error) {
	data, err := json.Marshal(request{Audio: req.AudioPath, Language: req.Language, VADFilter: req.VADFilter})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return append(data, '\n'), nil
}
