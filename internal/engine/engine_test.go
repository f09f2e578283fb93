package engine

import (
	"testing"

	"subgen/internal/subtitle"
)

func TestCuesMixesWordAndTextSegments(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 1.5, Text: "ABC", Words: []subtitle.Word{
			{Start: 0, End: 0.5, Text: "A"},
			{Start: 0.5, End: 1.0, Text: "B"},
			{Start: 1.0, End: 1.5, Text: "C"},
		}},
		{Start: 2, End: 3, Text: " plain "},
		{Start: 3, End: 4, Text: ""},
	}
	cues := Cues(segments, 2)
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %#v", cues)
	}
	if cues[0].Text != "AB" || cues[1].Text != "C" || cues[2].Text != "plain" {
		t.Fatalf("unexpected cue texts: %#v", cues)
	}
	for i, cue := range cues {
		if cue.Index != i+1 {
			t.Fatalf("expected index %d, got %d", i+1, cue.Index)
		}
	}
}

func TestCuesEmpty(t *testing.T) {
	if cues := Cues(nil, 20); len(cues) != 0 {
		t.Fatalf("expected no cues, got %#v", cues)
	}
}
