package subtitle

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSegmentGroupsByCharacterBudget(t *testing.T) {
	words := []Word{
		{Start: 0.0, End: 0.5, Text: "A"},
		{Start: 0.5, End: 1.0, Text: "B"},
		{Start: 1.0, End: 1.5, Text: "C"},
	}
	cues, next := Segment(words, 2, 1)
	want := []Cue{
		{Index: 1, Start: 0.0, End: 1.0, Text: "AB"},
		{Index: 2, Start: 1.0, End: 1.5, Text: "C"},
	}
	if !reflect.DeepEqual(cues, want) {
		t.Fatalf("unexpected cues:\n got %#v\nwant %#v", cues, want)
	}
	if next != 3 {
		t.Fatalf("expected next index 3, got %d", next)
	}
}

func TestSegmentEmptyInput(t *testing.T) {
	cues, next := Segment(nil, 20, 7)
	if cues != nil {
		t.Fatalf("expected nil cues, got %#v", cues)
	}
	if next != 7 {
		t.Fatalf("expected start index returned unchanged, got %d", next)
	}
}

func TestSegmentSkipsBlankGroups(t *testing.T) {
	cues, next := Segment([]Word{{0, 0.5, ""}, {0.5, 1, " "}}, 2, 1)
	if len(cues) != 0 || next != 1 {
		t.Fatalf("expected no cues and next 1, got %#v next=%d", cues, next)
	}

	words := []Word{{0, 0.5, "A"}, {0.5, 1, "  "}, {1, 1.5, "B"}, {1.5, 2, ""}}
	cues, next = Segment(words, 1, 1)
	want := []Cue{
		{Index: 1, Start: 0, End: 0.5, Text: "A"},
		{Index: 2, Start: 1, End: 1.5, Text: "B"},
	}
	if !reflect.DeepEqual(cues, want) || next != 3 {
		t.Fatalf("unexpected cues:\n got %#v next=%d\nwant %#v", cues, next, want)
	}
}

func TestSegmentOverlongWordStandsAlone(t *testing.T) {
	words := []Word{
		{Start: 0, End: 1, Text: "ab"},
		{Start: 1, End: 2, Text: "abcdefgh"},
		{Start: 2, End: 3, Text: "c"},
	}
	cues, _ := Segment(words, 4, 1)
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d: %#v", len(cues), cues)
	}
	if cues[1].Text != "abcdefgh" {
		t.Fatalf("expected over-long word kept whole, got %q", cues[1].Text)
	}
	if cues[0].Text != "ab" || cues[2].Text != "c" {
		t.Fatalf("unexpected neighbours: %#v", cues)
	}
}

func TestSegmentCountsRunes(t *testing.T) {
	words := []Word{
		{Start: 0, End: 0.4, Text: "你好"},
		{Start: 0.4, End: 0.8, Text: "世界"},
		{Start: 0.8, End: 1.2, Text: "朋友"},
	}
	cues, _ := Segment(words, 4, 1)
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %#v", cues)
	}
	if cues[0].Text != "你好世界" || cues[1].Text != "朋友" {
		t.Fatalf("unexpected grouping: %#v", cues)
	}
}

func TestSegmentInvariants(t *testing.T) {
	inputs := [][]Word{
		{{0, 1, "the"}, {1, 2, "quick"}, {2, 3, "brown"}, {3, 4, "fox"}},
		{{0, 1, "一"}, {1, 2, "二三四五六七"}, {2, 3, "八"}, {3, 4, "九十"}},
		{{0, 0.1, "x"}},
		{{0, 1, "longerthanbudget"}, {1, 2, "again-long-word"}},
	}
	for _, words := range inputs {
		for _, maxChars := range []int{1, 2, 3, 5, 8, 20} {
			for _, start := range []int{1, 4} {
				cues, next := Segment(words, maxChars, start)
				first, _ := Segment(words, maxChars, start)
				if !reflect.DeepEqual(cues, first) {
					t.Fatalf("segment not idempotent for %v", words)
				}

				var gotText, wantText strings.Builder
				for _, w := range words {
					wantText.WriteString(w.Text)
				}
				for i, cue := range cues {
					if cue.Index != start+i {
						t.Fatalf("non-contiguous index %d at position %d", cue.Index, i)
					}
					if i > 0 && cue.Start < cues[i-1].Start {
						t.Fatalf("cues out of order: %#v", cues)
					}
					if cue.Start > cue.End {
						t.Fatalf("cue start after end: %#v", cue)
					}
					if cue.Text == "" {
						t.Fatalf("empty cue text")
					}
					if utf8.RuneCountInString(cue.Text) > maxChars && !isSingleWord(words, cue.Text) {
						t.Fatalf("cue %q exceeds %d chars", cue.Text, maxChars)
					}
					gotText.WriteString(cue.Text)
				}
				if gotText.String() != wantText.String() {
					t.Fatalf("text mismatch: got %q want %q", gotText.String(), wantText.String())
				}
				if next != start+len(cues) {
					t.Fatalf("expected next %d, got %d", start+len(cues), next)
				}
			}
		}
	}
}

func isSingleWord(words []Word, text string) bool {
	for _, w := range words {
		if w.Text == text {
			return true
		}
	}
	return false
}

func TestBuilderKeepsIndexContiguousAcrossSegments(t *testing.T) {
	b := NewBuilder(2)
	b.AddWords([]Word{{0, 0.5, "A"}, {0.5, 1, "B"}, {1, 1.5, "C"}})
	b.AddText(2, 3, "  hello  ")
	b.AddText(3, 4, "   ")
	b.AddWords([]Word{{4, 5, "D"}})

	cues := b.Cues()
	if len(cues) != 4 {
		t.Fatalf("expected 4 cues, got %#v", cues)
	}
	for i, cue := range cues {
		if cue.Index != i+1 {
			t.Fatalf("expected index %d, got %d", i+1, cue.Index)
		}
	}
	if cues[2].Text != "hello" {
		t.Fatalf("expected trimmed text, got %q", cues[2].Text)
	}

	b.Reset()
	if b.Len() != 0 {
		t.Fatalf("expected reset to clear cues")
	}
	b.AddWords([]Word{{0, 1, "Z"}})
	if got := b.Cues()[0].Index; got != 1 {
		t.Fatalf("expected numbering to restart at 1, got %d", got)
	}
}
