package subtitle

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{59.9994, "00:00:59,999"},
		{3661.234, "01:01:01,234"},
		{90000, "25:00:00,000"},
		{-3, "00:00:00,000"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("01:01:01,234")
	if err != nil {
		t.Fatalf("ParseTimestamp: %v", err)
	}
	if got < 3661.2339 || got > 3661.2341 {
		t.Fatalf("unexpected seconds %v", got)
	}
	if _, err := ParseTimestamp("00:00:01.500"); err != nil {
		t.Fatalf("expected period separator accepted: %v", err)
	}
	for _, bad := range []string{"", "1:2", "aa:bb:cc,ddd", "00:00:01"} {
		if _, err := ParseTimestamp(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestRender(t *testing.T) {
	cues := []Cue{
		{Index: 1, Start: 0, End: 1, Text: "AB"},
		{Index: 2, Start: 1, End: 1.5, Text: "你好"},
	}
	want := "1\n00:00:00,000 --> 00:00:01,000\nAB\n\n" +
		"2\n00:00:01,000 --> 00:00:01,500\n你好\n\n"
	if got := Render(cues); got != want {
		t.Fatalf("unexpected render:\n%q\nwant\n%q", got, want)
	}
	if Render(nil) != "" {
		t.Fatal("expected empty render for no cues")
	}
}

func TestCountCuesAndBounds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.srt")
	cues := []Cue{
		{Index: 1, Start: 2, End: 3, Text: "one"},
		{Index: 2, Start: 3, End: 7.25, Text: "two"},
		{Index: 3, Start: 8, End: 9, Text: "three"},
	}
	if err := os.WriteFile(path, []byte(Render(cues)), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	count, err := CountCues(path)
	if err != nil {
		t.Fatalf("CountCues: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 cues, got %d", count)
	}
	first, last, err := Bounds(path)
	if err != nil {
		t.Fatalf("Bounds: %v", err)
	}
	if first != 2 || last != 9 {
		t.Fatalf("unexpected bounds %v..%v", first, last)
	}

	empty := filepath.Join(dir, "empty.srt")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if count, err := CountCues(empty); err != nil || count != 0 {
		t.Fatalf("expected 0 cues for empty file, got %d (%v)", count, err)
	}
	if _, err := CountCues(filepath.Join(dir, "missing.srt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
