package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// FormatTimestamp renders elapsed seconds as HH:MM:SS,mmm. Hours are not
// wrapped at 24. Negative input is clamped to zero.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	totalMillis := int64(math.Round(seconds * 1000))
	hours := totalMillis / 3_600_000
	minutes := (totalMillis / 60_000) % 60
	secs := (totalMillis / 1000) % 60
	millis := totalMillis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// ParseTimestamp parses an SRT timestamp. A period is accepted in place of
// the millisecond comma.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// Write emits cues as SubRip blocks: index, time range, text, blank line.
func Write(w io.Writer, cues []Cue) error {
	bw := bufio.NewWriter(w)
	for _, cue := range cues {
		if _, err := fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n\n",
			cue.Index,
			FormatTimestamp(cue.Start),
			FormatTimestamp(cue.End),
			cue.Text,
		); err != nil {
			return fmt.Errorf("write cue %d: %w", cue.Index, err)
		}
	}
	return bw.Flush()
}

// Render returns cues as SRT text.
func Render(cues []Cue) string {
	var sb strings.Builder
	_ = Write(&sb, cues)
	return sb.String()
}

// CountCues counts the cue blocks in an SRT file.
func CountCues(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read srt: %w", err)
	}
	content := strings.TrimSpace(strings.ReplaceAll(string(data), "\r\n", "\n"))
	if content == "" {
		return 0, nil
	}
	count := 0
	for _, block := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count, nil
}

// Bounds returns the earliest start and latest end timestamp found in an SRT
// file. Unparseable time lines are skipped.
func Bounds(path string) (float64, float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read srt: %w", err)
	}
	first := math.Inf(1)
	var last float64
	found := false
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.Contains(line, "-->") {
			continue
		}
		parts := strings.Split(line, "-->")
		if len(parts) != 2 {
			continue
		}
		if start, err := ParseTimestamp(parts[0]); err == nil {
			first = min(first, start)
			found = true
		}
		if end, err := ParseTimestamp(parts[1]); err == nil {
			last = max(last, end)
		}
	}
	if !found {
		return 0, last, nil
	}
	return first, last, nil
}
