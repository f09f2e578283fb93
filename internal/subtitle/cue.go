package subtitle

import (
	"strings"
	"unicode/utf8"
)

// Word is a timed transcript unit produced by an engine. Times are seconds
// from the start of the audio.
type Word struct {
	Start float64
	End   float64
	Text  string
}

// Cue is one timed SubRip entry.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Segment groups words into cues of at most maxChars characters.
//
// A word that alone exceeds maxChars is never split; it closes the pending
// group and becomes its own cue. Cue indices start at startIndex and the
// returned int is the next unused index. Empty input returns (nil, startIndex).
// Groups whose text is blank produce no cue and consume no index.
func Segment(words []Word, maxChars, startIndex int) ([]Cue, int) {
	if len(words) == 0 {
		return nil, startIndex
	}
	if maxChars < 1 {
		maxChars = 1
	}

	var (
		cues    []Cue
		group   []Word
		length  int
		builder strings.Builder
		next    = startIndex
	)

	flush := func() {
		if len(group) == 0 {
			return
		}
		builder.Reset()
		for _, w := range group {
			builder.WriteString(w.Text)
		}
		// Blank groups would end the SRT block early.
		if strings.TrimSpace(builder.String()) == "" {
			group = group[:0]
			length = 0
			return
		}
		cues = append(cues, Cue{
			Index: next,
			Start: group[0].Start,
			End:   group[len(group)-1].End,
			Text:  builder.String(),
		})
		next++
		group = group[:0]
		length = 0
	}

	for _, word := range words {
		wordLen := utf8.RuneCountInString(word.Text)
		if len(group) > 0 && length+wordLen > maxChars {
			flush()
		}
		group = append(group, word)
		length += wordLen
	}
	flush()

	return cues, next
}

// Builder accumulates cues for a single output file, keeping the index
// contiguous across successive calls.
type Builder struct {
	maxChars int
	next     int
	cues     []Cue
}

// NewBuilder returns a Builder whose first cue is numbered 1.
func NewBuilder(maxChars int) *Builder {
	return &Builder{maxChars: maxChars, next: 1}
}

// AddWords segments words and appends the resulting cues.
func (b *Builder) AddWords(words []Word) {
	cues, next := Segment(words, b.maxChars, b.next)
	b.cues = append(b.cues, cues...)
	b.next = next
}

// AddText appends a single cue for a span that carries no word timings.
// Blank text is ignored.
func (b *Builder) AddText(start, end float64, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if end < start {
		end = start
	}
	b.cues = append(b.cues, Cue{Index: b.next, Start: start, End: end, Text: text})
	b.next++
}

// Cues returns the cues collected so far.
func (b *Builder) Cues() []Cue {
	return b.cues
}

// Len reports how many cues have been collected.
func (b *Builder) Len() int {
	return len(b.cues)
}

// Reset discards collected cues and restarts numbering at 1.
func (b *Builder) Reset() {
	b.cues = nil
	b.next = 1
}
