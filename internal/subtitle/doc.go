// Package subtitle turns timed words into SubRip cues.
//
// Segment groups consecutive words into cues bounded by a character budget
// (counted in runes, so CJK text is measured per glyph). Builder threads the
// cue index across engine segments that belong to one output file. Render and
// Write emit the SRT text; ParseTimestamp and CountCues read it back for
// diagnostics.
package subtitle
