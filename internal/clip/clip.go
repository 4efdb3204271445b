// Package clip holds the transcript document: ordered, time-stamped clips and a
// cursor into them.
package clip

import "strings"

// Clip is one speaker-attributed transcript segment.
type Clip struct {
	ID                 int     `json:"id"`
	Speaker            string  `json:"speaker"`
	Transcript         string  `json:"transcript"`
	StartTime          float64 `json:"start_time"`
	EndTime            float64 `json:"end_time"`
	Comment            string  `json:"comment"`
	IsManuallyAdjusted bool    `json:"is_manually_adjusted"`
}

// Range is a span of the source audio in seconds.
type Range struct {
	Start float64
	End   float64
}

// Duration returns the length of the range.
func (r Range) Duration() float64 { return r.End - r.Start }

// Range returns the clip's span of the source audio.
func (c Clip) Range() Range { return Range{Start: c.StartTime, End: c.EndTime} }

// Words splits the transcript on whitespace.
func (c Clip) Words() []string { return strings.Fields(c.Transcript) }

// Blank reports whether the transcript has no words.
func (c Clip) Blank() bool { return strings.TrimSpace(c.Transcript) == "" }

// Ranges returns the audio spans of clips in order.
func Ranges(clips []Clip) []Range {
	out := make([]Range, 0, len(clips))
	for _, c := range clips {
		out = append(out, c.Range())
	}
	return out
}
