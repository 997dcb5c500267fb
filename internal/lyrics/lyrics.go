// Package lyrics models timed lyric lines and turns raw lyric text into them.
package lyrics

import (
	"fmt"
	"strings"
)

// Line is a single lyric line with its display window in seconds.
// Start is non-decreasing across a Sequence; adjacent lines may touch
// but never overlap.
type Line struct {
	Text  string
	Start float64
	End   float64
}

// Sequence is an ordered list of lyric lines. A zero-line Sequence is the
// valid "no content yet" state, not an error.
type Sequence struct {
	Lines []Line
	// Timed is set when at least one source line carried an explicit
	// timestamp, as opposed to the default 4-second spacing.
	Timed bool
}

// Empty reports whether the sequence has no lines.
func (s Sequence) Empty() bool {
	return len(s.Lines) == 0
}

// TargetText joins all line texts with single spaces. This concatenation is
// the canonical text the typing session is evaluated against.
func (s Sequence) TargetText() string {
	parts := make([]string, len(s.Lines))
	for i, line := range s.Lines {
		parts[i] = line.Text
	}
	return strings.Join(parts, " ")
}

// LineOffset returns the rune offset of line i's text inside TargetText.
// Offsets are recomputed from the line texts alone, so they can never drift
// from the concatenation.
func (s Sequence) LineOffset(i int) int {
	if i < 0 || i >= len(s.Lines) {
		return 0
	}
	offset := 0
	for j := 0; j < i; j++ {
		offset += len([]rune(s.Lines[j].Text)) + 1
	}
	return offset
}

// Duration returns the end time of the last line, or 0 for an empty sequence.
func (s Sequence) Duration() float64 {
	if len(s.Lines) == 0 {
		return 0
	}
	return s.Lines[len(s.Lines)-1].End
}

// FormatTimestamp renders seconds as an LRC-style "[mm:ss.mmm]" tag.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := int(seconds) / 60
	rem := seconds - float64(minutes*60)
	return fmt.Sprintf("[%02d:%06.3f]", minutes, rem)
}
