package lyrics

import (
	"math"
	"strings"
)

// phraseGap is subtracted from a line's end when its text closes a phrase,
// leaving a short breath before the next line starts.
const phraseGap = 0.5

// Normalize rescales a sequence's timestamps so the lines fit an
// authoritative media duration, preserving order and proportional spacing.
// startOffset and endOffset reserve silence before the first line and after
// the last one; when the duration is too short to honor them, both are
// reduced to floor(duration/10) instead of failing. An empty sequence or a
// non-positive duration returns the input unchanged.
func Normalize(seq Sequence, duration, startOffset, endOffset float64) Sequence {
	if seq.Empty() || duration <= 0 {
		return seq
	}
	available := duration - startOffset - endOffset
	if available <= 0 {
		reduced := math.Floor(duration / 10)
		if reduced >= startOffset && reduced >= endOffset {
			// Offsets cannot shrink further; keep the provisional timings.
			return seq
		}
		return Normalize(seq, duration, reduced, reduced)
	}

	out := Sequence{Lines: make([]Line, len(seq.Lines)), Timed: seq.Timed}
	timePerLine := available / float64(len(seq.Lines))
	for i, line := range seq.Lines {
		start := startOffset + float64(i)*timePerLine
		end := startOffset + float64(i+1)*timePerLine
		if endsPhrase(line.Text) && end-phraseGap > start {
			end -= phraseGap
		}
		out.Lines[i] = Line{
			Text:  line.Text,
			Start: roundTenth(start),
			End:   roundTenth(end),
		}
	}
	return out
}

func endsPhrase(text string) bool {
	trimmed := strings.TrimRight(text, " ")
	if trimmed == "" {
		return false
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
