package lyrics

import (
	"regexp"
	"strconv"
	"strings"
)

// Default spacing applied to lines that carry no timestamp, and to the
// closing window of the final line when its text is long enough.
const (
	defaultLineSpacing = 4.0
	shortLineWindow    = 1.0
	shortLineMaxRunes  = 10
)

// Timestamp grammars tried in priority order. The fractional bare variant
// must come before the plain one, which is a subset pattern and would
// otherwise shadow it.
var (
	bracketTimeRe  = regexp.MustCompile(`^\[(\d{1,3}):(\d{1,2})(?:\.(\d+))?\](.*)$`)
	parenTimeRe    = regexp.MustCompile(`^\((\d{1,3}):(\d{1,2})(?:\.(\d+))?\)(.*)$`)
	bareFracTimeRe = regexp.MustCompile(`^(\d{1,3}):(\d{1,2})\.(\d+)\s+(.*)$`)
	bareTimeRe     = regexp.MustCompile(`^(\d{1,3}):(\d{1,2})\s+(.*)$`)
)

// Parse converts one block of raw lyric text into a Sequence with
// best-effort timing. Lines may carry "[mm:ss]", "(mm:ss)", or bare
// "mm:ss " timestamps (fractional seconds optional); untimed lines fall
// back to a fixed spacing after the previous line. Blank lines are
// skipped. An input producing zero lines yields an empty Sequence.
func Parse(raw string) Sequence {
	var seq Sequence
	for _, rawLine := range strings.Split(raw, "\n") {
		rawLine = strings.TrimRight(rawLine, "\r")
		if strings.TrimSpace(rawLine) == "" {
			continue
		}
		start, text, timed := matchLine(rawLine)
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if !timed {
			start = 0
			if len(seq.Lines) > 0 {
				start = seq.Lines[len(seq.Lines)-1].Start + defaultLineSpacing
			}
		} else {
			seq.Timed = true
		}
		seq.Lines = append(seq.Lines, Line{Text: text, Start: start})
	}

	for i := range seq.Lines {
		if i+1 < len(seq.Lines) {
			seq.Lines[i].End = seq.Lines[i+1].Start
			continue
		}
		window := shortLineWindow
		if len([]rune(seq.Lines[i].Text)) > shortLineMaxRunes {
			window = defaultLineSpacing
		}
		seq.Lines[i].End = seq.Lines[i].Start + window
	}
	return seq
}

func matchLine(line string) (start float64, text string, timed bool) {
	for _, re := range []*regexp.Regexp{bracketTimeRe, parenTimeRe, bareFracTimeRe} {
		if m := re.FindStringSubmatch(line); m != nil {
			return timestampSeconds(m[1], m[2], m[3]), m[4], true
		}
	}
	if m := bareTimeRe.FindStringSubmatch(line); m != nil {
		return timestampSeconds(m[1], m[2], ""), m[3], true
	}
	return 0, line, false
}

// timestampSeconds computes minutes*60 + seconds + milliseconds/1000. The
// fractional part is right-padded to three digits and truncated, so ".5"
// means 500ms and ".1234" means 123ms.
func timestampSeconds(minStr, secStr, fracStr string) float64 {
	minutes, _ := strconv.Atoi(minStr)
	seconds, _ := strconv.Atoi(secStr)
	millis := 0
	if fracStr != "" {
		padded := (fracStr + "000")[:3]
		millis, _ = strconv.Atoi(padded)
	}
	return float64(minutes)*60 + float64(seconds) + float64(millis)/1000
}
