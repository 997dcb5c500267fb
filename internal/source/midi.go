package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/verte-zerg/typeoke/internal/lyrics"
)

const fallbackBPM = 120.0

// MIDI extracts karaoke lyrics from a .mid/.kar file. Lyric and text meta
// events are grouped into lines, their ticks converted to seconds through
// the tempo map, and the result rendered as "[mm:ss.mmm]" prefixed text so
// it feeds the parser like any other raw source.
type MIDI struct {
	path string
}

// NewMIDI returns a provider for the given path.
func NewMIDI(path string) *MIDI {
	return &MIDI{path: path}
}

// Name implements Provider.
func (m *MIDI) Name() string {
	return "midi"
}

// Load implements Provider.
func (m *MIDI) Load(_ context.Context) (Lyrics, error) {
	f, err := os.Open(m.path)
	if err != nil {
		return Lyrics{}, fmt.Errorf("failed to open midi file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			_ = cerr
		}
	}()
	return extractLyrics(f)
}

type syllable struct {
	tick    uint32
	text    string
	newline bool
}

type tempoChange struct {
	tick uint32
	bpm  float64
}

func extractLyrics(r io.Reader) (Lyrics, error) {
	data, err := smf.ReadFrom(r)
	if err != nil {
		return Lyrics{}, fmt.Errorf("failed to read midi: %w", err)
	}
	ticksPerQuarter, ok := data.TimeFormat.(smf.MetricTicks)
	if !ok {
		return Lyrics{}, fmt.Errorf("unsupported midi time format %v", data.TimeFormat)
	}

	var lyr Lyrics
	var syllables []syllable
	var tempos []tempoChange
	for _, track := range data.Tracks {
		var tick uint32
		for _, event := range track {
			tick += event.Delta
			msg := event.Message

			var bpm float64
			if msg.GetMetaTempo(&bpm) {
				tempos = append(tempos, tempoChange{tick: tick, bpm: bpm})
				continue
			}
			var text string
			if msg.GetMetaLyric(&text) || msg.GetMetaText(&text) {
				if handleKarHeader(&lyr, text) {
					continue
				}
				if syl, ok := cleanSyllable(tick, text); ok {
					syllables = append(syllables, syl)
				}
			}
		}
	}
	if len(syllables) == 0 {
		return lyr, nil
	}

	sort.SliceStable(syllables, func(i, j int) bool {
		return syllables[i].tick < syllables[j].tick
	})
	sort.Slice(tempos, func(i, j int) bool {
		return tempos[i].tick < tempos[j].tick
	})

	lyr.Raw = renderTimedLines(syllables, tempos, float64(ticksPerQuarter))
	last := syllables[len(syllables)-1]
	lyr.Duration = ticksToSeconds(last.tick, tempos, float64(ticksPerQuarter))
	return lyr, nil
}

// handleKarHeader consumes .kar "@" metadata events (@T title, @L language,
// and so on). Returns true when the event was metadata, not a syllable.
func handleKarHeader(lyr *Lyrics, text string) bool {
	if !strings.HasPrefix(text, "@") {
		return false
	}
	if strings.HasPrefix(text, "@T") && lyr.Title == "" {
		lyr.Title = strings.TrimSpace(text[2:])
	}
	return true
}

// cleanSyllable normalizes one lyric event. Leading '/' and '\' are .kar
// line and paragraph breaks; embedded newlines mean the same in plain MIDI
// lyric tracks. Bracketed text events are animation markers, not lyrics.
func cleanSyllable(tick uint32, text string) (syllable, bool) {
	if text == "" || strings.HasPrefix(text, "[") {
		return syllable{}, false
	}
	syl := syllable{tick: tick}
	for strings.HasPrefix(text, "/") || strings.HasPrefix(text, "\\") {
		syl.newline = true
		text = text[1:]
	}
	if strings.ContainsAny(text, "\r\n") {
		syl.newline = true
		text = strings.Trim(text, "\r\n")
	}
	syl.text = text
	if syl.text == "" && !syl.newline {
		return syllable{}, false
	}
	return syl, true
}

func renderTimedLines(syllables []syllable, tempos []tempoChange, ticksPerQuarter float64) string {
	var out []string
	var line strings.Builder
	var lineTick uint32
	flush := func() {
		text := strings.TrimSpace(line.String())
		line.Reset()
		if text == "" {
			return
		}
		stamp := lyrics.FormatTimestamp(ticksToSeconds(lineTick, tempos, ticksPerQuarter))
		out = append(out, stamp+text)
	}
	for _, syl := range syllables {
		if syl.newline && line.Len() > 0 {
			flush()
		}
		if line.Len() == 0 {
			lineTick = syl.tick
		}
		line.WriteString(syl.text)
	}
	flush()
	return strings.Join(out, "\n")
}

// ticksToSeconds walks the tempo map, accumulating wall time segment by
// segment up to the given tick.
func ticksToSeconds(tick uint32, tempos []tempoChange, ticksPerQuarter float64) float64 {
	if ticksPerQuarter <= 0 {
		return 0
	}
	bpm := fallbackBPM
	var seconds float64
	var prevTick uint32
	for _, change := range tempos {
		if change.tick >= tick {
			break
		}
		if change.tick > prevTick {
			seconds += float64(change.tick-prevTick) * 60 / (bpm * ticksPerQuarter)
			prevTick = change.tick
		}
		bpm = change.bpm
	}
	seconds += float64(tick-prevTick) * 60 / (bpm * ticksPerQuarter)
	return seconds
}
