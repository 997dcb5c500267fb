package source

import (
	"bytes"
	"strings"
	"testing"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/verte-zerg/typeoke/internal/lyrics"
)

// buildKaraokeSMF writes a one-track karaoke file with a tempo event and
// slash-prefixed line breaks. At 120 BPM with 480 ticks per quarter, one
// tick is 60/(120*480) seconds, so tick 960 is exactly one second in.
func buildKaraokeSMF(t *testing.T) []byte {
	t.Helper()
	data := smf.NewSMF1()
	data.TimeFormat = smf.MetricTicks(480)

	track := smf.Track{}
	track = append(track, smf.Event{Delta: 0, Message: smf.Message(smf.MetaTempo(120))})
	track = append(track, smf.Event{Delta: 0, Message: smf.Message(smf.MetaText("@T My Song"))})
	track = append(track, smf.Event{Delta: 0, Message: smf.Message(smf.MetaLyric("/Hel"))})
	track = append(track, smf.Event{Delta: 240, Message: smf.Message(smf.MetaLyric("lo "))})
	track = append(track, smf.Event{Delta: 240, Message: smf.Message(smf.MetaLyric("there"))})
	track = append(track, smf.Event{Delta: 480, Message: smf.Message(smf.MetaLyric("/Second "))})
	track = append(track, smf.Event{Delta: 240, Message: smf.Message(smf.MetaLyric("line"))})
	track = append(track, smf.Event{Delta: 0, Message: smf.EOT})
	data.Add(track)

	var buf bytes.Buffer
	if _, err := data.WriteTo(&buf); err != nil {
		t.Fatalf("write smf: %v", err)
	}
	return buf.Bytes()
}

func TestExtractLyricsFromKaraokeMIDI(t *testing.T) {
	raw := buildKaraokeSMF(t)
	lyr, err := extractLyrics(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if lyr.Title != "My Song" {
		t.Fatalf("expected @T header as title, got %q", lyr.Title)
	}

	linesOut := strings.Split(lyr.Raw, "\n")
	if len(linesOut) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(linesOut), lyr.Raw)
	}
	if !strings.HasSuffix(linesOut[0], "Hello there") {
		t.Fatalf("unexpected first line: %q", linesOut[0])
	}
	if !strings.HasSuffix(linesOut[1], "Second line") {
		t.Fatalf("unexpected second line: %q", linesOut[1])
	}

	// The rendered text must parse back with the tick-derived timing:
	// first line at tick 0, second at tick 960 = 1 second.
	seq := lyrics.Parse(lyr.Raw)
	if len(seq.Lines) != 2 {
		t.Fatalf("expected 2 parsed lines, got %d", len(seq.Lines))
	}
	if seq.Lines[0].Start != 0 {
		t.Fatalf("expected first line at 0, got %v", seq.Lines[0].Start)
	}
	if seq.Lines[1].Start != 1 {
		t.Fatalf("expected second line at 1s, got %v", seq.Lines[1].Start)
	}
}

func TestTicksToSecondsTempoMap(t *testing.T) {
	tempos := []tempoChange{
		{tick: 0, bpm: 120},
		{tick: 960, bpm: 60},
	}
	// 960 ticks at 120 BPM (480 TPQ) is 1s; 960 more at 60 BPM is 2s.
	if got := ticksToSeconds(1920, tempos, 480); got != 3 {
		t.Fatalf("expected 3s, got %v", got)
	}
	if got := ticksToSeconds(0, tempos, 480); got != 0 {
		t.Fatalf("expected 0s, got %v", got)
	}
}

func TestExtractLyricsEmptyTrack(t *testing.T) {
	data := smf.NewSMF1()
	data.TimeFormat = smf.MetricTicks(480)
	track := smf.Track{}
	track = append(track, smf.Event{Delta: 0, Message: smf.EOT})
	data.Add(track)
	var buf bytes.Buffer
	if _, err := data.WriteTo(&buf); err != nil {
		t.Fatalf("write smf: %v", err)
	}
	lyr, err := extractLyrics(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if lyr.Raw != "" {
		t.Fatalf("expected empty raw text, got %q", lyr.Raw)
	}
}
