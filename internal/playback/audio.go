package playback

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

const speakerBuffer = 100 * time.Millisecond

// AudioPlayer plays an mp3 or wav file through the system speaker and
// reports its position as the playback clock.
type AudioPlayer struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	started  bool
}

// OpenAudio decodes the file and initializes the speaker. The stream is not
// played until Play is called.
func OpenAudio(path string) (*AudioPlayer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		if cerr := f.Close(); cerr != nil {
			_ = cerr
		}
		return nil, fmt.Errorf("unsupported audio format: %s", filepath.Ext(path))
	}
	if err != nil {
		if cerr := f.Close(); cerr != nil {
			_ = cerr
		}
		return nil, fmt.Errorf("failed to decode audio: %w", err)
	}

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(speakerBuffer)); err != nil {
		if cerr := streamer.Close(); cerr != nil {
			_ = cerr
		}
		return nil, fmt.Errorf("failed to init speaker: %w", err)
	}

	return &AudioPlayer{
		streamer: streamer,
		format:   format,
		ctrl:     &beep.Ctrl{Streamer: streamer, Paused: true},
	}, nil
}

// Position implements Clock. The streamer position is read under the
// speaker lock since the playback goroutine advances it concurrently.
func (p *AudioPlayer) Position() float64 {
	speaker.Lock()
	pos := p.streamer.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(pos).Seconds()
}

// Duration implements Clock.
func (p *AudioPlayer) Duration() float64 {
	return p.format.SampleRate.D(p.streamer.Len()).Seconds()
}

// Playing implements Clock.
func (p *AudioPlayer) Playing() bool {
	speaker.Lock()
	paused := p.ctrl.Paused
	pos := p.streamer.Position()
	length := p.streamer.Len()
	speaker.Unlock()
	return !paused && pos < length
}

// Play implements Clock. The first call attaches the stream to the speaker.
func (p *AudioPlayer) Play() {
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	if !p.started {
		p.started = true
		speaker.Play(p.ctrl)
	}
}

// Pause implements Clock.
func (p *AudioPlayer) Pause() {
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
}

// Seek implements Clock.
func (p *AudioPlayer) Seek(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	sample := p.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	if sample > p.streamer.Len() {
		sample = p.streamer.Len()
	}
	speaker.Lock()
	err := p.streamer.Seek(sample)
	speaker.Unlock()
	if err != nil {
		// A failed seek leaves the stream where it was; the synchronizer
		// re-scans from scratch on every sample, so no state is corrupted.
		_ = err
	}
}

// Close implements Clock.
func (p *AudioPlayer) Close() error {
	speaker.Clear()
	return p.streamer.Close()
}
