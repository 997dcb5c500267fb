// Package playback tracks media position and maps it onto lyric lines.
package playback

import "github.com/verte-zerg/typeoke/internal/lyrics"

// Options tunes the synchronizer's look-ahead windows, in seconds.
type Options struct {
	// GapLookAhead activates the next line early when playback sits in the
	// gap between two lines and the next start is at most this close.
	GapLookAhead float64
	// IntroLookAhead activates the first line early when playback precedes
	// its start by at most this much.
	IntroLookAhead float64
}

// Locate returns the index of the line active at the given playback time,
// or -1 when no line is active. The scan always starts from the beginning,
// so backward seeks need no special handling. Line intervals are half-open:
// a time exactly equal to a line's end belongs to the next line, which
// prevents double activation at boundaries.
func Locate(seq lyrics.Sequence, currentTime float64, opts Options) int {
	if seq.Empty() {
		return -1
	}
	lines := seq.Lines
	if currentTime < lines[0].Start {
		if lines[0].Start-currentTime <= opts.IntroLookAhead {
			return 0
		}
		return -1
	}
	for i, line := range lines {
		if currentTime >= line.Start && currentTime < line.End {
			return i
		}
		if i+1 < len(lines) && currentTime >= line.End && currentTime < lines[i+1].Start {
			// In the gap after line i. Jump ahead only when the next line
			// is about to start; otherwise hold the finished line to avoid
			// flicker across small timing gaps.
			if lines[i+1].Start-currentTime <= opts.GapLookAhead {
				return i + 1
			}
			return i
		}
	}
	return -1
}

// State describes the synchronizer's progress for one lyric sequence.
type State int

const (
	// StateNoSequence means no lyrics are installed yet.
	StateNoSequence State = iota
	// StatePending means a sequence is present but no time sample has
	// matched a line yet.
	StatePending
	// StateSynced means an active line has been determined at least once.
	StateSynced
	// StateFailed means synchronization could not be established in time
	// and the lyrics collaborator should retry from scratch.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNoSequence:
		return "no-sequence"
	case StatePending:
		return "pending"
	case StateSynced:
		return "synced"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Syncer carries the sync state machine across time samples. It remembers
// the prior active index so observers can tell a fresh activation from a
// repeat of the same line.
type Syncer struct {
	state  State
	active int
}

// NewSyncer starts in the NoSequence state with no active line.
func NewSyncer() *Syncer {
	return &Syncer{state: StateNoSequence, active: -1}
}

// SetSequence resets the machine for a new sequence: Pending when the
// sequence has lines, NoSequence otherwise.
func (s *Syncer) SetSequence(seq lyrics.Sequence) {
	s.active = -1
	if seq.Empty() {
		s.state = StateNoSequence
		return
	}
	s.state = StatePending
}

// Sample feeds one playback-time sample through Locate and advances the
// state machine. It returns the active line index, or -1. A failed machine
// stays failed until a new sequence arrives.
func (s *Syncer) Sample(seq lyrics.Sequence, currentTime float64, opts Options) int {
	if s.state == StateFailed {
		return -1
	}
	if seq.Empty() {
		s.state = StateNoSequence
		s.active = -1
		return -1
	}
	idx := Locate(seq, currentTime, opts)
	s.active = idx
	if idx >= 0 {
		s.state = StateSynced
	}
	return idx
}

// Fail marks synchronization as failed until a new sequence arrives.
func (s *Syncer) Fail() {
	s.state = StateFailed
	s.active = -1
}

// State returns the current machine state.
func (s *Syncer) State() State {
	return s.state
}

// Active returns the index from the most recent sample, or -1.
func (s *Syncer) Active() int {
	return s.active
}
