// Package typing evaluates a typed buffer against a target text.
package typing

import (
	"math"
	"time"
)

// Result holds the derived statistics for one evaluation.
type Result struct {
	Errors    int
	WPM       int
	Accuracy  int
	Completed bool
}

// Evaluate compares typed against target position by position and derives
// error count, net WPM, and accuracy. The error count is recomputed in full
// on every call rather than tracked incrementally, so it can never drift
// from the buffer. Typed runes beyond the end of the target each count as
// one error. Completion requires a nonempty target.
func Evaluate(target, typed []rune, startedAt, now time.Time) Result {
	res := Result{
		Errors:   countErrors(target, typed),
		Accuracy: 100,
	}
	if len(typed) > 0 {
		correct := len(typed) - res.Errors
		if correct < 0 {
			correct = 0
		}
		res.Accuracy = clampPercent(math.Round(100 * float64(correct) / float64(len(typed))))
	}
	res.WPM = netWPM(len(typed), res.Errors, startedAt, now)
	res.Completed = len(target) > 0 && len(typed) >= len(target)
	return res
}

func countErrors(target, typed []rune) int {
	errors := 0
	n := len(typed)
	if len(target) < n {
		n = len(target)
	}
	for i := 0; i < n; i++ {
		if typed[i] != target[i] {
			errors++
		}
	}
	if len(typed) > len(target) {
		errors += len(typed) - len(target)
	}
	return errors
}

// netWPM applies the standard 5-characters-per-word convention: gross WPM
// minus one word-equivalent penalty per error, floored at zero.
func netWPM(typedLen, errors int, startedAt, now time.Time) int {
	if startedAt.IsZero() {
		return 0
	}
	minutes := now.Sub(startedAt).Minutes()
	if minutes <= 0 {
		return 0
	}
	gross := (float64(typedLen) / 5.0) / minutes
	net := gross - float64(errors)/minutes
	if net < 0 {
		net = 0
	}
	return int(math.Round(net))
}

func clampPercent(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

// Session owns the typed buffer and the completion latch for one song.
type Session struct {
	typed     []rune
	startedAt time.Time
	completed bool
	final     Result
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// Typed returns the current buffer. Callers must not mutate it.
func (s *Session) Typed() []rune {
	return s.typed
}

// Pos returns the typed position in runes.
func (s *Session) Pos() int {
	return len(s.typed)
}

// Started reports whether the first keystroke has arrived.
func (s *Session) Started() bool {
	return !s.startedAt.IsZero()
}

// StartedAt returns the wall-clock time of the first keystroke.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Completed reports whether the session has reached the end of the target.
func (s *Session) Completed() bool {
	return s.completed
}

// Type appends keystrokes to the buffer. The first keystroke starts the WPM
// timer. Keystrokes after completion are ignored; the session is terminal
// until Reset.
func (s *Session) Type(runes []rune, now time.Time) {
	if s.completed || len(runes) == 0 {
		return
	}
	if s.startedAt.IsZero() {
		s.startedAt = now
	}
	s.typed = append(s.typed, runes...)
}

// Backspace removes the last typed rune, if any.
func (s *Session) Backspace() {
	if s.completed || len(s.typed) == 0 {
		return
	}
	s.typed = s.typed[:len(s.typed)-1]
}

// ForceAdvance replaces the buffer with the target prefix up to pos,
// discarding whatever the user had typed so far. Used by the catch-up
// policy when the user falls behind playback.
func (s *Session) ForceAdvance(target []rune, pos int) {
	if s.completed {
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(target) {
		pos = len(target)
	}
	s.typed = append(s.typed[:0], target[:pos]...)
}

// Update evaluates the session against the target. The first call that
// observes completion freezes the statistics and reports fired=true; later
// calls return the frozen snapshot.
func (s *Session) Update(target []rune, now time.Time) (res Result, fired bool) {
	if s.completed {
		return s.final, false
	}
	res = Evaluate(target, s.typed, s.startedAt, now)
	if res.Completed {
		s.completed = true
		s.final = res
		return res, true
	}
	return res, false
}

// Reset clears the buffer, timer, and completion latch.
func (s *Session) Reset() {
	s.typed = nil
	s.startedAt = time.Time{}
	s.completed = false
	s.final = Result{}
}
