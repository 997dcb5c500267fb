// Package game coordinates lyrics, playback, and the typing session.
package game

import (
	"github.com/verte-zerg/typeoke/internal/model"
	"github.com/verte-zerg/typeoke/internal/playback"
)

// ActionKind enumerates the reconciliation outcomes.
type ActionKind int

const (
	// ActionNone means typed position and playback agree well enough.
	ActionNone ActionKind = iota
	// ActionForceAdvance moves the typed position forward to catch up with
	// playback, discarding progress on skipped lines.
	ActionForceAdvance
	// ActionSignalStall means synchronization never established and the
	// lyrics collaborator should retry from scratch.
	ActionSignalStall
)

// Action is the reconciliation verdict. To is the target typed position for
// ActionForceAdvance and unused otherwise.
type Action struct {
	Kind ActionKind
	To   int
}

// Reconcile decides how to resolve divergence between the playback-driven
// active line and the user's typed position. lineStart is the active line's
// rune offset in the concatenated target; stalledFor is how long the
// synchronizer has been waiting without ever matching a line.
//
// A user ahead of playback is never corrected. A user behind by more than
// the catch-up threshold is advanced to just before the active line, but
// only once playback has run past the grace period, so a slow start is not
// punished. Staying synchronized with the music wins over preserving
// partial credit for skipped text.
func Reconcile(state playback.State, activeIndex, lineStart, typedPos int, playbackSeconds, stalledFor float64, tun model.Tunables) Action {
	switch state {
	case playback.StateNoSequence, playback.StatePending:
		if stalledFor > tun.StallTimeout {
			return Action{Kind: ActionSignalStall}
		}
		return Action{Kind: ActionNone}
	case playback.StateFailed:
		return Action{Kind: ActionNone}
	}
	if activeIndex < 0 {
		return Action{Kind: ActionNone}
	}
	if playbackSeconds <= tun.CatchUpGrace {
		return Action{Kind: ActionNone}
	}
	if typedPos < lineStart-tun.CatchUpChars {
		to := lineStart - tun.CatchUpLead
		if to < 0 {
			to = 0
		}
		return Action{Kind: ActionForceAdvance, To: to}
	}
	return Action{Kind: ActionNone}
}
