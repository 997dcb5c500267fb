// Package model defines shared data structures.
package model

import "time"

// TrackInfo identifies the media a session plays against.
type TrackInfo struct {
	Title    string
	Artist   string
	Source   string
	Duration float64
}

// Tunables holds the timing thresholds used by the synchronizer
// and the reconciliation policy. All durations are in seconds,
// counts in runes or lines.
type Tunables struct {
	GapLookAhead   float64
	IntroLookAhead float64
	CatchUpChars   int
	CatchUpGrace   float64
	CatchUpLead    int
	StallTimeout   float64
	StartOffset    float64
	EndOffset      float64
}

// DefaultTunables returns the thresholds used when no config overrides them.
func DefaultTunables() Tunables {
	return Tunables{
		GapLookAhead:   0.5,
		IntroLookAhead: 2.0,
		CatchUpChars:   25,
		CatchUpGrace:   5.0,
		CatchUpLead:    3,
		StallTimeout:   2.0,
		StartOffset:    3.0,
		EndOffset:      3.0,
	}
}

// ScoreRecord captures a completed play session.
type ScoreRecord struct {
	PlayedAt    time.Time
	Title       string
	Artist      string
	Source      string
	WPM         int
	Accuracy    int
	Errors      int
	TypedRunes  int
	TargetRunes int
	DurationMs  int64
}

// ScoreFilter defines filters for score reporting.
type ScoreFilter struct {
	Title string
	Since *time.Time
	Last  int
}
