// Package source provides the lyric-source collaborators. The engine does
// not care where lyrics come from, only that it receives raw text with
// optional timing hints.
package source

import "context"

// Lyrics is a fetched lyric payload: raw text for the parser plus whatever
// metadata the provider happened to know.
type Lyrics struct {
	Raw      string
	Title    string
	Artist   string
	Duration float64
}

// Provider loads lyrics for one track. Implementations must be safe to
// call again after a failure; the engine retries through the same provider
// when synchronization stalls.
type Provider interface {
	Load(ctx context.Context) (Lyrics, error)
	Name() string
}
