package playback

import "time"

// Clock is the media-player collaborator: it owns the playback position
// and duration, and the engine only samples it.
type Clock interface {
	// Position returns the current playback time in seconds. Values are
	// not guaranteed monotonic between calls; seeking is allowed.
	Position() float64
	// Duration returns the media length in seconds, or 0 when unknown.
	Duration() float64
	// Playing reports whether playback is currently advancing.
	Playing() bool
	Play()
	Pause()
	Seek(seconds float64)
	Close() error
}

// ManualClock simulates a player against the wall clock. It drives practice
// sessions that have no media file, and all tests.
type ManualClock struct {
	duration  float64
	base      float64
	resumedAt time.Time
	playing   bool
	now       func() time.Time
}

// NewManualClock returns a paused clock at position 0. A zero duration
// means the clock runs without an end.
func NewManualClock(duration float64) *ManualClock {
	return &ManualClock{duration: duration, now: time.Now}
}

// SetNow overrides the wall-clock source. Tests use this to step time
// deterministically.
func (c *ManualClock) SetNow(now func() time.Time) {
	c.now = now
}

// Position implements Clock.
func (c *ManualClock) Position() float64 {
	pos := c.base
	if c.playing {
		pos += c.now().Sub(c.resumedAt).Seconds()
	}
	if c.duration > 0 && pos > c.duration {
		pos = c.duration
	}
	if pos < 0 {
		pos = 0
	}
	return pos
}

// Duration implements Clock.
func (c *ManualClock) Duration() float64 {
	return c.duration
}

// Playing implements Clock.
func (c *ManualClock) Playing() bool {
	if !c.playing {
		return false
	}
	if c.duration > 0 && c.Position() >= c.duration {
		return false
	}
	return true
}

// Play implements Clock.
func (c *ManualClock) Play() {
	if c.playing {
		return
	}
	c.resumedAt = c.now()
	c.playing = true
}

// Pause implements Clock.
func (c *ManualClock) Pause() {
	if !c.playing {
		return
	}
	c.base = c.Position()
	c.playing = false
}

// Seek implements Clock. Backward seeks are allowed.
func (c *ManualClock) Seek(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	if c.duration > 0 && seconds > c.duration {
		seconds = c.duration
	}
	c.base = seconds
	c.resumedAt = c.now()
}

// Close implements Clock.
func (c *ManualClock) Close() error {
	return nil
}
