package playback

import (
	"testing"
	"time"
)

func TestManualClockAdvancesWhilePlaying(t *testing.T) {
	now := time.Unix(0, 0)
	c := NewManualClock(60)
	c.SetNow(func() time.Time { return now })

	if c.Playing() {
		t.Fatalf("clock should start paused")
	}
	if c.Position() != 0 {
		t.Fatalf("expected position 0, got %v", c.Position())
	}

	c.Play()
	now = now.Add(5 * time.Second)
	if got := c.Position(); got != 5 {
		t.Fatalf("expected position 5, got %v", got)
	}

	c.Pause()
	now = now.Add(10 * time.Second)
	if got := c.Position(); got != 5 {
		t.Fatalf("expected paused position 5, got %v", got)
	}

	c.Play()
	now = now.Add(2 * time.Second)
	if got := c.Position(); got != 7 {
		t.Fatalf("expected position 7 after resume, got %v", got)
	}
}

func TestManualClockSeek(t *testing.T) {
	now := time.Unix(0, 0)
	c := NewManualClock(60)
	c.SetNow(func() time.Time { return now })
	c.Play()
	now = now.Add(30 * time.Second)

	c.Seek(10)
	if got := c.Position(); got != 10 {
		t.Fatalf("expected position 10 after backward seek, got %v", got)
	}
	c.Seek(-5)
	if got := c.Position(); got != 0 {
		t.Fatalf("expected seek clamp to 0, got %v", got)
	}
	c.Seek(500)
	if got := c.Position(); got != 60 {
		t.Fatalf("expected seek clamp to duration, got %v", got)
	}
}

func TestManualClockStopsAtDuration(t *testing.T) {
	now := time.Unix(0, 0)
	c := NewManualClock(10)
	c.SetNow(func() time.Time { return now })
	c.Play()
	now = now.Add(time.Minute)
	if got := c.Position(); got != 10 {
		t.Fatalf("expected position capped at 10, got %v", got)
	}
	if c.Playing() {
		t.Fatalf("clock past its duration should not report playing")
	}
}
