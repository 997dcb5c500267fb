package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStripsLRCIDTags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.lrc")
	content := strings.Join([]string{
		"[ti:Test Song]",
		"[ar:Test Artist]",
		"[al:Test Album]",
		"[length:03:30]",
		"[offset:+200]",
		"[00:05.5]hello",
		"[00:10]world",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write lyrics file: %v", err)
	}

	lyr, err := NewFile(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if lyr.Title != "Test Song" || lyr.Artist != "Test Artist" {
		t.Fatalf("unexpected metadata: %+v", lyr)
	}
	if lyr.Duration != 210 {
		t.Fatalf("expected duration 210, got %v", lyr.Duration)
	}
	if strings.Contains(lyr.Raw, "[ti:") || strings.Contains(lyr.Raw, "[offset:") {
		t.Fatalf("ID tags leaked into raw text: %q", lyr.Raw)
	}
	if !strings.Contains(lyr.Raw, "[00:05.5]hello") {
		t.Fatalf("timestamped lines must survive: %q", lyr.Raw)
	}
}

func TestFilePlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.txt")
	if err := os.WriteFile(path, []byte("just some\nplain lines\n"), 0o644); err != nil {
		t.Fatalf("write lyrics file: %v", err)
	}
	lyr, err := NewFile(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.Contains(lyr.Raw, "plain lines") {
		t.Fatalf("unexpected raw text: %q", lyr.Raw)
	}
}

func TestFileMissing(t *testing.T) {
	if _, err := NewFile("/does/not/exist.lrc").Load(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
