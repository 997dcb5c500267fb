package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func lrclibHandler(t *testing.T, hits *int) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		*hits++
		if r.URL.Path != "/api/get" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("track_name") == "missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"trackName": "Found Song",
			"artistName": "Found Artist",
			"duration": 215.5,
			"plainLyrics": "plain text",
			"syncedLyrics": "[00:05.00]synced text"
		}`))
	}
}

func TestLRCLibPrefersSyncedLyrics(t *testing.T) {
	hits := 0
	server := httptest.NewServer(lrclibHandler(t, &hits))
	defer server.Close()

	p := NewLRCLib("Found Song", "Found Artist", t.TempDir())
	p.SetBaseURL(server.URL)
	lyr, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if lyr.Raw != "[00:05.00]synced text" {
		t.Fatalf("expected synced lyrics, got %q", lyr.Raw)
	}
	if lyr.Title != "Found Song" || lyr.Artist != "Found Artist" || lyr.Duration != 215.5 {
		t.Fatalf("unexpected metadata: %+v", lyr)
	}
}

func TestLRCLibCachesResponses(t *testing.T) {
	hits := 0
	server := httptest.NewServer(lrclibHandler(t, &hits))
	defer server.Close()

	p := NewLRCLib("Found Song", "Found Artist", t.TempDir())
	p.SetBaseURL(server.URL)
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if hits != 1 {
		t.Fatalf("expected one upstream hit, got %d", hits)
	}
}

func TestLRCLibNotFound(t *testing.T) {
	hits := 0
	server := httptest.NewServer(lrclibHandler(t, &hits))
	defer server.Close()

	p := NewLRCLib("missing", "nobody", t.TempDir())
	p.SetBaseURL(server.URL)
	if _, err := p.Load(context.Background()); err == nil {
		t.Fatalf("expected error for missing lyrics")
	}
}

func TestSanitizeCacheKey(t *testing.T) {
	if got := sanitizeCacheKey("The Band--Song Name!"); got != "the_band__song_name_" {
		t.Fatalf("unexpected cache key %q", got)
	}
}
