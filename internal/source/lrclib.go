package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultLRCLibBase = "https://lrclib.net"

// LRCLib fetches lyrics from the lrclib.net API and caches responses on
// disk, so a song is fetched at most once per cache lifetime.
type LRCLib struct {
	baseURL  string
	cacheDir string
	client   *http.Client
	title    string
	artist   string
}

type lrclibResponse struct {
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	Duration     float64 `json:"duration"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

// NewLRCLib returns a provider for one track. cacheDir may be empty to
// disable caching.
func NewLRCLib(title, artist, cacheDir string) *LRCLib {
	return &LRCLib{
		baseURL:  defaultLRCLibBase,
		cacheDir: cacheDir,
		client:   &http.Client{Timeout: 15 * time.Second},
		title:    title,
		artist:   artist,
	}
}

// SetBaseURL overrides the API endpoint. Tests point this at a local server.
func (l *LRCLib) SetBaseURL(base string) {
	l.baseURL = strings.TrimRight(base, "/")
}

// Name implements Provider.
func (l *LRCLib) Name() string {
	return "lrclib"
}

// Load implements Provider. Synced lyrics are preferred over plain ones.
func (l *LRCLib) Load(ctx context.Context) (Lyrics, error) {
	body, err := l.cachedFetch(ctx)
	if err != nil {
		return Lyrics{}, err
	}
	var payload lrclibResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Lyrics{}, fmt.Errorf("failed to decode lrclib response: %w", err)
	}
	raw := payload.SyncedLyrics
	if raw == "" {
		raw = payload.PlainLyrics
	}
	return Lyrics{
		Raw:      raw,
		Title:    payload.TrackName,
		Artist:   payload.ArtistName,
		Duration: payload.Duration,
	}, nil
}

func (l *LRCLib) cachedFetch(ctx context.Context) ([]byte, error) {
	cachePath := l.cachePath()
	if cachePath != "" {
		if body, err := os.ReadFile(cachePath); err == nil {
			return body, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read lyrics cache: %w", err)
		}
	}

	body, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if cachePath != "" {
		if err := writeCache(cachePath, body); err != nil {
			return nil, err
		}
	}
	return body, nil
}

func (l *LRCLib) fetch(ctx context.Context) ([]byte, error) {
	query := url.Values{}
	query.Set("track_name", l.title)
	query.Set("artist_name", l.artist)
	endpoint := l.baseURL + "/api/get?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build lrclib request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lyrics: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			_ = cerr
		}
	}()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("no lyrics found for %q by %q", l.title, l.artist)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected lrclib status: %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read lrclib response: %w", err)
	}
	return body, nil
}

func (l *LRCLib) cachePath() string {
	if l.cacheDir == "" {
		return ""
	}
	key := sanitizeCacheKey(l.artist + "--" + l.title)
	return filepath.Join(l.cacheDir, key+".json")
}

func writeCache(path string, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "lyrics-*.json")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(body); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close cache file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move cache into place: %w", err)
	}
	return nil
}

func sanitizeCacheKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
