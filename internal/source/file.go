package source

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// LRC ID tags like [ar:...] or [offset:...]. These carry metadata, not
// lines to type, and would otherwise look like malformed timestamps.
var lrcIDTagRe = regexp.MustCompile(`^\[([a-zA-Z#]+):(.*)\]\s*$`)

// File loads lyrics from a local .lrc or .txt file. LRC ID tags are
// stripped before the text reaches the parser; title, artist, and length
// tags are kept as metadata.
type File struct {
	path string
}

// NewFile returns a provider for the given path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Name implements Provider.
func (f *File) Name() string {
	return "file"
}

// Load implements Provider.
func (f *File) Load(_ context.Context) (Lyrics, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return Lyrics{}, fmt.Errorf("failed to read lyrics file: %w", err)
	}
	lyr := Lyrics{}
	var kept []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if m := lrcIDTagRe.FindStringSubmatch(line); m != nil {
			value := strings.TrimSpace(m[2])
			switch strings.ToLower(m[1]) {
			case "ti":
				lyr.Title = value
			case "ar":
				lyr.Artist = value
			case "length":
				lyr.Duration = parseLength(value)
			}
			continue
		}
		kept = append(kept, line)
	}
	lyr.Raw = strings.Join(kept, "\n")
	return lyr, nil
}

// parseLength reads an LRC "[length:mm:ss]" value. Zero means unknown.
func parseLength(value string) float64 {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0
	}
	return float64(minutes)*60 + seconds
}
