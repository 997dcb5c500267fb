package source

import (
	"context"
	"math/rand"
	"strings"
)

// Filler vocabulary for practice sessions without a lyric source.
var placeholderWords = []string{
	"night", "light", "heart", "start", "fire", "higher", "road", "home",
	"never", "forever", "falling", "calling", "dream", "stream", "gold",
	"cold", "shadow", "echo", "river", "silver", "thunder", "wonder",
	"morning", "warning", "dance", "chance", "alive", "drive", "story",
	"glory", "summer", "slower", "brighter", "together", "weather",
}

// Placeholder generates deterministic untimed filler lines. Used when no
// lyric source is configured and as the fallback after repeated fetch
// failures: the user can always type something.
type Placeholder struct {
	seed  int64
	lines int
}

// NewPlaceholder returns a generator producing the given number of lines.
// The same seed always yields the same text.
func NewPlaceholder(seed int64, lines int) *Placeholder {
	if lines <= 0 {
		lines = 8
	}
	return &Placeholder{seed: seed, lines: lines}
}

// Name implements Provider.
func (p *Placeholder) Name() string {
	return "placeholder"
}

// Load implements Provider. It never fails.
func (p *Placeholder) Load(_ context.Context) (Lyrics, error) {
	rnd := rand.New(rand.NewSource(p.seed))
	out := make([]string, p.lines)
	for i := range out {
		wordCount := 4 + rnd.Intn(4)
		words := make([]string, wordCount)
		for j := range words {
			words[j] = placeholderWords[rnd.Intn(len(placeholderWords))]
		}
		out[i] = strings.Join(words, " ")
	}
	return Lyrics{Raw: strings.Join(out, "\n"), Title: "practice lines"}, nil
}
