package typing

import (
	"testing"
	"time"
)

func TestEvaluateSingleMismatch(t *testing.T) {
	start := time.Unix(0, 0)
	now := start.Add(time.Minute)
	res := Evaluate([]rune("hello world"), []rune("hello wprld"), start, now)
	if res.Errors != 1 {
		t.Fatalf("expected 1 error, got %d", res.Errors)
	}
	if res.Accuracy != 91 {
		t.Fatalf("expected accuracy 91, got %d", res.Accuracy)
	}
	if !res.Completed {
		t.Fatalf("expected completion at full length")
	}
}

func TestEvaluateWPM(t *testing.T) {
	start := time.Unix(0, 0)
	now := start.Add(time.Minute)
	// 50 correct runes in one minute: gross 10 WPM, no errors.
	typed := make([]rune, 50)
	target := make([]rune, 60)
	for i := range target {
		target[i] = 'a'
	}
	for i := range typed {
		typed[i] = 'a'
	}
	res := Evaluate(target, typed, start, now)
	if res.WPM != 10 {
		t.Fatalf("expected 10 WPM, got %d", res.WPM)
	}
	// Five errors subtract five word-equivalents per minute.
	for i := 0; i < 5; i++ {
		typed[i] = 'b'
	}
	res = Evaluate(target, typed, start, now)
	if res.WPM != 5 {
		t.Fatalf("expected 5 WPM after errors, got %d", res.WPM)
	}
}

func TestEvaluateBeforeTimerStarts(t *testing.T) {
	res := Evaluate([]rune("abc"), []rune("a"), time.Time{}, time.Unix(0, 0))
	if res.WPM != 0 {
		t.Fatalf("expected 0 WPM before first keystroke, got %d", res.WPM)
	}
}

func TestEvaluateAccuracyBounds(t *testing.T) {
	start := time.Unix(0, 0)
	now := start.Add(time.Second)
	cases := []struct {
		target, typed string
	}{
		{"", ""},
		{"", "xxxx"},
		{"abc", ""},
		{"abc", "xyzzy"},
		{"abc", "abcdef"},
		{"abc", "abc"},
	}
	for _, c := range cases {
		res := Evaluate([]rune(c.target), []rune(c.typed), start, now)
		if res.Accuracy < 0 || res.Accuracy > 100 {
			t.Fatalf("accuracy out of bounds for %q/%q: %d", c.target, c.typed, res.Accuracy)
		}
	}
}

func TestEvaluateEmptyTypedAccuracy(t *testing.T) {
	res := Evaluate([]rune("abc"), nil, time.Time{}, time.Unix(0, 0))
	if res.Accuracy != 100 {
		t.Fatalf("expected accuracy 100 for empty buffer, got %d", res.Accuracy)
	}
}

func TestEvaluateOvertypeCountsErrors(t *testing.T) {
	start := time.Unix(0, 0)
	res := Evaluate([]rune("ab"), []rune("abxyz"), start, start.Add(time.Second))
	if res.Errors != 3 {
		t.Fatalf("expected 3 overtype errors, got %d", res.Errors)
	}
}

func TestEvaluateEmptyTargetNeverCompletes(t *testing.T) {
	res := Evaluate(nil, []rune("abc"), time.Unix(0, 0), time.Unix(1, 0))
	if res.Completed {
		t.Fatalf("empty target must not complete")
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	start := time.Unix(0, 0)
	now := start.Add(30 * time.Second)
	a := Evaluate([]rune("hello"), []rune("helxo"), start, now)
	b := Evaluate([]rune("hello"), []rune("helxo"), start, now)
	if a != b {
		t.Fatalf("expected identical results, got %+v vs %+v", a, b)
	}
}

func TestSessionCompletionFiresOnce(t *testing.T) {
	target := []rune("ab")
	s := NewSession()
	now := time.Unix(0, 0)
	s.Type([]rune("a"), now)
	if _, fired := s.Update(target, now.Add(time.Second)); fired {
		t.Fatalf("completion fired too early")
	}
	s.Type([]rune("b"), now.Add(2*time.Second))
	res, fired := s.Update(target, now.Add(3*time.Second))
	if !fired || !res.Completed {
		t.Fatalf("expected completion to fire, got %+v fired=%v", res, fired)
	}
	// Terminal: further keystrokes neither re-fire nor change stats.
	s.Type([]rune("zzz"), now.Add(4*time.Second))
	again, fired := s.Update(target, now.Add(time.Hour))
	if fired {
		t.Fatalf("completion fired twice")
	}
	if again != res {
		t.Fatalf("stats changed after completion: %+v vs %+v", again, res)
	}
}

func TestSessionResetClearsEverything(t *testing.T) {
	s := NewSession()
	now := time.Unix(0, 0)
	s.Type([]rune("ab"), now)
	s.Update([]rune("ab"), now.Add(time.Second))
	s.Reset()
	if s.Pos() != 0 || s.Started() || s.Completed() {
		t.Fatalf("reset left state behind: pos=%d started=%v completed=%v", s.Pos(), s.Started(), s.Completed())
	}
}

func TestSessionBackspace(t *testing.T) {
	s := NewSession()
	s.Type([]rune("abc"), time.Unix(0, 0))
	s.Backspace()
	if string(s.Typed()) != "ab" {
		t.Fatalf("expected buffer ab, got %q", string(s.Typed()))
	}
	s.Backspace()
	s.Backspace()
	s.Backspace()
	if s.Pos() != 0 {
		t.Fatalf("expected empty buffer, got %d", s.Pos())
	}
}

func TestSessionForceAdvance(t *testing.T) {
	target := []rune("abcdefgh")
	s := NewSession()
	s.Type([]rune("ax"), time.Unix(0, 0))
	s.ForceAdvance(target, 5)
	if string(s.Typed()) != "abcde" {
		t.Fatalf("expected buffer abcde, got %q", string(s.Typed()))
	}
	s.ForceAdvance(target, 100)
	if s.Pos() != len(target) {
		t.Fatalf("expected clamp to target length, got %d", s.Pos())
	}
}
