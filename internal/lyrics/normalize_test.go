package lyrics

import "testing"

func seqOf(texts ...string) Sequence {
	var seq Sequence
	for i, text := range texts {
		seq.Lines = append(seq.Lines, Line{Text: text, Start: float64(i * 4), End: float64(i*4 + 4)})
	}
	return seq
}

func TestNormalizeEvenSpacing(t *testing.T) {
	seq := seqOf("one", "two", "three", "four")
	out := Normalize(seq, 100, 3, 3)
	if len(out.Lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(out.Lines))
	}
	// available = 94, timePerLine = 23.5
	if out.Lines[0].Start != 3 {
		t.Fatalf("expected first start 3, got %v", out.Lines[0].Start)
	}
	if out.Lines[0].End != 26.5 {
		t.Fatalf("expected first end 26.5, got %v", out.Lines[0].End)
	}
	if out.Lines[3].End != 97 {
		t.Fatalf("expected last end 97, got %v", out.Lines[3].End)
	}
}

func TestNormalizeConservation(t *testing.T) {
	for _, duration := range []float64{1, 7, 30, 180, 600} {
		seq := seqOf("a", "b", "c")
		out := Normalize(seq, duration, 3, 3)
		if out.Lines[0].Start < 0 {
			t.Fatalf("duration %v: first start negative: %v", duration, out.Lines[0].Start)
		}
		if last := out.Lines[len(out.Lines)-1].End; last > duration {
			t.Fatalf("duration %v: last end %v exceeds duration", duration, last)
		}
	}
}

func TestNormalizePreservesOrder(t *testing.T) {
	seq := seqOf("a", "b", "c", "d", "e")
	out := Normalize(seq, 60, 3, 3)
	for i := 0; i+1 < len(out.Lines); i++ {
		if out.Lines[i].End > out.Lines[i+1].Start {
			t.Fatalf("line %d overlaps line %d: %+v", i, i+1, out.Lines)
		}
		if out.Lines[i].Start >= out.Lines[i].End {
			t.Fatalf("line %d has empty window: %+v", i, out.Lines[i])
		}
	}
}

func TestNormalizePhraseGap(t *testing.T) {
	seq := seqOf("no punctuation", "ends here.")
	out := Normalize(seq, 43, 3, 0)
	// available = 40, timePerLine = 20
	if out.Lines[0].End != 23 {
		t.Fatalf("expected plain line end 23, got %v", out.Lines[0].End)
	}
	if out.Lines[1].End != 42.5 {
		t.Fatalf("expected punctuated line end 42.5, got %v", out.Lines[1].End)
	}
}

func TestNormalizeShortDurationReducesOffsets(t *testing.T) {
	seq := seqOf("a", "b")
	out := Normalize(seq, 4, 3, 3)
	// Offsets collapse to floor(4/10) = 0, leaving 2 seconds per line.
	if out.Lines[0].Start != 0 {
		t.Fatalf("expected first start 0, got %v", out.Lines[0].Start)
	}
	if out.Lines[1].End != 4 {
		t.Fatalf("expected last end 4, got %v", out.Lines[1].End)
	}
}

func TestNormalizeNoOpCases(t *testing.T) {
	empty := Normalize(Sequence{}, 60, 3, 3)
	if !empty.Empty() {
		t.Fatalf("expected empty sequence to pass through")
	}
	seq := seqOf("a")
	out := Normalize(seq, 0, 3, 3)
	if out.Lines[0] != seq.Lines[0] {
		t.Fatalf("expected zero duration to be a no-op, got %+v", out.Lines[0])
	}
}

func TestNormalizeRoundsToTenth(t *testing.T) {
	seq := seqOf("a", "b", "c")
	out := Normalize(seq, 10, 0, 0)
	for _, line := range out.Lines {
		for _, v := range []float64{line.Start, line.End} {
			if v != roundTenth(v) {
				t.Fatalf("time %v not rounded to one decimal", v)
			}
		}
	}
}
