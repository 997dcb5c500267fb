package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typeoke/internal/model"
)

func scoreFixture(wpm, accuracy, errors int) model.ScoreRecord {
	return model.ScoreRecord{
		PlayedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Title:    "Song",
		Artist:   "Artist",
		Source:   "file",
		WPM:      wpm,
		Accuracy: accuracy,
		Errors:   errors,
	}
}

func TestSummarize(t *testing.T) {
	scores := []model.ScoreRecord{
		scoreFixture(40, 90, 5),
		scoreFixture(60, 100, 0),
	}
	sum := Summarize(scores)
	if sum.Count != 2 {
		t.Fatalf("expected count 2, got %d", sum.Count)
	}
	if sum.AvgWPM != 50 {
		t.Fatalf("expected avg WPM 50, got %f", sum.AvgWPM)
	}
	if sum.BestWPM != 60 {
		t.Fatalf("expected best WPM 60, got %d", sum.BestWPM)
	}
	if sum.AvgAccuracy != 95 {
		t.Fatalf("expected avg accuracy 95, got %f", sum.AvgAccuracy)
	}
	if sum.TotalErrors != 5 {
		t.Fatalf("expected 5 total errors, got %d", sum.TotalErrors)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(nil)
	if sum.Count != 0 || sum.AvgWPM != 0 || sum.BestWPM != 0 {
		t.Fatalf("expected zero summary, got %+v", sum)
	}
}

func TestMovingAverage(t *testing.T) {
	values := []float64{10, 20, 30, 40}
	out := MovingAverage(values, 2)
	want := []float64{10, 15, 25, 35}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("index %d: expected %f, got %f", i, want[i], out[i])
		}
	}
}

func TestMovingAverageWindowOne(t *testing.T) {
	values := []float64{10, 20}
	out := MovingAverage(values, 1)
	if out[0] != 10 || out[1] != 20 {
		t.Fatalf("expected values unchanged, got %v", out)
	}
}

func TestSparkline(t *testing.T) {
	line := Sparkline([]float64{0, 5, 10})
	if len(line) != 3 {
		t.Fatalf("expected 3 chars, got %q", line)
	}
	if line[0] != sparkChars[0] || line[2] != sparkChars[len(sparkChars)-1] {
		t.Fatalf("expected min and max spark chars, got %q", line)
	}
}

func TestSparklineFlat(t *testing.T) {
	line := Sparkline([]float64{7, 7, 7})
	if len(line) != 3 || line[0] != line[1] || line[1] != line[2] {
		t.Fatalf("expected uniform sparkline, got %q", line)
	}
}

func TestRenderSummary(t *testing.T) {
	var b strings.Builder
	scores := []model.ScoreRecord{scoreFixture(40, 90, 5), scoreFixture(60, 100, 0)}
	if err := RenderSummary(&b, scores); err != nil {
		t.Fatalf("RenderSummary error: %v", err)
	}
	out := b.String()
	for _, want := range []string{"Plays: 2", "Avg WPM: 50.00", "Best WPM: 60", "Avg Accuracy: 95.00%", "WPM trend:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var b strings.Builder
	if err := RenderSummary(&b, nil); err != nil {
		t.Fatalf("RenderSummary error: %v", err)
	}
	if !strings.Contains(b.String(), "No scores found.") {
		t.Fatalf("expected empty message, got %q", b.String())
	}
}

func TestRenderScoresTruncatesTitle(t *testing.T) {
	var b strings.Builder
	rec := scoreFixture(50, 95, 2)
	rec.Title = strings.Repeat("long title ", 20)
	if err := RenderScoresWithWidth(&b, []model.ScoreRecord{rec}, 60); err != nil {
		t.Fatalf("RenderScores error: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "…") {
		t.Fatalf("expected truncated title, got:\n%s", out)
	}
	if !strings.Contains(out, "2024-03-01 12:00") {
		t.Fatalf("expected played-at column, got:\n%s", out)
	}
}
