// Package stats contains score aggregation and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/typeoke/internal/model"
)

const sparkChars = " .:-=+*#%@"

const terminalWidthBackup = 80

// Summary aggregates a set of score records.
type Summary struct {
	Count       int
	AvgWPM      float64
	BestWPM     int
	AvgAccuracy float64
	TotalErrors int
}

// Summarize computes aggregate metrics over score records.
func Summarize(scores []model.ScoreRecord) Summary {
	var sum Summary
	sum.Count = len(scores)
	if sum.Count == 0 {
		return sum
	}
	var totalWPM, totalAcc float64
	for _, s := range scores {
		totalWPM += float64(s.WPM)
		totalAcc += float64(s.Accuracy)
		sum.TotalErrors += s.Errors
		if s.WPM > sum.BestWPM {
			sum.BestWPM = s.WPM
		}
	}
	count := float64(sum.Count)
	sum.AvgWPM = totalWPM / count
	sum.AvgAccuracy = totalAcc / count
	return sum
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// WPMSeries extracts the WPM values of the records in order.
func WPMSeries(scores []model.ScoreRecord) []float64 {
	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = float64(s.WPM)
	}
	return out
}

// RenderSummary prints aggregate metrics for the score records.
func RenderSummary(w io.Writer, scores []model.ScoreRecord) error {
	if len(scores) == 0 {
		_, err := fmt.Fprintln(w, "No scores found.")
		return err
	}
	sum := Summarize(scores)
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Plays: %d\n", sum.Count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg WPM: %.2f\n", sum.AvgWPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best WPM: %d\n", sum.BestWPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Accuracy: %.2f%%\n", sum.AvgAccuracy); err != nil {
		return err
	}
	if len(scores) > 1 {
		if _, err := fmt.Fprintf(w, "WPM trend: %s\n", Sparkline(WPMSeries(scores))); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
