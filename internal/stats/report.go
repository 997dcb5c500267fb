// Package stats contains score aggregation and reporting.
package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/typeoke/internal/model"
)

// RenderScores prints one row per score record, oldest first. Titles longer
// than the terminal allows are truncated with an ellipsis.
func RenderScores(w io.Writer, scores []model.ScoreRecord) error {
	return RenderScoresWithWidth(w, scores, terminalWidth())
}

// RenderScoresWithWidth prints the score table sized to a total width.
func RenderScoresWithWidth(w io.Writer, scores []model.ScoreRecord, totalWidth int) error {
	if len(scores) == 0 {
		_, err := fmt.Fprintln(w, "No scores found.")
		return err
	}

	// Width consumed by the fixed columns plus separators.
	const fixedWidth = 16 + 4 + 8 + 6 + 6*1
	titleWidth := totalWidth - fixedWidth
	if titleWidth < 8 {
		titleWidth = 8
	}

	headers := []string{"Played", "Title", "WPM", "Accuracy", "Errors"}
	rows := make([][]string, 0, len(scores))
	for _, s := range scores {
		rows = append(rows, []string{
			s.PlayedAt.Format("2006-01-02 15:04"),
			truncateCell(s.Title, titleWidth),
			fmt.Sprintf("%d", s.WPM),
			fmt.Sprintf("%d%%", s.Accuracy),
			fmt.Sprintf("%d", s.Errors),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func truncateCell(value string, width int) string {
	if width <= 0 || displayWidth(value) <= width {
		return value
	}
	runes := []rune(value)
	if width <= 1 {
		return string(runes[:1])
	}
	for len(runes) > 0 && displayWidth(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
