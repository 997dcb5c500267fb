package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Title", "WPM", "Errors"}
	rows := [][]string{
		{"Yesterday", "62", "4"},
		{"Bohemian Rhapsody", "48", "11"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Title             WPM Errors" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Yesterday          62      4" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Bohemian Rhapsody  48     11" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	headers := []string{"Title", "WPM"}
	rows := [][]string{
		{"上を向いて", "50"},
		{"Short", "40"},
	}
	lines := formatTable(headers, rows, map[int]bool{1: true})
	// Five double-width runes occupy ten cells, padding must follow cells.
	if lines[1] != "上を向いて  50" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "Short       40" {
		t.Fatalf("unexpected narrow row: %q", lines[2])
	}
}
