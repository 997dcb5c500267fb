// Package store handles SQLite persistence of play scores.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/typeoke/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for score records.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY,
			played_at TEXT NOT NULL,
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			source TEXT NOT NULL,
			wpm INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			typed_runes INTEGER NOT NULL,
			target_runes INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_scores_played_at ON scores(played_at);`,
		`CREATE INDEX IF NOT EXISTS idx_scores_title ON scores(title);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveScore stores one completed-session score. Implements game.ScoreSink.
func (s *Store) SaveScore(ctx context.Context, rec model.ScoreRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO scores (played_at, title, artist, source, wpm, accuracy, errors, typed_runes, target_runes, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.PlayedAt.Format(time.RFC3339Nano),
		rec.Title,
		rec.Artist,
		rec.Source,
		rec.WPM,
		rec.Accuracy,
		rec.Errors,
		rec.TypedRunes,
		rec.TargetRunes,
		rec.DurationMs,
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// ListScores returns scores matching the filter, oldest first.
func (s *Store) ListScores(ctx context.Context, filter model.ScoreFilter) ([]model.ScoreRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Title != "" {
		clauses = append(clauses, "title = ?")
		args = append(args, filter.Title)
	}
	if filter.Since != nil {
		clauses = append(clauses, "played_at >= ?")
		args = append(args, filter.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT played_at, title, artist, source, wpm, accuracy, errors, typed_runes, target_runes, duration_ms
		FROM scores
		WHERE %s
		ORDER BY played_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var scores []model.ScoreRecord
	for rows.Next() {
		var rec model.ScoreRecord
		var playedAt string
		if err := rows.Scan(&playedAt, &rec.Title, &rec.Artist, &rec.Source, &rec.WPM, &rec.Accuracy, &rec.Errors, &rec.TypedRunes, &rec.TargetRunes, &rec.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, playedAt)
		if err != nil {
			return nil, err
		}
		rec.PlayedAt = parsed
		scores = append(scores, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if filter.Last > 0 && len(scores) > filter.Last {
		scores = scores[len(scores)-filter.Last:]
	}
	return scores, nil
}

// BestScore returns the highest-WPM score for a title, or false when the
// title has never been played.
func (s *Store) BestScore(ctx context.Context, title string) (model.ScoreRecord, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT played_at, title, artist, source, wpm, accuracy, errors, typed_runes, target_runes, duration_ms
		 FROM scores
		 WHERE title = ?
		 ORDER BY wpm DESC, accuracy DESC
		 LIMIT 1`, title)
	var rec model.ScoreRecord
	var playedAt string
	err := row.Scan(&playedAt, &rec.Title, &rec.Artist, &rec.Source, &rec.WPM, &rec.Accuracy, &rec.Errors, &rec.TypedRunes, &rec.TargetRunes, &rec.DurationMs)
	if err == sql.ErrNoRows {
		return model.ScoreRecord{}, false, nil
	}
	if err != nil {
		return model.ScoreRecord{}, false, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, playedAt)
	if err != nil {
		return model.ScoreRecord{}, false, err
	}
	rec.PlayedAt = parsed
	return rec, true, nil
}
