// Package history persists analysis results so that past runs can be
// reviewed. Rows carry a few queryable summary columns plus the full result
// as an opaque msgpack blob.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Record is one stored analysis run. Payload holds the msgpack-encoded full
// result; Decode unmarshals it into a caller-supplied structure.
type Record struct {
	ID             int64     `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Ticker         string    `json:"ticker"`
	AnalysisType   string    `json:"analysis_type"`
	OverallScore   float64   `json:"overall_score"`
	Recommendation string    `json:"recommendation"`
	Payload        []byte    `json:"-"`
}

// Decode unmarshals the stored payload into out.
func (r *Record) Decode(out interface{}) error {
	return msgpack.Unmarshal(r.Payload, out)
}

// Repository stores and retrieves analysis history rows.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a history repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "history").Logger(),
	}
}

// Migrate creates the history table if it does not exist.
func (r *Repository) Migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS analysis_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			ticker TEXT NOT NULL DEFAULT '',
			analysis_type TEXT NOT NULL,
			overall_score REAL NOT NULL DEFAULT 0,
			recommendation TEXT NOT NULL DEFAULT '',
			payload BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_history_created_at ON analysis_history(created_at);
		CREATE INDEX IF NOT EXISTS idx_history_ticker ON analysis_history(ticker);
	`

	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("failed to migrate history schema: %w", err)
	}
	return nil
}

// Save encodes result with msgpack and inserts a new row, returning the
// autoincrement id.
func (r *Repository) Save(ticker, analysisType string, overallScore float64, recommendation string, result interface{}) (int64, error) {
	payload, err := msgpack.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("failed to encode analysis payload: %w", err)
	}

	query := `
		INSERT INTO analysis_history
		(created_at, ticker, analysis_type, overall_score, recommendation, payload)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := r.db.Exec(query,
		time.Now().UTC().Format(time.RFC3339),
		ticker,
		analysisType,
		overallScore,
		recommendation,
		payload,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save analysis: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}

	r.log.Info().
		Int64("id", id).
		Str("ticker", ticker).
		Str("type", analysisType).
		Msg("Analysis saved")

	return id, nil
}

// Get retrieves one record by id. Returns nil when the id does not exist.
func (r *Repository) Get(id int64) (*Record, error) {
	query := `
		SELECT id, created_at, ticker, analysis_type, overall_score, recommendation, payload
		FROM analysis_history WHERE id = ?
	`

	record, err := scanRecord(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis %d: %w", id, err)
	}
	return record, nil
}

// List retrieves history rows, most recent first.
func (r *Repository) List(limit int) ([]Record, error) {
	query := `
		SELECT id, created_at, ticker, analysis_type, overall_score, recommendation, payload
		FROM analysis_history
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// Delete removes a record by id. Returns true when a row was deleted.
func (r *Repository) Delete(id int64) (bool, error) {
	res, err := r.db.Exec("DELETE FROM analysis_history WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete analysis %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// PruneOlderThan removes records created before the cutoff and returns the
// number of rows deleted.
func (r *Repository) PruneOlderThan(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(
		"DELETE FROM analysis_history WHERE created_at < ?",
		cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune analysis history: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		r.log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("Pruned analysis history")
	}
	return deleted, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*Record, error) {
	var record Record
	var createdAt string

	if err := s.Scan(
		&record.ID,
		&createdAt,
		&record.Ticker,
		&record.AnalysisType,
		&record.OverallScore,
		&record.Recommendation,
		&record.Payload,
	); err != nil {
		return nil, err
	}

	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	record.CreatedAt = ts

	return &record, nil
}
