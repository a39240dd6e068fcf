package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ImportLog represents a single import run's outcome.
type ImportLog struct {
	ID             int64     `json:"id"`
	ProfileID      uuid.UUID `json:"profile_id"`
	CreatedAt      time.Time `json:"created_at"`
	Source         string    `json:"source"`
	Status         string    `json:"status"`
	FilesProcessed int       `json:"files_processed"`
	LogsReceived   int       `json:"logs_received"`
	LogsInserted   int       `json:"logs_inserted"`
	DurationMs     *int      `json:"duration_ms"`
	ErrorMessage   *string   `json:"error_message"`
}

// InsertImportLog creates a new import log entry and returns its ID.
func (db *DB) InsertImportLog(ctx context.Context, log ImportLog) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO import_logs (profile_id, source, status, files_processed, logs_received,
		 logs_inserted, duration_ms, error_message)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING id`,
		log.ProfileID, log.Source, log.Status, log.FilesProcessed, log.LogsReceived,
		log.LogsInserted, log.DurationMs, log.ErrorMessage,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting import log: %w", err)
	}
	return id, nil
}

// UpdateImportLog updates an existing import log entry (typically from "running" to "success" or "error").
func (db *DB) UpdateImportLog(ctx context.Context, id int64, log ImportLog) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE import_logs SET
		 status = $2, files_processed = $3, logs_received = $4, logs_inserted = $5,
		 duration_ms = $6, error_message = $7
		 WHERE id = $1`,
		id, log.Status, log.FilesProcessed, log.LogsReceived, log.LogsInserted,
		log.DurationMs, log.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("updating import log %d: %w", id, err)
	}
	return nil
}

// QueryImportLogs returns the most recent import logs for a profile.
func (db *DB) QueryImportLogs(ctx context.Context, profileID uuid.UUID, limit int) ([]ImportLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, profile_id, created_at, source, status, files_processed, logs_received,
		 logs_inserted, duration_ms, error_message
		 FROM import_logs
		 WHERE profile_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying import logs: %w", err)
	}
	defer rows.Close()

	var result []ImportLog
	for rows.Next() {
		var l ImportLog
		if err := rows.Scan(&l.ID, &l.ProfileID, &l.CreatedAt, &l.Source, &l.Status,
			&l.FilesProcessed, &l.LogsReceived, &l.LogsInserted, &l.DurationMs, &l.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning import log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
