package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/claude/repcoach/internal/models"
)

// InsertWorkoutLog appends a log entry to a profile's history.
func (db *DB) InsertWorkoutLog(ctx context.Context, l *models.WorkoutLog) error {
	exercises, err := jsonArg(l.Exercises)
	if err != nil {
		return fmt.Errorf("encoding exercises: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO workout_logs (id, profile_id, date, workout_id, workout_name, exercises,
		 perceived_exertion, energy_level, notes)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		l.ID, l.ProfileID, l.Date, l.WorkoutID, l.WorkoutName, exercises,
		l.PerceivedExertion, l.EnergyLevel, l.Notes)
	if err != nil {
		return fmt.Errorf("inserting workout log: %w", err)
	}
	return nil
}

// InsertImportedLog inserts a log produced by an importer. The key identifies
// the source session; re-importing the same key is a no-op. Returns true if inserted.
func (db *DB) InsertImportedLog(ctx context.Context, l *models.WorkoutLog, key string) (bool, error) {
	exercises, err := jsonArg(l.Exercises)
	if err != nil {
		return false, fmt.Errorf("encoding exercises: %w", err)
	}
	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO workout_logs (id, profile_id, date, workout_id, workout_name, exercises,
		 perceived_exertion, energy_level, notes, import_key)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 ON CONFLICT DO NOTHING`,
		l.ID, l.ProfileID, l.Date, l.WorkoutID, l.WorkoutName, exercises,
		l.PerceivedExertion, l.EnergyLevel, l.Notes, key)
	if err != nil {
		return false, fmt.Errorf("inserting imported log: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListWorkoutLogs returns up to limit logs for a profile, newest first.
// A non-positive limit returns the whole history.
func (db *DB) ListWorkoutLogs(ctx context.Context, profileID uuid.UUID, limit int) ([]models.WorkoutLog, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, profile_id, date, workout_id, workout_name, exercises,
		 perceived_exertion, energy_level, notes
		 FROM workout_logs
		 WHERE profile_id = $1
		 ORDER BY date DESC
		 LIMIT NULLIF($2, 0)`,
		profileID, max(limit, 0))
	if err != nil {
		return nil, fmt.Errorf("querying workout logs: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutLog
	for rows.Next() {
		var (
			l         models.WorkoutLog
			exercises []byte
		)
		if err := rows.Scan(&l.ID, &l.ProfileID, &l.Date, &l.WorkoutID, &l.WorkoutName, &exercises,
			&l.PerceivedExertion, &l.EnergyLevel, &l.Notes); err != nil {
			return nil, fmt.Errorf("scanning workout log: %w", err)
		}
		if err := scanJSON(exercises, &l.Exercises); err != nil {
			return nil, fmt.Errorf("decoding exercises of log %s: %w", l.ID, err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
