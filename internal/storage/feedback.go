package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/claude/repcoach/internal/models"
)

// InsertFeedback stores a post-workout questionnaire.
func (db *DB) InsertFeedback(ctx context.Context, f *models.WorkoutFeedback) error {
	pain, err := jsonArg(f.PainPoints)
	if err != nil {
		return fmt.Errorf("encoding pain points: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO workout_feedback (id, profile_id, workout_id, completion_date,
		 perceived_exertion, energy_level, enjoyment_level, pain_points, notes)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		f.ID, f.ProfileID, f.WorkoutID, f.CompletionDate,
		f.PerceivedExertion, f.EnergyLevel, f.EnjoymentLevel, pain, f.Notes)
	if err != nil {
		return fmt.Errorf("inserting feedback: %w", err)
	}
	return nil
}

// ListFeedback returns up to limit feedback entries, newest first.
func (db *DB) ListFeedback(ctx context.Context, profileID uuid.UUID, limit int) ([]models.WorkoutFeedback, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, profile_id, workout_id, completion_date,
		 perceived_exertion, energy_level, enjoyment_level, pain_points, notes
		 FROM workout_feedback
		 WHERE profile_id = $1
		 ORDER BY completion_date DESC
		 LIMIT NULLIF($2, 0)`,
		profileID, max(limit, 0))
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutFeedback
	for rows.Next() {
		var (
			f    models.WorkoutFeedback
			pain []byte
		)
		if err := rows.Scan(&f.ID, &f.ProfileID, &f.WorkoutID, &f.CompletionDate,
			&f.PerceivedExertion, &f.EnergyLevel, &f.EnjoymentLevel, &pain, &f.Notes); err != nil {
			return nil, fmt.Errorf("scanning feedback: %w", err)
		}
		if err := scanJSON(pain, &f.PainPoints); err != nil {
			return nil, fmt.Errorf("decoding pain points: %w", err)
		}
		if len(f.PainPoints) == 0 {
			f.PainPoints = nil
		}
		result = append(result, f)
	}
	return result, rows.Err()
}
