package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/claude/repcoach/internal/models"
)

const programColumns = `id, profile_id, name, description, experience_level, fitness_goal,
	deload_frequency, progression_strategy, notes, weeks, created_at`

// SaveProgram stores a program. Programs are immutable once written; an
// adapted program is saved as a new row.
func (db *DB) SaveProgram(ctx context.Context, p *models.WorkoutProgram) error {
	notes, err := jsonArg(p.Notes)
	if err != nil {
		return fmt.Errorf("encoding notes: %w", err)
	}
	weeks, err := json.Marshal(p.Weeks)
	if err != nil {
		return fmt.Errorf("encoding weeks: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO workout_programs (`+programColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		p.ID, p.ProfileID, p.Name, p.Description, string(p.ExperienceLevel), string(p.FitnessGoal),
		p.DeloadFrequency, p.ProgressionStrategy, notes, weeks, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting program: %w", err)
	}
	return nil
}

// GetProgram retrieves a single program by ID.
func (db *DB) GetProgram(ctx context.Context, id uuid.UUID) (*models.WorkoutProgram, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+programColumns+` FROM workout_programs WHERE id = $1`, id)
	p, err := scanProgram(row)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("program %s", id))
	}
	return p, nil
}

// LatestProgram returns the most recently created program of a profile.
func (db *DB) LatestProgram(ctx context.Context, profileID uuid.UUID) (*models.WorkoutProgram, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+programColumns+` FROM workout_programs
		 WHERE profile_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`, profileID)
	p, err := scanProgram(row)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("latest program for %s", profileID))
	}
	return p, nil
}

func scanProgram(row interface{ Scan(dest ...any) error }) (*models.WorkoutProgram, error) {
	var (
		p           models.WorkoutProgram
		level, goal string
		notes       []byte
		weeks       []byte
	)
	if err := row.Scan(&p.ID, &p.ProfileID, &p.Name, &p.Description, &level, &goal,
		&p.DeloadFrequency, &p.ProgressionStrategy, &notes, &weeks, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.ExperienceLevel = models.ExperienceLevel(level)
	p.FitnessGoal = models.FitnessGoal(goal)
	if err := scanJSON(notes, &p.Notes); err != nil {
		return nil, fmt.Errorf("decoding notes: %w", err)
	}
	if err := scanJSON(weeks, &p.Weeks); err != nil {
		return nil, fmt.Errorf("decoding weeks: %w", err)
	}
	return &p, nil
}
