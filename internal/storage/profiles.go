package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/claude/repcoach/internal/coach"
	"github.com/claude/repcoach/internal/models"
)

const profileColumns = `id, name, email, age, gender, height_cm, weight_kg, experience_level,
	fitness_goal, days_per_week, time_per_workout, injuries, equipment, weekly_availability,
	last_rest_day, created_at, updated_at`

// profileJSON holds the JSONB-encoded columns of a profile.
type profileJSON struct {
	injuries, equipment, availability []byte
}

func encodeProfile(p *models.UserProfile) (profileJSON, error) {
	var (
		out profileJSON
		err error
	)
	if out.injuries, err = jsonArg(p.Injuries); err != nil {
		return out, fmt.Errorf("encoding injuries: %w", err)
	}
	if out.equipment, err = jsonArg(p.Equipment); err != nil {
		return out, fmt.Errorf("encoding equipment: %w", err)
	}
	out.availability = []byte("{}")
	if p.WeeklyAvailability != nil {
		if out.availability, err = json.Marshal(p.WeeklyAvailability); err != nil {
			return out, fmt.Errorf("encoding availability: %w", err)
		}
	}
	return out, nil
}

// CreateProfile inserts a new profile row.
func (db *DB) CreateProfile(ctx context.Context, p *models.UserProfile) error {
	j, err := encodeProfile(p)
	if err != nil {
		return err
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO profiles (`+profileColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		p.ID, p.Name, p.Email, p.Age, p.Gender, p.HeightCm, p.WeightKg,
		string(p.ExperienceLevel), string(p.FitnessGoal), p.DaysPerWeek, p.TimePerWorkout,
		j.injuries, j.equipment, j.availability, p.LastRestDay, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting profile: %w", err)
	}
	return nil
}

// UpdateProfile overwrites every mutable column of an existing profile.
func (db *DB) UpdateProfile(ctx context.Context, p *models.UserProfile) error {
	j, err := encodeProfile(p)
	if err != nil {
		return err
	}
	tag, err := db.Pool.Exec(ctx,
		`UPDATE profiles SET
		 name = $2, email = $3, age = $4, gender = $5, height_cm = $6, weight_kg = $7,
		 experience_level = $8, fitness_goal = $9, days_per_week = $10, time_per_workout = $11,
		 injuries = $12, equipment = $13, weekly_availability = $14, last_rest_day = $15,
		 updated_at = $16
		 WHERE id = $1`,
		p.ID, p.Name, p.Email, p.Age, p.Gender, p.HeightCm, p.WeightKg,
		string(p.ExperienceLevel), string(p.FitnessGoal), p.DaysPerWeek, p.TimePerWorkout,
		j.injuries, j.equipment, j.availability, p.LastRestDay, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating profile %s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile %s: %w", p.ID, coach.ErrNotFound)
	}
	return nil
}

// GetProfile retrieves a single profile by ID.
func (db *DB) GetProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	var (
		p               models.UserProfile
		level, goal     string
		injuries, equip []byte
		availability    []byte
	)
	err := db.Pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Email, &p.Age, &p.Gender, &p.HeightCm, &p.WeightKg,
		&level, &goal, &p.DaysPerWeek, &p.TimePerWorkout,
		&injuries, &equip, &availability, &p.LastRestDay, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("profile %s", id))
	}
	p.ExperienceLevel = models.ExperienceLevel(level)
	p.FitnessGoal = models.FitnessGoal(goal)
	if err := scanJSON(injuries, &p.Injuries); err != nil {
		return nil, fmt.Errorf("decoding injuries: %w", err)
	}
	if err := scanJSON(equip, &p.Equipment); err != nil {
		return nil, fmt.Errorf("decoding equipment: %w", err)
	}
	if err := scanJSON(availability, &p.WeeklyAvailability); err != nil {
		return nil, fmt.Errorf("decoding availability: %w", err)
	}
	if len(p.WeeklyAvailability) == 0 {
		p.WeeklyAvailability = nil
	}
	return &p, nil
}
