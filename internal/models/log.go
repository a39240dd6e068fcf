package models

import (
	"time"

	"github.com/google/uuid"
)

// SetLog is a single performed set.
type SetLog struct {
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	Completed bool    `json:"completed"`
}

// ExerciseLog groups the sets performed for one exercise.
type ExerciseLog struct {
	ExerciseName string   `json:"exercise_name"`
	Sets         []SetLog `json:"sets"`
}

// WorkoutLog is one entry of the append-only training history.
type WorkoutLog struct {
	ID                uuid.UUID     `json:"id"`
	ProfileID         uuid.UUID     `json:"profile_id"`
	Date              time.Time     `json:"date"`
	WorkoutID         string        `json:"workout_id,omitempty"`
	WorkoutName       string        `json:"workout_name,omitempty"`
	Exercises         []ExerciseLog `json:"exercises"`
	PerceivedExertion int           `json:"perceived_exertion"` // 1-10
	EnergyLevel       int           `json:"energy_level"`       // 1-10
	Notes             string        `json:"notes,omitempty"`
}

// PainPoint is a body part reported as painful after a workout.
type PainPoint struct {
	BodyPart    string `json:"body_part"`
	PainLevel   int    `json:"pain_level"` // 1-10
	Description string `json:"description,omitempty"`
}

// WorkoutFeedback is the coarse post-workout questionnaire.
type WorkoutFeedback struct {
	ID                uuid.UUID   `json:"id"`
	ProfileID         uuid.UUID   `json:"profile_id"`
	WorkoutID         string      `json:"workout_id,omitempty"`
	CompletionDate    time.Time   `json:"completion_date"`
	PerceivedExertion int         `json:"perceived_exertion"`
	EnergyLevel       int         `json:"energy_level"`
	EnjoymentLevel    int         `json:"enjoyment_level,omitempty"`
	PainPoints        []PainPoint `json:"pain_points,omitempty"`
	Notes             string      `json:"notes,omitempty"`
}
