package models

import (
	"time"

	"github.com/google/uuid"
)

// ExperienceLevel is the self-reported training age of a user.
type ExperienceLevel string

const (
	Beginner     ExperienceLevel = "beginner"
	Intermediate ExperienceLevel = "intermediate"
	Advanced     ExperienceLevel = "advanced"
)

// ExperienceLevels lists every level in progression order.
var ExperienceLevels = []ExperienceLevel{Beginner, Intermediate, Advanced}

// Valid reports whether l is one of the known levels.
func (l ExperienceLevel) Valid() bool {
	switch l {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// FitnessGoal is the primary outcome a program is built for.
type FitnessGoal string

const (
	FatLoss        FitnessGoal = "fat_loss"
	MuscleGain     FitnessGoal = "muscle_gain"
	Endurance      FitnessGoal = "endurance"
	Strength       FitnessGoal = "strength"
	GeneralFitness FitnessGoal = "general_fitness"
)

// FitnessGoals lists every goal.
var FitnessGoals = []FitnessGoal{FatLoss, MuscleGain, Endurance, Strength, GeneralFitness}

// Valid reports whether g is one of the known goals.
func (g FitnessGoal) Valid() bool {
	switch g {
	case FatLoss, MuscleGain, Endurance, Strength, GeneralFitness:
		return true
	}
	return false
}

// Injury is a body part the user reported as hurt.
type Injury struct {
	BodyPart    string `json:"body_part"`
	Description string `json:"description,omitempty"`
	Severity    string `json:"severity,omitempty"` // mild, moderate, severe
	IsRecovered bool   `json:"is_recovered"`
}

// TimeSlot is an HH:MM window in which the user can train.
type TimeSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// UserProfile is the intake record the generator and advisor read.
type UserProfile struct {
	ID                 uuid.UUID             `json:"id"`
	Name               string                `json:"name"`
	Email              string                `json:"email"`
	Age                int                   `json:"age,omitempty"`
	Gender             string                `json:"gender,omitempty"`
	HeightCm           float64               `json:"height_cm,omitempty"`
	WeightKg           float64               `json:"weight_kg,omitempty"`
	ExperienceLevel    ExperienceLevel       `json:"experience_level"`
	FitnessGoal        FitnessGoal           `json:"fitness_goal"`
	DaysPerWeek        int                   `json:"days_per_week"`
	TimePerWorkout     int                   `json:"time_per_workout,omitempty"` // minutes
	Injuries           []Injury              `json:"injuries"`
	Equipment          []string              `json:"equipment"`
	WeeklyAvailability map[string][]TimeSlot `json:"weekly_availability,omitempty"`
	LastRestDay        *time.Time            `json:"last_rest_day,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}
