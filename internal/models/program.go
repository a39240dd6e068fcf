package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Intensity is the coarse effort label of a workout.
type Intensity string

const (
	IntensityLow      Intensity = "low"
	IntensityModerate Intensity = "moderate"
	IntensityHigh     Intensity = "high"
)

// Lower returns the next lower intensity, saturating at low.
func (i Intensity) Lower() Intensity {
	switch i {
	case IntensityHigh:
		return IntensityModerate
	default:
		return IntensityLow
	}
}

// Higher returns the next higher intensity, saturating at high.
func (i Intensity) Higher() Intensity {
	switch i {
	case IntensityLow:
		return IntensityModerate
	default:
		return IntensityHigh
	}
}

// Workout types.
const (
	WorkoutStrength = "strength"
	WorkoutCardio   = "cardio"
)

// DaysOfWeek is the Monday-first calendar order used by every program week.
var DaysOfWeek = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// ExerciseInstance is an exercise as prescribed inside a workout.
type ExerciseInstance struct {
	Name            string   `json:"name"`
	MuscleGroups    []string `json:"muscle_groups"`
	Sets            int      `json:"sets"`
	Reps            string   `json:"reps"`
	RestBetweenSets int      `json:"rest_between_sets"` // seconds
	Notes           string   `json:"notes,omitempty"`
	Alternatives    []string `json:"alternatives,omitempty"`
}

// Workout is one session on a training day.
type Workout struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Type            string             `json:"type"`
	Exercises       []ExerciseInstance `json:"exercises"`
	DurationMinutes int                `json:"duration_minutes"`
	Intensity       Intensity          `json:"intensity"`
}

// WorkoutDay is a calendar day inside a program week.
type WorkoutDay struct {
	DayOfWeek string    `json:"day_of_week"`
	IsRestDay bool      `json:"is_rest_day"`
	Workouts  []Workout `json:"workouts"`
}

// WorkoutWeek holds exactly seven days, Monday first.
type WorkoutWeek struct {
	WeekNumber int          `json:"week_number"`
	Days       []WorkoutDay `json:"days"`
}

// WorkoutProgram is a generated multi-week schedule.
type WorkoutProgram struct {
	ID                  uuid.UUID       `json:"id"`
	ProfileID           uuid.UUID       `json:"profile_id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	ExperienceLevel     ExperienceLevel `json:"experience_level"`
	FitnessGoal         FitnessGoal     `json:"fitness_goal"`
	DeloadFrequency     int             `json:"deload_frequency"` // weeks
	ProgressionStrategy string          `json:"progression_strategy"`
	Notes               []string        `json:"notes"`
	Weeks               []WorkoutWeek   `json:"weeks"`
	CreatedAt           time.Time       `json:"created_at"`
}

// Clone returns a deep copy that shares no slices with p.
func (p *WorkoutProgram) Clone() *WorkoutProgram {
	if p == nil {
		return nil
	}
	c := *p
	c.Notes = slices.Clone(p.Notes)
	if p.Weeks != nil {
		c.Weeks = make([]WorkoutWeek, len(p.Weeks))
		for i, w := range p.Weeks {
			c.Weeks[i] = w.clone()
		}
	}
	return &c
}

func (w WorkoutWeek) clone() WorkoutWeek {
	c := w
	if w.Days != nil {
		c.Days = make([]WorkoutDay, len(w.Days))
		for i, d := range w.Days {
			c.Days[i] = d.clone()
		}
	}
	return c
}

func (d WorkoutDay) clone() WorkoutDay {
	c := d
	if d.Workouts != nil {
		c.Workouts = make([]Workout, len(d.Workouts))
		for i, wo := range d.Workouts {
			c.Workouts[i] = wo.clone()
		}
	}
	return c
}

func (wo Workout) clone() Workout {
	c := wo
	if wo.Exercises != nil {
		c.Exercises = make([]ExerciseInstance, len(wo.Exercises))
		for i, e := range wo.Exercises {
			e.MuscleGroups = slices.Clone(e.MuscleGroups)
			e.Alternatives = slices.Clone(e.Alternatives)
			c.Exercises[i] = e
		}
	}
	return c
}
