package models

// ExerciseDefinition is an entry of the static exercise catalog.
type ExerciseDefinition struct {
	ID                string   `yaml:"id" json:"id"`
	Name              string   `yaml:"name" json:"name"`
	Groups            []string `yaml:"groups" json:"groups"`
	PrimaryMuscles    []string `yaml:"primary_muscles" json:"primary_muscles"`
	SecondaryMuscles  []string `yaml:"secondary_muscles" json:"secondary_muscles"`
	Equipment         []string `yaml:"equipment" json:"equipment"`
	Difficulty        string   `yaml:"difficulty" json:"difficulty"`
	FatigueFactor     int      `yaml:"fatigue_factor" json:"fatigue_factor"`
	RecoveryTimeHours int      `yaml:"recovery_time_hours" json:"recovery_time_hours"`
	Alternatives      []string `yaml:"alternatives" json:"alternatives"`
}

// Muscles returns primary then secondary muscles.
func (e *ExerciseDefinition) Muscles() []string {
	out := make([]string, 0, len(e.PrimaryMuscles)+len(e.SecondaryMuscles))
	out = append(out, e.PrimaryMuscles...)
	return append(out, e.SecondaryMuscles...)
}

// FatigueLimits are the per-template fatigue ceilings.
type FatigueLimits struct {
	MaxWeeklyVolume           int `yaml:"max_weekly_volume" json:"max_weekly_volume"`
	MaxDailyFatigue           int `yaml:"max_daily_fatigue" json:"max_daily_fatigue"`
	MinRecoveryHours          int `yaml:"min_recovery_hours" json:"min_recovery_hours"`
	NervousSystemRecoveryDays int `yaml:"nervous_system_recovery_days" json:"nervous_system_recovery_days"`
}

// TemplateSpec is the prescription for one experience level and goal.
type TemplateSpec struct {
	Name                string         `yaml:"name" json:"name"`
	Description         string         `yaml:"description" json:"description"`
	DaysPerWeek         int            `yaml:"days_per_week" json:"days_per_week"`
	WorkoutTypes        []string       `yaml:"workout_types" json:"workout_types"`
	ExercisesPerWorkout int            `yaml:"exercises_per_workout" json:"exercises_per_workout"`
	SetsPerExercise     int            `yaml:"sets_per_exercise" json:"sets_per_exercise"`
	RepRange            string         `yaml:"rep_range" json:"rep_range"`
	RestBetweenSetsSec  int            `yaml:"rest_between_sets_sec" json:"rest_between_sets_sec"`
	CardioMinutes       int            `yaml:"cardio_minutes" json:"cardio_minutes"`
	DeloadFrequency     int            `yaml:"deload_frequency" json:"deload_frequency"`
	FatigueLimits       *FatigueLimits `yaml:"fatigue_limits,omitempty" json:"fatigue_limits,omitempty"`
	Notes               []string       `yaml:"notes" json:"notes"`
}

// TemplateTable holds every template keyed by level then goal.
type TemplateTable map[ExperienceLevel]map[FitnessGoal]TemplateSpec

// SplitExercise is a fixed exercise prescription inside a specialized split.
type SplitExercise struct {
	Name    string `yaml:"name" json:"name"`
	Sets    int    `yaml:"sets" json:"sets"`
	Reps    string `yaml:"reps" json:"reps"`
	RestSec int    `yaml:"rest" json:"rest_sec"`
	Notes   string `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// SplitDay is one day of a specialized split.
type SplitDay struct {
	Day       string          `yaml:"day" json:"day"`
	Focus     string          `yaml:"focus" json:"focus"`
	Exercises []SplitExercise `yaml:"exercises" json:"exercises"`
}

// SpecializedTemplate is a named multi-day split.
type SpecializedTemplate struct {
	ID          string          `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	Category    string          `yaml:"category" json:"category"`
	Split       string          `yaml:"split" json:"split"`
	Level       ExperienceLevel `yaml:"level" json:"level"`
	Description string          `yaml:"description" json:"description"`
	Schedule    []SplitDay      `yaml:"schedule" json:"schedule"`
	Principles  []string        `yaml:"principles" json:"principles"`
	Notes       []string        `yaml:"notes" json:"notes"`
}
