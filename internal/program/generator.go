// Package program builds multi-week workout programs from templates and
// adapts them to post-workout feedback.
package program

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/repcoach/internal/models"
)

// Weeks is the fixed program length.
const Weeks = 4

// Source supplies templates and exercises. *catalog.Catalog satisfies it.
type Source interface {
	Template(level models.ExperienceLevel, goal models.FitnessGoal) (models.TemplateSpec, error)
	ByGroup(group string) []models.ExerciseDefinition
	WorkoutTypes() []string
}

// Generator builds programs. It owns its random source and is not safe for
// concurrent use; build one per request.
type Generator struct {
	src Source
	rng *rand.Rand
	now func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand pins exercise selection to r.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rng = r }
}

// WithClock overrides the CreatedAt time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator checks that every workout type src can name has a plan and
// that every planned group has exercises.
func NewGenerator(src Source, opts ...Option) (*Generator, error) {
	if err := CheckPlans(src); err != nil {
		return nil, err
	}
	g := &Generator{
		src: src,
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now: time.Now,
	}
	for _, o := range opts {
		o(g)
	}
	return g, nil
}

// CheckPlans validates src against the workout type plans.
func CheckPlans(src Source) error {
	for _, wt := range src.WorkoutTypes() {
		p, ok := plans[wt]
		if !ok {
			return fmt.Errorf("workout type %q has no exercise plan", wt)
		}
		for _, s := range p.slots {
			if len(src.ByGroup(s.group)) == 0 {
				return fmt.Errorf("workout type %q: catalog group %q is empty", wt, s.group)
			}
		}
	}
	return nil
}

// Generate builds a program for profile. Structure is deterministic; which
// exercises fill each group depends on the random source.
func (g *Generator) Generate(profile *models.UserProfile) (*models.WorkoutProgram, error) {
	tmpl, err := g.src.Template(profile.ExperienceLevel, profile.FitnessGoal)
	if err != nil {
		return nil, fmt.Errorf("resolving template: %w", err)
	}

	goal := strings.Replace(string(profile.FitnessGoal), "_", " ", 1)
	p := &models.WorkoutProgram{
		ID:                  uuid.New(),
		ProfileID:           profile.ID,
		Name:                goal + " Program",
		Description:         fmt.Sprintf("A %s level program focused on %s", profile.ExperienceLevel, goal),
		ExperienceLevel:     profile.ExperienceLevel,
		FitnessGoal:         profile.FitnessGoal,
		DeloadFrequency:     tmpl.DeloadFrequency,
		ProgressionStrategy: "progressive overload",
		Notes: append([]string{
			"Focus on proper form",
			"Increase weight when you can complete all sets and reps with good form",
		}, tmpl.Notes...),
		CreatedAt: g.now().UTC(),
	}

	for week := 1; week <= Weeks; week++ {
		w, err := g.week(week, profile, &tmpl)
		if err != nil {
			return nil, err
		}
		p.Weeks = append(p.Weeks, w)
	}
	return p, nil
}

func (g *Generator) week(number int, profile *models.UserProfile, tmpl *models.TemplateSpec) (models.WorkoutWeek, error) {
	workoutDays := min(max(profile.DaysPerWeek, 0), len(models.DaysOfWeek))
	w := models.WorkoutWeek{WeekNumber: number, Days: make([]models.WorkoutDay, 0, len(models.DaysOfWeek))}

	for i, dow := range models.DaysOfWeek {
		day := models.WorkoutDay{DayOfWeek: dow, IsRestDay: true, Workouts: []models.Workout{}}
		if i < workoutDays {
			wo, err := g.workout(number, i, profile, tmpl)
			if err != nil {
				return w, err
			}
			day.IsRestDay = false
			day.Workouts = append(day.Workouts, wo)
		}
		w.Days = append(w.Days, day)
	}
	return w, nil
}

func (g *Generator) workout(week, dayIndex int, profile *models.UserProfile, tmpl *models.TemplateSpec) (models.Workout, error) {
	workoutType := tmpl.WorkoutTypes[dayIndex%len(tmpl.WorkoutTypes)]
	p, ok := plans[workoutType]
	if !ok {
		return models.Workout{}, fmt.Errorf("workout type %q has no exercise plan", workoutType)
	}

	wo := models.Workout{
		ID:        fmt.Sprintf("w%d-%s", week, models.DaysOfWeek[dayIndex]),
		Name:      capitalize(workoutType) + " Workout",
		Type:      models.WorkoutStrength,
		Intensity: Intensity(week, profile.ExperienceLevel),
	}

	if p.cardio {
		wo.Type = models.WorkoutCardio
		wo.Exercises = []models.ExerciseInstance{{
			Name:         cardioExercise,
			MuscleGroups: []string{"cardiovascular"},
			Sets:         1,
			Reps:         fmt.Sprintf("%d minutes", tmpl.CardioMinutes),
			Notes:        cardioNote,
		}}
		wo.DurationMinutes = tmpl.CardioMinutes + 10
		return wo, nil
	}

	wo.Exercises = []models.ExerciseInstance{}
	for _, s := range p.slots {
		pool := g.src.ByGroup(s.group)
		g.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		for _, def := range pool[:min(s.count, len(pool))] {
			wo.Exercises = append(wo.Exercises, models.ExerciseInstance{
				Name:            def.Name,
				MuscleGroups:    def.Muscles(),
				Sets:            tmpl.SetsPerExercise,
				Reps:            tmpl.RepRange,
				RestBetweenSets: tmpl.RestBetweenSetsSec,
				Alternatives:    slices.Clone(def.Alternatives),
			})
		}
	}
	adjustForInjuries(wo.Exercises, profile.Injuries)
	wo.DurationMinutes = StrengthDuration(wo.Exercises)
	return wo, nil
}

// adjustForInjuries swaps exercises that load an injured body part for their
// first alternative, or flags them when there is none.
func adjustForInjuries(exercises []models.ExerciseInstance, injuries []models.Injury) {
	for _, inj := range injuries {
		if inj.IsRecovered {
			continue
		}
		part := strings.ToLower(strings.TrimSpace(inj.BodyPart))
		affected := injuryExercises[part]
		for i := range exercises {
			ex := &exercises[i]
			if !slices.Contains(affected, ex.Name) {
				continue
			}
			if len(ex.Alternatives) > 0 {
				ex.Name = ex.Alternatives[0]
				ex.Alternatives = ex.Alternatives[1:]
				ex.Notes = fmt.Sprintf("Modified due to %s injury. Use lighter weight and focus on form.", inj.BodyPart)
			} else {
				ex.Notes = fmt.Sprintf("Be cautious due to %s injury. Use lighter weight and stop if pain occurs.", inj.BodyPart)
			}
		}
	}
}

// StrengthDuration estimates minutes for a strength session: 10 warm-up,
// 45s of work plus the rest interval per set, 5 cool-down.
func StrengthDuration(exercises []models.ExerciseInstance) int {
	if len(exercises) == 0 {
		return 0
	}
	total := 10.0
	for _, ex := range exercises {
		total += float64(ex.Sets) * (0.75 + float64(ex.RestBetweenSets)/60)
	}
	total += 5
	return int(math.Round(total))
}

// Intensity is the fixed periodization curve over the four program weeks.
func Intensity(week int, level models.ExperienceLevel) models.Intensity {
	switch level {
	case models.Beginner:
		switch week {
		case 1:
			return models.IntensityLow
		case 2, 3:
			return models.IntensityModerate
		default:
			return models.IntensityHigh
		}
	case models.Intermediate:
		if week == 1 {
			return models.IntensityModerate
		}
		return models.IntensityHigh
	default:
		if week == 4 {
			return models.IntensityModerate // deload
		}
		return models.IntensityHigh
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
