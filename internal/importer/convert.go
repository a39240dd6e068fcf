package importer

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/claude/repcoach/internal/models"
)

// Resolver maps exported exercise names onto catalog entries.
type Resolver interface {
	Lookup(name string) (models.ExerciseDefinition, bool)
}

// defaultEnergy is recorded for imported sessions; the export has no energy rating.
const defaultEnergy = 5

// ToWorkoutLog converts a parsed session into a log entry for profileID.
// Warmup sets are dropped. Perceived exertion is derived from reps in
// reserve as 10 - mean RIR of the working sets, clamped to 1-10. The
// returned key identifies the session for idempotent re-imports.
func ToWorkoutLog(profileID uuid.UUID, s Session, r Resolver) (models.WorkoutLog, string) {
	l := models.WorkoutLog{
		ID:                uuid.New(),
		ProfileID:         profileID,
		Date:              s.Date,
		WorkoutName:       s.Name,
		Exercises:         []models.ExerciseLog{},
		PerceivedExertion: defaultEnergy,
		EnergyLevel:       defaultEnergy,
		Notes:             fmt.Sprintf("Imported from Alpha Progression (%s)", s.Duration),
	}

	var rirSum float64
	var working int
	for _, ex := range s.Exercises {
		el := models.ExerciseLog{ExerciseName: resolveName(ex, r)}
		for _, set := range ex.Sets {
			if set.IsWarmup {
				continue
			}
			el.Sets = append(el.Sets, models.SetLog{Weight: set.WeightKg, Reps: set.Reps, Completed: true})
			rirSum += set.RIR
			working++
		}
		if len(el.Sets) > 0 {
			l.Exercises = append(l.Exercises, el)
		}
	}
	if working > 0 {
		rpe := math.Round(10 - rirSum/float64(working))
		l.PerceivedExertion = int(max(1, min(10, rpe)))
	}
	return l, sessionKey(s)
}

// resolveName prefers the catalog spelling. "Bench Press" with equipment
// "Barbell" resolves to "Barbell Bench Press" when only that form exists.
func resolveName(ex Exercise, r Resolver) string {
	if r == nil {
		return ex.Name
	}
	if def, ok := r.Lookup(ex.Name); ok {
		return def.Name
	}
	if ex.Equipment != "" {
		if def, ok := r.Lookup(ex.Equipment + " " + ex.Name); ok {
			return def.Name
		}
	}
	return ex.Name
}

func sessionKey(s Session) string {
	return "alpha:" + s.Date.Format(time.RFC3339) + ":" + s.Name
}
