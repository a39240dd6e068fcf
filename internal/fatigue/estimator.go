// Package fatigue estimates systemic, nervous-system and per-muscle fatigue
// from a workout log history.
package fatigue

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/claude/repcoach/internal/models"
)

const (
	day = 24 * time.Hour

	recentWindowDays = 7
	cnsWindowDays    = 3
	defaultRestDays  = 7
	deloadStreak     = 8
)

// Resolver maps a logged exercise name to its catalog definition.
// *catalog.Catalog satisfies it.
type Resolver interface {
	Lookup(name string) (models.ExerciseDefinition, bool)
}

// Estimator computes FatigueMetrics. It holds no per-call state and is
// safe for concurrent use.
type Estimator struct {
	exercises Resolver
	now       func() time.Time
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Estimator) { e.now = now }
}

// NewEstimator returns an Estimator resolving exercises through r.
func NewEstimator(r Resolver, opts ...Option) *Estimator {
	e := &Estimator{exercises: r, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Estimate computes fatigue metrics for logs. lastRestDay may be nil.
// The input slice is not modified.
func (e *Estimator) Estimate(logs []models.WorkoutLog, level models.ExperienceLevel, lastRestDay *time.Time) *models.FatigueMetrics {
	m := &models.FatigueMetrics{
		MuscleGroupFatigue: map[string]int{},
		RecoveryStatus:     map[string]int{},
		Warnings:           []string{},
		Recommendations:    []string{},
	}
	if len(logs) == 0 {
		m.Recommendations = append(m.Recommendations, "Start logging your workouts to track fatigue and recovery.")
		return m
	}

	now := e.now()
	sorted := slices.Clone(logs)
	slices.SortStableFunc(sorted, func(a, b models.WorkoutLog) int {
		return b.Date.Compare(a.Date)
	})

	m.DaysSinceLastWorkout = daysBetween(sorted[0].Date, now)
	daysSinceRest := defaultRestDays
	if lastRestDay != nil {
		daysSinceRest = daysBetween(*lastRestDay, now)
	}

	var (
		fatigue, cns float64
		lastWorked   = map[string]time.Time{}
		order        []string // muscles in first-recorded order
		volume       = map[string]float64{}
	)

	for _, log := range sorted {
		daysAgo := daysBetween(log.Date, now)
		if daysAgo > recentWindowDays {
			continue
		}
		fatigue += float64(log.PerceivedExertion) * float64(8-daysAgo) / 8

		for _, ex := range log.Exercises {
			def, ok := e.exercises.Lookup(ex.ExerciseName)
			if !ok {
				continue
			}
			sets := float64(len(ex.Sets))

			for _, muscle := range def.PrimaryMuscles {
				prev, seen := lastWorked[muscle]
				if !seen {
					order = append(order, muscle)
				}
				if !seen || log.Date.After(prev) {
					lastWorked[muscle] = log.Date
				}
				volume[muscle] += sets
			}
			for _, muscle := range def.SecondaryMuscles {
				volume[muscle] += sets * 0.5
			}

			if daysAgo <= cnsWindowDays {
				cns += float64(def.FatigueFactor) * float64(4-daysAgo) / 4 * (sets / 3)
			}
		}
	}

	m.CurrentFatigue = clamp(fatigue, 0, 10)
	m.NervousSystemLoad = clamp(cns, 0, 10)

	for _, muscle := range order {
		hours := max(0, now.Sub(lastWorked[muscle]).Hours())
		recovery := clamp(hours/typicalRecoveryHours(muscle, level)*100, 0, 100)
		m.RecoveryStatus[muscle] = int(math.Round(recovery))

		volumeFactor := volume[muscle] / optimalWeeklyVolume(muscle, level)
		score := (10 - recovery/10) * min(1.5, volumeFactor)
		m.MuscleGroupFatigue[muscle] = int(math.Round(clamp(score, 0, 10)))
	}

	risk := (m.CurrentFatigue*0.4 + m.NervousSystemLoad*0.4 + float64(min(7, daysSinceRest))*0.2) * riskMultiplier(level)
	m.OvertrainingRisk = int(math.Round(clamp(risk, 0, 10)))

	switch {
	case m.OvertrainingRisk >= 8:
		m.Warnings = append(m.Warnings, "HIGH RISK OF OVERTRAINING: Immediate rest is recommended.")
	case m.OvertrainingRisk >= 6:
		m.Warnings = append(m.Warnings, "Moderate risk of overtraining. Consider reducing workout intensity.")
	}
	if m.NervousSystemLoad >= 8 {
		m.Warnings = append(m.Warnings, "Central nervous system fatigue is high. Avoid high-intensity workouts.")
	}
	for _, muscle := range order {
		if m.MuscleGroupFatigue[muscle] >= 8 {
			m.Warnings = append(m.Warnings, fmt.Sprintf("%s is overworked and needs recovery.", capitalize(muscle)))
		}
	}

	switch {
	case m.OvertrainingRisk >= 8:
		m.RecommendedRestDays = 3
	case m.OvertrainingRisk >= 6:
		m.RecommendedRestDays = 2
	case m.OvertrainingRisk >= 4 || m.NervousSystemLoad >= 7:
		m.RecommendedRestDays = 1
	}
	if m.RecommendedRestDays > 0 {
		m.Recommendations = append(m.Recommendations,
			fmt.Sprintf("Take %d day(s) of rest or active recovery (light walking, stretching).", m.RecommendedRestDays))
	}

	if needsDeload(sorted) {
		m.Recommendations = append(m.Recommendations, "Consider a deload week with reduced volume and intensity.")
	}

	var recovered []string
	for _, muscle := range order {
		if m.RecoveryStatus[muscle] >= 90 {
			recovered = append(recovered, capitalize(muscle))
		}
	}
	if len(recovered) > 0 {
		m.Recommendations = append(m.Recommendations, "Well-recovered muscle groups: "+strings.Join(recovered, ", "))
	}

	return m
}

// needsDeload reports whether the most recent streak of logs were all hard.
// sorted must be newest first.
func needsDeload(sorted []models.WorkoutLog) bool {
	if len(sorted) < deloadStreak {
		return false
	}
	for _, log := range sorted[:deloadStreak] {
		if log.PerceivedExertion < 8 {
			return false
		}
	}
	return true
}

// daysBetween returns whole days elapsed from t to now. Future dates count as 0.
func daysBetween(t, now time.Time) int {
	d := now.Sub(t)
	if d < 0 {
		return 0
	}
	return int(d / day)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
