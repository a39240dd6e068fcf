// Package advisor turns coarse post-workout feedback into overtraining advice.
package advisor

import (
	"fmt"

	"github.com/claude/repcoach/internal/models"
)

const overtrainingAdvice = "Your recent workouts have been very intense while your energy levels are low. Consider taking an extra rest day this week."

var levelAdvice = map[models.ExperienceLevel]string{
	models.Beginner:     "As a beginner, focus on proper form rather than lifting heavy weights. This will build a foundation for future progress.",
	models.Intermediate: "Make sure to include deload weeks every 4-6 weeks to allow your body to recover fully.",
	models.Advanced:     "Consider tracking your heart rate variability (HRV) to better monitor recovery and prevent overtraining.",
}

// Check applies every advice rule to the feedback. All matching rules fire.
func Check(profile *models.UserProfile, feedback []models.WorkoutFeedback) models.Assessment {
	a := models.Assessment{Recommendations: []string{}}

	if len(feedback) > 0 {
		var exertion, energy float64
		for _, f := range feedback {
			exertion += float64(f.PerceivedExertion)
			energy += float64(f.EnergyLevel)
		}
		n := float64(len(feedback))
		if exertion/n > 8 && energy/n < 4 {
			a.IsOvertraining = true
			a.Recommendations = append(a.Recommendations, overtrainingAdvice)
		}

		for _, part := range recurringPain(feedback) {
			a.Recommendations = append(a.Recommendations, fmt.Sprintf(
				"You've reported pain in your %s multiple times. Consider seeing a healthcare professional and avoiding exercises that target this area.", part))
		}
	}

	if line, ok := levelAdvice[profile.ExperienceLevel]; ok {
		a.Recommendations = append(a.Recommendations, line)
	}
	return a
}

// recurringPain returns body parts named in at least two feedback entries,
// in first-appearance order. Repeats within one entry count once.
func recurringPain(feedback []models.WorkoutFeedback) []string {
	counts := map[string]int{}
	var order []string
	for _, f := range feedback {
		seen := map[string]bool{}
		for _, p := range f.PainPoints {
			if seen[p.BodyPart] {
				continue
			}
			seen[p.BodyPart] = true
			if counts[p.BodyPart] == 0 {
				order = append(order, p.BodyPart)
			}
			counts[p.BodyPart]++
		}
	}

	var out []string
	for _, part := range order {
		if counts[part] >= 2 {
			out = append(out, part)
		}
	}
	return out
}
