package program

import "github.com/claude/repcoach/internal/models"

const minAdaptedSets = 2

// Adapt returns a copy of p adjusted to the mean perceived exertion of
// feedback: above 8 it eases off, below 5 it pushes harder. p is never
// modified.
func Adapt(p *models.WorkoutProgram, feedback []models.WorkoutFeedback) *models.WorkoutProgram {
	out := p.Clone()
	if out == nil || len(feedback) == 0 {
		return out
	}

	var sum float64
	for _, f := range feedback {
		sum += float64(f.PerceivedExertion)
	}
	mean := sum / float64(len(feedback))

	var step func(wo *models.Workout)
	switch {
	case mean > 8:
		step = func(wo *models.Workout) {
			wo.Intensity = wo.Intensity.Lower()
			for i := range wo.Exercises {
				if wo.Exercises[i].Sets > minAdaptedSets {
					wo.Exercises[i].Sets--
				}
			}
		}
	case mean < 5:
		step = func(wo *models.Workout) {
			wo.Intensity = wo.Intensity.Higher()
			for i := range wo.Exercises {
				wo.Exercises[i].Sets++
			}
		}
	default:
		return out
	}

	for wi := range out.Weeks {
		for di := range out.Weeks[wi].Days {
			day := &out.Weeks[wi].Days[di]
			for k := range day.Workouts {
				step(&day.Workouts[k])
			}
		}
	}
	return out
}
