package fatigue

import (
	"strings"

	"github.com/claude/repcoach/internal/models"
)

// Base recovery hours by muscle size tier.
var baseRecoveryHours = map[string]float64{
	"quadriceps":       72,
	"hamstrings":       72,
	"glutes":           72,
	"latissimus dorsi": 72,
	"pectoralis major": 72,
	"erector spinae":   72,

	"trapezius": 48,
	"deltoids":  48,
	"rhomboids": 48,
	"biceps":    48,
	"triceps":   48,
	"calves":    48,

	"forearms":   24,
	"abdominals": 24,
	"obliques":   24,
}

const defaultRecoveryHours = 48

// Base optimal sets per week by muscle.
var baseWeeklyVolume = map[string]float64{
	"quadriceps":       16,
	"hamstrings":       16,
	"glutes":           16,
	"latissimus dorsi": 16,
	"pectoralis major": 16,
	"erector spinae":   12,

	"trapezius": 12,
	"deltoids":  16,
	"rhomboids": 12,
	"biceps":    14,
	"triceps":   14,
	"calves":    16,

	"forearms":   12,
	"abdominals": 16,
	"obliques":   12,
}

const defaultWeeklyVolume = 14

// typicalRecoveryHours is slower for beginners and faster for advanced lifters.
func typicalRecoveryHours(muscle string, level models.ExperienceLevel) float64 {
	base, ok := baseRecoveryHours[strings.ToLower(muscle)]
	if !ok {
		base = defaultRecoveryHours
	}
	switch level {
	case models.Beginner:
		return base * 1.2
	case models.Advanced:
		return base * 0.8
	default:
		return base
	}
}

func optimalWeeklyVolume(muscle string, level models.ExperienceLevel) float64 {
	base, ok := baseWeeklyVolume[strings.ToLower(muscle)]
	if !ok {
		base = defaultWeeklyVolume
	}
	switch level {
	case models.Beginner:
		return base * 0.7
	case models.Advanced:
		return base * 1.3
	default:
		return base
	}
}

func riskMultiplier(level models.ExperienceLevel) float64 {
	switch level {
	case models.Beginner:
		return 1.2
	case models.Advanced:
		return 0.9
	default:
		return 1.0
	}
}
