package program

// slot draws count exercises from one catalog group.
type slot struct {
	group string
	count int
}

// plan is how a workout type is filled: either cardio or a list of slots.
type plan struct {
	cardio bool
	slots  []slot
}

var cardioPlan = plan{cardio: true}

// plans maps every workout type used by the template table.
var plans = map[string]plan{
	"full-body": {slots: []slot{{"chest", 1}, {"back", 1}, {"legs", 2}}},
	"upper":     {slots: []slot{{"chest", 2}, {"back", 2}}},
	"lower":     {slots: []slot{{"legs", 4}}},
	"push":      {slots: []slot{{"chest", 3}}},
	"pull":      {slots: []slot{{"back", 3}}},
	"legs":      {slots: []slot{{"legs", 5}}},

	"cardio":      cardioPlan,
	"cardio/HIIT": cardioPlan,
	"HIIT":        cardioPlan,
	"long cardio": cardioPlan,

	"push/pull":  {slots: []slot{{"chest", 2}, {"back", 2}}},
	"legs/core":  {slots: []slot{{"legs", 3}, {"core", 2}}},
	"functional": {slots: []slot{{"legs", 1}, {"back", 1}, {"core", 2}}},

	"squat focus":          {slots: []slot{{"legs", 3}, {"core", 1}}},
	"bench focus":          {slots: []slot{{"chest", 3}, {"arms", 1}}},
	"deadlift focus":       {slots: []slot{{"legs", 2}, {"back", 2}}},
	"overhead press focus": {slots: []slot{{"shoulders", 2}, {"arms", 1}}},
	"accessory":            {slots: []slot{{"arms", 2}, {"shoulders", 1}, {"core", 1}}},
}

// injuryExercises lists, per injured body part, the exercises to swap out.
// Matching is by exact exercise name.
var injuryExercises = map[string][]string{
	"shoulder": {"Bench Press", "Overhead Press", "Incline Bench Press"},
	"knee":     {"Squats", "Lunges", "Leg Extensions"},
	"back":     {"Deadlifts", "Bent Over Rows", "Good Mornings"},
}

const (
	cardioExercise = "Treadmill Running"
	cardioNote     = "Maintain a moderate pace that allows you to speak in short sentences"
)
