package models

// FatigueMetrics is the recovery panel computed from a log history.
// It is recomputed on every request and never stored.
type FatigueMetrics struct {
	CurrentFatigue       float64        `json:"current_fatigue"`     // 0-10
	NervousSystemLoad    float64        `json:"nervous_system_load"` // 0-10
	MuscleGroupFatigue   map[string]int `json:"muscle_group_fatigue"`
	RecoveryStatus       map[string]int `json:"recovery_status"` // percent
	OvertrainingRisk     int            `json:"overtraining_risk"`
	RecommendedRestDays  int            `json:"recommended_rest_days"`
	DaysSinceLastWorkout int            `json:"days_since_last_workout"`
	Warnings             []string       `json:"warnings"`
	Recommendations      []string       `json:"recommendations"`
}

// Assessment is the advisor's coarse verdict on recent feedback.
type Assessment struct {
	IsOvertraining  bool     `json:"is_overtraining"`
	Recommendations []string `json:"recommendations"`
}
