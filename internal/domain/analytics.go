package domain

import "time"

// WorkoutAnalytics summarizes one training day.
type WorkoutAnalytics struct {
	TotalExercises           int             `json:"total_exercises"`
	TotalSets                int             `json:"total_sets"`
	TotalVolume              *float64        `json:"total_volume"` // kg; nil when no exercise has a computable load
	UnweightedExercises      int             `json:"unweighted_exercises"`
	EstimatedDurationMinutes int             `json:"estimated_duration_minutes"`
	IntensityScore           *float64        `json:"intensity_score"` // 0-10; nil when no discipline carries an intensity signal
	IntensityLabel           string          `json:"intensity_label,omitempty"`
	MuscleBalance            []MuscleBalance `json:"muscle_balance"`
}

// MuscleBalance is the share of a day's set count attributed to one muscle group.
type MuscleBalance struct {
	MuscleGroup   MuscleGroup `json:"muscle_group"`
	ExerciseCount int         `json:"exercise_count"`
	VolumeLoad    int         `json:"volume_load"`
	Percentage    float64     `json:"percentage"`
}

// DayReport is the exported session summary of one training day.
type DayReport struct {
	ProgramID   string           `json:"program_id"`
	ProgramName string           `json:"program_name"`
	ClientID    string           `json:"client_id"`
	Day         int              `json:"day"`
	Exercises   []NormalizedView `json:"exercises"`
	Analytics   WorkoutAnalytics `json:"analytics"`
	GeneratedAt time.Time        `json:"generated_at"`
}
