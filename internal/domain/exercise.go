package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrExerciseNotFound  = errors.New("exercise not found")
	ErrDuplicateExercise = errors.New("exercise name already exists")
)

// Exercise is a raw catalog document as stored; muscle and equipment are free-form text
// and get normalized into an ExerciseRecord before use.
type Exercise struct {
	ID               string    `json:"id" bson:"_id,omitempty"`
	Name             string    `json:"name" bson:"name"` // Unique Index
	NameAlt          string    `json:"name_alt,omitempty" bson:"name_alt,omitempty"`
	Description      string    `json:"description,omitempty" bson:"description,omitempty"`
	MuscleGroup      string    `json:"muscle_group" bson:"muscle_group"` // e.g., "Legs (Hamstrings)", "Chest/Triceps"
	SecondaryMuscles []string  `json:"secondary_muscles,omitempty" bson:"secondary_muscles,omitempty"`
	Equipment        string    `json:"equipment" bson:"equipment"` // e.g., "Barbell", "Bodyweight/Dumbbell"
	Category         string    `json:"category,omitempty" bson:"category,omitempty"`
	Difficulty       string    `json:"difficulty,omitempty" bson:"difficulty,omitempty"`
	IsCompound       bool      `json:"is_compound" bson:"is_compound"`
	IsUnilateral     bool      `json:"is_unilateral" bson:"is_unilateral"`
	VideoURL         string    `json:"video_url,omitempty" bson:"video_url,omitempty"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
}

type ExerciseRepository interface {
	Create(ctx context.Context, exercise *Exercise) error
	GetByID(ctx context.Context, id string) (*Exercise, error)
	List(ctx context.Context, filter map[string]interface{}) ([]*Exercise, error)
	Update(ctx context.Context, exercise *Exercise) error
	Delete(ctx context.Context, id string) error
}
