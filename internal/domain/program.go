package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrProgramNotFound = errors.New("training program not found")
)

// Training days are numbered within a week.
const (
	MinDay = 1
	MaxDay = 7
)

func ValidDay(day int) bool {
	return day >= MinDay && day <= MaxDay
}

type ProgramGoal string

const (
	GoalHypertrophy         ProgramGoal = "hypertrophy"
	GoalStrength            ProgramGoal = "strength"
	GoalPower               ProgramGoal = "power"
	GoalEndurance           ProgramGoal = "endurance"
	GoalFatLoss             ProgramGoal = "fat_loss"
	GoalRecomposition       ProgramGoal = "recomposition"
	GoalAthleticPerformance ProgramGoal = "athletic_performance"
	GoalRehabilitation      ProgramGoal = "rehabilitation"
	GoalGeneralFitness      ProgramGoal = "general_fitness"
	GoalSportSpecific       ProgramGoal = "sport_specific"
)

type TrainingPhase string

const (
	PhaseAnatomicalAdaptation TrainingPhase = "anatomical_adaptation"
	PhaseHypertrophy          TrainingPhase = "hypertrophy"
	PhaseStrength             TrainingPhase = "strength"
	PhasePower                TrainingPhase = "power"
	PhasePeaking              TrainingPhase = "peaking"
	PhaseDeload               TrainingPhase = "deload"
	PhaseMaintenance          TrainingPhase = "maintenance"
)

// ProgramDocument maps a day number to its ordered entries. It serializes as {"1": [...], ...}.
type ProgramDocument map[int][]Entry

// Clone deep-copies every entry.
func (d ProgramDocument) Clone() ProgramDocument {
	out := make(ProgramDocument, len(d))
	for day, entries := range d {
		cp := make([]Entry, len(entries))
		for i, e := range entries {
			cp[i] = e.Clone()
		}
		out[day] = cp
	}
	return out
}

// Program is a coach-authored weekly training program for one client.
type Program struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	CoachID       string          `json:"coach_id"`
	ClientID      string          `json:"client_id"`
	Goal          ProgramGoal     `json:"goal,omitempty"`
	Level         DifficultyLevel `json:"level,omitempty"`
	Phase         TrainingPhase   `json:"phase,omitempty"`
	DaysPerWeek   int             `json:"days_per_week,omitempty"`
	DurationWeeks int             `json:"duration_weeks,omitempty"`
	Days          ProgramDocument `json:"days"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (p *Program) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: program name is required", ErrValidation)
	}
	if p.DaysPerWeek < 0 || p.DaysPerWeek > MaxDay {
		return fmt.Errorf("%w: days_per_week must be between 1 and 7", ErrValidation)
	}
	for day := range p.Days {
		if !ValidDay(day) {
			return ErrInvalidDay
		}
	}
	return nil
}

// ProgramRepository persists programs together with their day documents.
type ProgramRepository interface {
	Create(ctx context.Context, program *Program) error
	GetByID(ctx context.Context, id string) (*Program, error)
	Update(ctx context.Context, program *Program) error
	ListByCoach(ctx context.Context, coachID string) ([]*Program, error)
	List(ctx context.Context) ([]*Program, error)
	Delete(ctx context.Context, id string) error
}
