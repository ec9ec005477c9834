package domain

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Factory defaults, one block per discipline.
const (
	DefaultResistanceSets = 3
	DefaultResistanceReps = "10"
	DefaultResistanceRest = 90

	DefaultCardioMinutes = 30
	DefaultCardioZone    = 2

	DefaultPlyoSets     = 3
	DefaultPlyoContacts = 10
	DefaultPlyoRest     = 120

	DefaultCorrectiveHold = 30
)

// NewInstanceID returns a fresh, time-ordered instance id.
func NewInstanceID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

func NewResistance() *ExerciseInstance {
	return &ExerciseInstance{
		ID: NewInstanceID(),
		Prescription: &Resistance{
			TrainingSystem: SystemStraightSet,
			Sets:           DefaultResistanceSets,
			Reps:           DefaultResistanceReps,
			RestSeconds:    DefaultResistanceRest,
		},
	}
}

func NewCardio() *ExerciseInstance {
	zone := DefaultCardioZone
	return &ExerciseInstance{
		ID: NewInstanceID(),
		Prescription: &Cardio{
			Method:              CardioLISS,
			DurationMinutes:     DefaultCardioMinutes,
			TargetHeartRateZone: &zone,
		},
	}
}

func NewPlyometric() *ExerciseInstance {
	return &ExerciseInstance{
		ID: NewInstanceID(),
		Prescription: &Plyometric{
			Intensity:   PlyoModerate,
			Sets:        DefaultPlyoSets,
			Contacts:    DefaultPlyoContacts,
			RestSeconds: DefaultPlyoRest,
			LandingType: LandingStepDown,
		},
	}
}

func NewCorrective() *ExerciseInstance {
	hold := DefaultCorrectiveHold
	return &ExerciseInstance{
		ID: NewInstanceID(),
		Prescription: &Corrective{
			CorrectiveType: CorrectiveFoamRolling,
			NASMPhase:      CorrectiveFoamRolling.DefaultPhase(),
			HoldSeconds:    &hold,
		},
	}
}

// NewDefault builds the default instance for a discipline given at runtime.
func NewDefault(d Discipline) (*ExerciseInstance, error) {
	switch d {
	case DisciplineResistance:
		return NewResistance(), nil
	case DisciplineCardio:
		return NewCardio(), nil
	case DisciplinePlyometric:
		return NewPlyometric(), nil
	case DisciplineCorrective:
		return NewCorrective(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDiscipline, d)
}
