package domain

// MuscleGroup is a normalized muscle target.
type MuscleGroup string

const (
	MuscleChest      MuscleGroup = "chest"
	MuscleBack       MuscleGroup = "back"
	MuscleShoulders  MuscleGroup = "shoulders"
	MuscleBiceps     MuscleGroup = "biceps"
	MuscleTriceps    MuscleGroup = "triceps"
	MuscleForearms   MuscleGroup = "forearms"
	MuscleQuadriceps MuscleGroup = "quadriceps"
	MuscleHamstrings MuscleGroup = "hamstrings"
	MuscleGlutes     MuscleGroup = "glutes"
	MuscleCalves     MuscleGroup = "calves"
	MuscleAbs        MuscleGroup = "abs"
	MuscleObliques   MuscleGroup = "obliques"
	MuscleLowerBack  MuscleGroup = "lower_back"
	MuscleTraps      MuscleGroup = "traps"
	MuscleHipFlexors MuscleGroup = "hip_flexors"
	MuscleAdductors  MuscleGroup = "adductors"
	MuscleAbductors  MuscleGroup = "abductors"
	MuscleFullBody   MuscleGroup = "full_body"

	// MuscleUnclassified is the analytics bucket for exercises no muscle could be resolved for.
	MuscleUnclassified MuscleGroup = "unclassified"
)

// MuscleGroups lists the catalog muscle groups (the unclassified bucket is not one of them).
var MuscleGroups = []MuscleGroup{
	MuscleChest, MuscleBack, MuscleShoulders, MuscleBiceps, MuscleTriceps, MuscleForearms,
	MuscleQuadriceps, MuscleHamstrings, MuscleGlutes, MuscleCalves, MuscleAbs, MuscleObliques,
	MuscleLowerBack, MuscleTraps, MuscleHipFlexors, MuscleAdductors, MuscleAbductors, MuscleFullBody,
}

func (m MuscleGroup) Valid() bool {
	for _, g := range MuscleGroups {
		if g == m {
			return true
		}
	}
	return false
}

// EquipmentType is a normalized equipment requirement.
type EquipmentType string

const (
	EquipmentBarbell         EquipmentType = "barbell"
	EquipmentDumbbell        EquipmentType = "dumbbell"
	EquipmentKettlebell      EquipmentType = "kettlebell"
	EquipmentCable           EquipmentType = "cable"
	EquipmentMachine         EquipmentType = "machine"
	EquipmentSmithMachine    EquipmentType = "smith_machine"
	EquipmentBodyweight      EquipmentType = "bodyweight"
	EquipmentResistanceBands EquipmentType = "resistance_bands"
	EquipmentTRX             EquipmentType = "trx"
	EquipmentMedicineBall    EquipmentType = "medicine_ball"
	EquipmentStabilityBall   EquipmentType = "stability_ball"
	EquipmentFoamRoller      EquipmentType = "foam_roller"
	EquipmentBox             EquipmentType = "box"
	EquipmentBench           EquipmentType = "bench"
	EquipmentPullUpBar       EquipmentType = "pull_up_bar"
	EquipmentDipStation      EquipmentType = "dip_station"
	EquipmentTreadmill       EquipmentType = "treadmill"
	EquipmentBike            EquipmentType = "bike"
	EquipmentRower           EquipmentType = "rower"
	EquipmentElliptical      EquipmentType = "elliptical"
	EquipmentStairmaster     EquipmentType = "stairmaster"
	EquipmentBattleRopes     EquipmentType = "battle_ropes"
	EquipmentSled            EquipmentType = "sled"
	EquipmentLandmine        EquipmentType = "landmine"
	EquipmentNone            EquipmentType = "none"
)

// DifficultyLevel grades how demanding an exercise is to perform.
type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "beginner"
	DifficultyIntermediate DifficultyLevel = "intermediate"
	DifficultyAdvanced     DifficultyLevel = "advanced"
	DifficultyElite        DifficultyLevel = "elite"
)

// ExerciseRecord is the normalized, read-only catalog entry used for filtering and muscle resolution.
type ExerciseRecord struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	AltName          string          `json:"alt_name,omitempty"`
	Description      string          `json:"description,omitempty"`
	PrimaryMuscle    MuscleGroup     `json:"primary_muscle"`
	SecondaryMuscles []MuscleGroup   `json:"secondary_muscles"`
	Equipment        EquipmentType   `json:"equipment"`
	Category         Discipline      `json:"category"`
	Difficulty       DifficultyLevel `json:"difficulty"`
	IsCompound       bool            `json:"is_compound"`
	IsUnilateral     bool            `json:"is_unilateral"`
}

// TargetsMuscle reports whether m is the primary or a secondary muscle of the record.
func (r ExerciseRecord) TargetsMuscle(m MuscleGroup) bool {
	if r.PrimaryMuscle == m {
		return true
	}
	for _, s := range r.SecondaryMuscles {
		if s == m {
			return true
		}
	}
	return false
}

// MuscleResolver maps an exercise name to its primary muscle group.
type MuscleResolver interface {
	ResolveMuscle(exerciseName string) (MuscleGroup, bool)
}
