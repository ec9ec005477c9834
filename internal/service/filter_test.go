package service

import (
	"testing"

	"github.com/mansoorceksport/flexpro/internal/domain"
	"github.com/stretchr/testify/assert"
)

func recordNames(records []domain.ExerciseRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func TestFilter(t *testing.T) {
	records := BuildCatalog(sampleExercises()).Records()

	tests := []struct {
		name string
		spec domain.FilterSpec
		want []string
	}{
		{
			name: "empty filter matches everything",
			spec: domain.FilterSpec{},
			want: recordNames(records),
		},
		{
			name: "muscles are alternatives",
			spec: domain.FilterSpec{Muscles: []domain.MuscleGroup{domain.MuscleHamstrings, domain.MuscleTriceps}},
			want: []string{"Barbell Bench Press", "Romanian Deadlift", "Cable Pushdown"},
		},
		{
			name: "secondary muscles count",
			spec: domain.FilterSpec{Muscles: []domain.MuscleGroup{domain.MuscleGlutes}},
			want: []string{"Back Squat"},
		},
		{
			name: "criteria combine",
			spec: domain.FilterSpec{
				Muscles:   []domain.MuscleGroup{domain.MuscleBack},
				Equipment: []domain.EquipmentType{domain.EquipmentBarbell},
			},
			want: []string{"Barbell Row"},
		},
		{
			name: "query matches name alt name and description",
			spec: domain.FilterSpec{Query: "BENCH"},
			want: []string{"Barbell Bench Press"},
		},
		{
			name: "query against description",
			spec: domain.FilterSpec{Query: "core drill"},
			want: []string{"Dead Bug"},
		},
		{
			name: "difficulty alternatives",
			spec: domain.FilterSpec{Difficulty: []domain.DifficultyLevel{domain.DifficultyAdvanced}},
			want: []string{"Back Squat", "Pull Up"},
		},
		{
			name: "compound and unilateral",
			spec: domain.FilterSpec{CompoundOnly: true, UnilateralOnly: true},
			want: []string{"Bulgarian Split Squat"},
		},
		{
			name: "category",
			spec: domain.FilterSpec{Category: domain.DisciplinePlyometric},
			want: []string{"Box Jump"},
		},
		{
			name: "nothing matches",
			spec: domain.FilterSpec{Query: "zzz"},
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recordNames(Filter(records, tt.spec)))
		})
	}
}

// Adding a criterion never grows the result; adding an alternative value never shrinks it.
func TestFilter_Monotonicity(t *testing.T) {
	records := BuildCatalog(sampleExercises()).Records()

	base := domain.FilterSpec{Muscles: []domain.MuscleGroup{domain.MuscleBack}}
	narrowed := base
	narrowed.CompoundOnly = true
	widened := base
	widened.Muscles = append([]domain.MuscleGroup{domain.MuscleChest}, base.Muscles...)

	baseResult := Filter(records, base)
	assert.Subset(t, recordNames(baseResult), recordNames(Filter(records, narrowed)))
	assert.Subset(t, recordNames(Filter(records, widened)), recordNames(baseResult))
}

func TestFilter_IsPure(t *testing.T) {
	records := BuildCatalog(sampleExercises()).Records()
	spec := domain.FilterSpec{Equipment: []domain.EquipmentType{domain.EquipmentDumbbell}}
	assert.Equal(t, Filter(records, spec), Filter(records, spec))
}

func TestFilterSpec_KeyIsCanonical(t *testing.T) {
	a := domain.FilterSpec{Query: " Squat", Muscles: []domain.MuscleGroup{domain.MuscleBack, domain.MuscleChest}}
	b := domain.FilterSpec{Query: "squat ", Muscles: []domain.MuscleGroup{domain.MuscleChest, domain.MuscleBack}}
	assert.Equal(t, a.Key(), b.Key())

	b.CompoundOnly = true
	assert.NotEqual(t, a.Key(), b.Key())
}
