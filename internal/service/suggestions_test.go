package service

import (
	"testing"

	"github.com/mansoorceksport/flexpro/internal/domain"
	"github.com/stretchr/testify/assert"
)

func namedEntries(names ...string) []domain.Entry {
	out := make([]domain.Entry, len(names))
	for i, n := range names {
		inst := domain.NewResistance()
		inst.ExerciseName = n
		out[i] = domain.CurrentEntry(inst)
	}
	return out
}

func TestSuggest(t *testing.T) {
	catalog := BuildCatalog(sampleExercises())

	tests := []struct {
		name    string
		entries []domain.Entry
		limit   int
		want    []string
	}{
		{
			name:  "empty day gets compound lifts",
			limit: 3,
			want:  []string{"Barbell Bench Press", "Barbell Row", "Back Squat"},
		},
		{
			name:    "antagonist and core after upper body",
			entries: namedEntries("Barbell Bench Press"),
			want:    []string{"Barbell Row", "Pull Up", "Plank", "Dead Bug"},
		},
		{
			name:    "balanced upper body only needs core",
			entries: namedEntries("Barbell Bench Press", "Barbell Row"),
			want:    []string{"Plank", "Dead Bug"},
		},
		{
			name:    "lower body antagonist",
			entries: namedEntries("Back Squat"),
			want:    []string{"Romanian Deadlift"},
		},
		{
			name:    "trained muscles are not suggested again",
			entries: namedEntries("Barbell Bench Press", "Plank"),
			want:    []string{"Barbell Row", "Pull Up"},
		},
		{
			name:    "limit applies",
			entries: namedEntries("Barbell Bench Press"),
			limit:   1,
			want:    []string{"Barbell Row"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recordNames(Suggest(tt.entries, catalog, tt.limit)))
		})
	}
}

func TestSuggest_UsesTargetMuscleForUnknownExercises(t *testing.T) {
	inst := domain.NewResistance()
	inst.ExerciseName = "Custom Curl Variation"
	inst.TargetMuscle = domain.MuscleBiceps

	got := Suggest([]domain.Entry{domain.CurrentEntry(inst)}, BuildCatalog(sampleExercises()), 0)
	assert.Equal(t, []string{"Cable Pushdown", "Plank", "Dead Bug"}, recordNames(got))
}
