package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPatch_Current(t *testing.T) {
	inst := NewResistance()
	inst.ExerciseName = "Squat"
	inst.OrderIndex = 3
	entry := CurrentEntry(inst)

	t.Run("merges fields and keeps the rest", func(t *testing.T) {
		patched, err := entry.ApplyPatch(Patch{"sets": 5, "reps": "5", "weight": 100.0})
		require.NoError(t, err)
		r := patched.Instance.Prescription.(*Resistance)
		assert.Equal(t, 5, r.Sets)
		assert.Equal(t, "5", r.Reps)
		assert.Equal(t, 100.0, *r.Weight)
		assert.Equal(t, 90, r.RestSeconds)
		assert.Equal(t, "Squat", patched.Instance.ExerciseName)
		assert.Equal(t, 3, patched.Instance.OrderIndex)
		assert.Equal(t, inst.ID, patched.Instance.ID)
	})

	t.Run("leaves receiver untouched", func(t *testing.T) {
		_, err := entry.ApplyPatch(Patch{"sets": 6})
		require.NoError(t, err)
		assert.Equal(t, 3, inst.Prescription.(*Resistance).Sets)
	})

	t.Run("null clears optional field", func(t *testing.T) {
		withRPE, err := entry.ApplyPatch(Patch{"rpe": 8.5})
		require.NoError(t, err)
		cleared, err := withRPE.ApplyPatch(Patch{"rpe": nil})
		require.NoError(t, err)
		assert.Nil(t, cleared.Instance.Prescription.(*Resistance).RPE)
	})

	tests := []struct {
		name    string
		patch   Patch
		wantErr error
	}{
		{"type change", Patch{"type": "cardio"}, ErrTypeChange},
		{"type cleared", Patch{"type": nil}, ErrTypeChange},
		{"id change", Patch{"id": "other"}, ErrIDChange},
		{"order index", Patch{"order_index": 0}, ErrOrderIndexPatch},
		{"field of another discipline", Patch{"contacts": 10}, ErrInvalidPrescription},
		{"out of range", Patch{"sets": 25}, ErrInvalidPrescription},
		{"required field cleared", Patch{"reps": nil}, ErrInvalidPrescription},
		{"wrong json type", Patch{"sets": "five"}, ErrInvalidPrescription},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := entry.ApplyPatch(tt.patch)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsInvariantViolation(err))
		})
	}

	t.Run("same id is accepted", func(t *testing.T) {
		_, err := entry.ApplyPatch(Patch{"id": inst.ID, "notes": "pause at bottom"})
		assert.NoError(t, err)
	})

	t.Run("type key is rejected even when unchanged", func(t *testing.T) {
		_, err := entry.ApplyPatch(Patch{"type": "resistance", "sets": 5})
		assert.ErrorIs(t, err, ErrTypeChange)
		assert.Equal(t, DisciplineResistance, entry.Instance.Type())
	})
}

func TestApplyPatch_Legacy(t *testing.T) {
	e, err := ParseEntry([]byte(`{"name":"Curl","sets":"3","type":"dropset"}`))
	require.NoError(t, err)

	patched, err := e.ApplyPatch(Patch{"sets": "4", "note": "slow"})
	require.NoError(t, err)
	assert.False(t, patched.IsCurrent())
	assert.Equal(t, "slow", patched.Legacy.Note())
	n, _ := patched.Legacy.Int("sets")
	assert.Equal(t, 4, n)

	orig, _ := e.Legacy.Int("sets")
	assert.Equal(t, 3, orig)

	_, err = e.ApplyPatch(Patch{"type": "resistance"})
	assert.ErrorIs(t, err, ErrTypeChange)
}
