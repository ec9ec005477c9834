package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mansoorceksport/flexpro/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryBSONConversion(t *testing.T) {
	rpe, weight := 8.5, 60.0
	inst := domain.NewResistance()
	inst.ExerciseName = "Bench Press"
	inst.OrderIndex = 1
	res := inst.Prescription.(*domain.Resistance)
	res.RPE = &rpe
	res.Weight = &weight
	res.Tempo = "3-1-1-0"

	t.Run("current entry", func(t *testing.T) {
		raw, err := entryToBSON(domain.CurrentEntry(inst))
		require.NoError(t, err)

		back, err := entryFromBSON(raw)
		require.NoError(t, err)
		require.True(t, back.IsCurrent())
		assert.Equal(t, inst, back.Instance)
	})

	t.Run("legacy entry keeps unknown fields", func(t *testing.T) {
		legacyJSON := `{"mode":"resist","name":"Squat","sets":"4","reps":"8","custom":{"nested":[1,2.5,"x"]}}`
		var legacy domain.Entry
		require.NoError(t, json.Unmarshal([]byte(legacyJSON), &legacy))

		raw, err := entryToBSON(legacy)
		require.NoError(t, err)
		back, err := entryFromBSON(raw)
		require.NoError(t, err)
		assert.False(t, back.IsCurrent())

		data, err := json.Marshal(back)
		require.NoError(t, err)
		assert.JSONEq(t, legacyJSON, string(data))
	})
}

func TestProgramRecordConversion(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	p := &domain.Program{
		ID:        "01HZX",
		Name:      "Strength Block",
		CoachID:   "coach-1",
		ClientID:  "client-1",
		Goal:      domain.GoalStrength,
		Phase:     domain.PhaseStrength,
		Days:      domain.ProgramDocument{1: {domain.CurrentEntry(domain.NewCardio())}, 3: {}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	rec, err := toProgramRecord(p)
	require.NoError(t, err)
	assert.Len(t, rec.Days["1"], 1)
	assert.Empty(t, rec.Days["3"])

	back, err := rec.toDomain()
	require.NoError(t, err)
	assert.Equal(t, p, back)
}
