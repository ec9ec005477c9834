package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestExerciseInstance_MarshalIsFlat(t *testing.T) {
	inst := NewResistance()
	inst.ExerciseName = "Bench Press"
	inst.OrderIndex = 2
	res := inst.Prescription.(*Resistance)
	res.Weight = ptr(60.0)
	res.RPE = ptr(8.0)

	data, err := json.Marshal(inst)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "resistance", raw["type"])
	assert.Equal(t, "Bench Press", raw["exercise_name"])
	assert.Equal(t, float64(2), raw["order_index"])
	assert.Equal(t, "straight_set", raw["training_system"])
	assert.Equal(t, float64(60), raw["weight"])
	assert.NotContains(t, raw, "rir")
	assert.NotContains(t, raw, "Prescription")
}

func TestExerciseInstance_RoundTrip(t *testing.T) {
	plyo := NewPlyometric()
	plyo.ExerciseName = "Box Jump"
	plyo.Prescription.(*Plyometric).BoxHeightCm = ptr(60)

	corrective := NewCorrective()
	corrective.ExerciseName = "Diaphragmatic Breathing"
	corrective.Prescription = &Corrective{
		CorrectiveType: CorrectiveBreathing,
		NASMPhase:      PhaseInhibit,
		BreathCount:    ptr(10),
		InhaleSeconds:  ptr(4),
		ExhaleSeconds:  ptr(6),
	}

	for _, inst := range []*ExerciseInstance{plyo, corrective, NewCardio()} {
		t.Run(string(inst.Type()), func(t *testing.T) {
			data, err := json.Marshal(inst)
			require.NoError(t, err)

			var decoded ExerciseInstance
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, inst, &decoded)
		})
	}
}

func TestExerciseInstance_MarshalWithoutPrescription(t *testing.T) {
	_, err := json.Marshal(&ExerciseInstance{ID: "x"})
	assert.ErrorIs(t, err, ErrMissingPrescription)
}

func TestDecodeInstanceStrict_RejectsUnknownFields(t *testing.T) {
	data := []byte(`{"id":"a","type":"cardio","exercise_name":"Bike","cardio_method":"liss","duration_minutes":20,"target_heart_rate_zone":2,"sets":3}`)

	_, err := DecodeInstanceStrict(data)
	assert.ErrorIs(t, err, ErrInvalidPrescription)

	var lenient ExerciseInstance
	require.NoError(t, json.Unmarshal(data, &lenient))
	assert.Equal(t, DisciplineCardio, lenient.Type())
}

func TestExerciseInstance_Clone(t *testing.T) {
	inst := NewResistance()
	inst.Prescription.(*Resistance).Weight = ptr(100.0)

	cp := inst.Clone()
	*cp.Prescription.(*Resistance).Weight = 50
	cp.Prescription.(*Resistance).Sets = 5

	assert.Equal(t, 100.0, *inst.Prescription.(*Resistance).Weight)
	assert.Equal(t, 3, inst.Prescription.(*Resistance).Sets)
}

func TestPrescriptionValidate(t *testing.T) {
	tests := []struct {
		name    string
		p       Prescription
		wantErr bool
	}{
		{"resistance defaults", NewResistance().Prescription, false},
		{"resistance rep range", &Resistance{TrainingSystem: SystemPyramid, Sets: 4, Reps: "8-12", RestSeconds: 60}, false},
		{"resistance amrap", &Resistance{TrainingSystem: SystemRestPause, Sets: 1, Reps: "AMRAP", RestSeconds: 0}, false},
		{"resistance zero sets", &Resistance{TrainingSystem: SystemStraightSet, Sets: 0, Reps: "10", RestSeconds: 60}, true},
		{"resistance 21 sets", &Resistance{TrainingSystem: SystemStraightSet, Sets: 21, Reps: "10", RestSeconds: 60}, true},
		{"resistance inverted range", &Resistance{TrainingSystem: SystemStraightSet, Sets: 3, Reps: "12-8", RestSeconds: 60}, true},
		{"resistance zero reps", &Resistance{TrainingSystem: SystemStraightSet, Sets: 3, Reps: "0", RestSeconds: 60}, true},
		{"resistance 100 reps", &Resistance{TrainingSystem: SystemStraightSet, Sets: 1, Reps: "100", RestSeconds: 60}, false},
		{"resistance huge reps", &Resistance{TrainingSystem: SystemStraightSet, Sets: 20, Reps: "922337203685477580", RestSeconds: 60}, true},
		{"resistance range above cap", &Resistance{TrainingSystem: SystemStraightSet, Sets: 3, Reps: "50-500", RestSeconds: 60}, true},
		{"resistance rpe too low", &Resistance{TrainingSystem: SystemStraightSet, Sets: 3, Reps: "10", RestSeconds: 60, RPE: ptr(5.0)}, true},
		{"resistance rir too high", &Resistance{TrainingSystem: SystemStraightSet, Sets: 3, Reps: "10", RestSeconds: 60, RIR: ptr(6)}, true},
		{"resistance bad tempo", &Resistance{TrainingSystem: SystemTempo, Sets: 3, Reps: "10", RestSeconds: 60, Tempo: "3-1-2"}, true},
		{"resistance unknown system", &Resistance{TrainingSystem: "wave", Sets: 3, Reps: "10", RestSeconds: 60}, true},
		{"resistance tertiary without secondary", &Resistance{TrainingSystem: SystemTriset, Sets: 3, Reps: "10", RestSeconds: 60, TertiaryExercise: "Dip"}, true},
		{"cardio hr range", &Cardio{Method: CardioMISS, DurationMinutes: 25, TargetHRMin: ptr(120), TargetHRMax: ptr(150)}, false},
		{"cardio no target", &Cardio{Method: CardioMISS, DurationMinutes: 25}, true},
		{"cardio inverted hr", &Cardio{Method: CardioMISS, DurationMinutes: 25, TargetHRMin: ptr(150), TargetHRMax: ptr(120)}, true},
		{"cardio zone 6", &Cardio{Method: CardioHIIT, DurationMinutes: 20, TargetHeartRateZone: ptr(6)}, true},
		{"plyometric shock", &Plyometric{Intensity: PlyoShock, Sets: 3, Contacts: 5, RestSeconds: 180, DropHeightCm: ptr(40)}, false},
		{"plyometric 51 contacts", &Plyometric{Intensity: PlyoLow, Sets: 3, Contacts: 51, RestSeconds: 60}, true},
		{"corrective stretch side", &Corrective{CorrectiveType: CorrectiveStaticStretch, HoldSeconds: ptr(30), StretchSide: "both"}, false},
		{"corrective passes on stretch", &Corrective{CorrectiveType: CorrectiveStaticStretch, Passes: ptr(5)}, true},
		{"corrective breath on foam", &Corrective{CorrectiveType: CorrectiveFoamRolling, BreathCount: ptr(5)}, true},
		{"corrective side on activation", &Corrective{CorrectiveType: CorrectiveActivation, StretchSide: "left"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPrescription)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResistance_Derived(t *testing.T) {
	r := &Resistance{Reps: "8-12", Weight: ptr(100.0), WeightUnit: WeightLb, RIR: ptr(2)}

	reps, ok := r.WorkingReps()
	assert.True(t, ok)
	assert.Equal(t, 8, reps)

	kg, ok := r.LoadKg()
	assert.True(t, ok)
	assert.InDelta(t, 45.36, kg, 0.01)

	rpe, ok := r.EffectiveRPE()
	assert.True(t, ok)
	assert.Equal(t, 8.0, rpe)

	r.WeightUnit = WeightPercent1RM
	_, ok = r.LoadKg()
	assert.False(t, ok)
}
