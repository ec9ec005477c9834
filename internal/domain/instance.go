package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Prescription is the discipline-specific payload of an ExerciseInstance.
// It is implemented only by *Resistance, *Cardio, *Plyometric and *Corrective.
type Prescription interface {
	Discipline() Discipline
	Accept(v PrescriptionVisitor)
	Validate() error
	clonePrescription() Prescription
}

// PrescriptionVisitor handles every discipline. Adding a discipline adds a method here,
// so every consumer that walks instances stops compiling until it handles the new case.
type PrescriptionVisitor interface {
	VisitResistance(p *Resistance)
	VisitCardio(p *Cardio)
	VisitPlyometric(p *Plyometric)
	VisitCorrective(p *Corrective)
}

// ExerciseInstance is one prescribed exercise inside a training day.
// Its discipline is carried by the Prescription, so the tag and the payload can never disagree.
type ExerciseInstance struct {
	ID           string
	OrderIndex   int
	ExerciseName string
	ExerciseID   string
	TargetMuscle MuscleGroup
	Notes        string
	Prescription Prescription
}

// Type returns the discipline tag, or "" when the instance has no payload.
func (e *ExerciseInstance) Type() Discipline {
	if e.Prescription == nil {
		return ""
	}
	return e.Prescription.Discipline()
}

// Clone returns a deep copy.
func (e *ExerciseInstance) Clone() *ExerciseInstance {
	if e == nil {
		return nil
	}
	c := *e
	if e.Prescription != nil {
		c.Prescription = e.Prescription.clonePrescription()
	}
	return &c
}

// Validate checks the instance invariants that do not depend on its position in a day.
func (e *ExerciseInstance) Validate() error {
	if e.Prescription == nil {
		return ErrMissingPrescription
	}
	if strings.TrimSpace(e.ID) == "" {
		return invalidf("id is required")
	}
	if e.TargetMuscle != "" && !e.TargetMuscle.Valid() {
		return invalidf("unknown target_muscle %q", e.TargetMuscle)
	}
	return e.Prescription.Validate()
}

// Accept dispatches the payload to v.
func (e *ExerciseInstance) Accept(v PrescriptionVisitor) {
	if e.Prescription != nil {
		e.Prescription.Accept(v)
	}
}

type instanceHeader struct {
	ID           string      `json:"id"`
	Type         Discipline  `json:"type"`
	OrderIndex   int         `json:"order_index"`
	ExerciseName string      `json:"exercise_name"`
	ExerciseID   string      `json:"exercise_id,omitempty"`
	TargetMuscle MuscleGroup `json:"target_muscle,omitempty"`
	Notes        string      `json:"notes,omitempty"`
}

// wireEncoder flattens header and payload into a single snake_case object.
type wireEncoder struct {
	header instanceHeader
	out    any
}

func (w *wireEncoder) VisitResistance(p *Resistance) {
	w.out = struct {
		instanceHeader
		*Resistance
	}{w.header, p}
}

func (w *wireEncoder) VisitCardio(p *Cardio) {
	w.out = struct {
		instanceHeader
		*Cardio
	}{w.header, p}
}

func (w *wireEncoder) VisitPlyometric(p *Plyometric) {
	w.out = struct {
		instanceHeader
		*Plyometric
	}{w.header, p}
}

func (w *wireEncoder) VisitCorrective(p *Corrective) {
	w.out = struct {
		instanceHeader
		*Corrective
	}{w.header, p}
}

func (e ExerciseInstance) MarshalJSON() ([]byte, error) {
	if e.Prescription == nil {
		return nil, ErrMissingPrescription
	}
	w := &wireEncoder{header: instanceHeader{
		ID:           e.ID,
		Type:         e.Prescription.Discipline(),
		OrderIndex:   e.OrderIndex,
		ExerciseName: e.ExerciseName,
		ExerciseID:   e.ExerciseID,
		TargetMuscle: e.TargetMuscle,
		Notes:        e.Notes,
	}}
	e.Prescription.Accept(w)
	return json.Marshal(w.out)
}

func (e *ExerciseInstance) UnmarshalJSON(data []byte) error {
	inst, err := decodeInstance(data, false)
	if err != nil {
		return err
	}
	*e = *inst
	return nil
}

// DecodeInstanceStrict decodes a current-format instance and rejects unknown fields.
func DecodeInstanceStrict(data []byte) (*ExerciseInstance, error) {
	return decodeInstance(data, true)
}

func decodeInstance(data []byte, strict bool) (*ExerciseInstance, error) {
	var h instanceHeader
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrescription, err)
	}
	if !h.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDiscipline, h.Type)
	}

	var (
		p   Prescription
		err error
	)
	switch h.Type {
	case DisciplineResistance:
		w := struct {
			instanceHeader
			*Resistance
		}{Resistance: &Resistance{}}
		err = decodeInto(data, strict, &w)
		p = w.Resistance
	case DisciplineCardio:
		w := struct {
			instanceHeader
			*Cardio
		}{Cardio: &Cardio{}}
		err = decodeInto(data, strict, &w)
		p = w.Cardio
	case DisciplinePlyometric:
		w := struct {
			instanceHeader
			*Plyometric
		}{Plyometric: &Plyometric{}}
		err = decodeInto(data, strict, &w)
		p = w.Plyometric
	case DisciplineCorrective:
		w := struct {
			instanceHeader
			*Corrective
		}{Corrective: &Corrective{}}
		err = decodeInto(data, strict, &w)
		p = w.Corrective
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrescription, err)
	}

	return &ExerciseInstance{
		ID:           h.ID,
		OrderIndex:   h.OrderIndex,
		ExerciseName: h.ExerciseName,
		ExerciseID:   h.ExerciseID,
		TargetMuscle: h.TargetMuscle,
		Notes:        h.Notes,
		Prescription: p,
	}, nil
}

func decodeInto(data []byte, strict bool, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if strict {
		dec.DisallowUnknownFields()
	}
	return dec.Decode(v)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func inRange[T int | float64](name string, v, lo, hi T) error {
	if v < lo || v > hi {
		return invalidf("%s must be between %v and %v, got %v", name, lo, hi, v)
	}
	return nil
}

func optInRange[T int | float64](name string, v *T, lo, hi T) error {
	if v == nil {
		return nil
	}
	return inRange(name, *v, lo, hi)
}
