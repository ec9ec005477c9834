package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Entry is one position in a training day: a current-format instance or a legacy record.
// Exactly one of the two is set.
type Entry struct {
	Instance *ExerciseInstance
	Legacy   *LegacyRecord
}

func CurrentEntry(inst *ExerciseInstance) Entry { return Entry{Instance: inst} }
func LegacyEntry(rec *LegacyRecord) Entry       { return Entry{Legacy: rec} }

func (e Entry) IsCurrent() bool { return e.Instance != nil }

func (e Entry) ID() string {
	if e.Instance != nil {
		return e.Instance.ID
	}
	if e.Legacy != nil {
		return e.Legacy.ID
	}
	return ""
}

func (e Entry) OrderIndex() int {
	if e.Instance != nil {
		return e.Instance.OrderIndex
	}
	if e.Legacy != nil {
		return e.Legacy.Position
	}
	return 0
}

// SetOrderIndex records the entry's position in its day.
func (e Entry) SetOrderIndex(i int) {
	if e.Instance != nil {
		e.Instance.OrderIndex = i
	} else if e.Legacy != nil {
		e.Legacy.Position = i
	}
}

func (e Entry) ExerciseName() string {
	if e.Instance != nil {
		return e.Instance.ExerciseName
	}
	if e.Legacy != nil {
		return e.Legacy.Name()
	}
	return ""
}

func (e Entry) Clone() Entry {
	return Entry{Instance: e.Instance.Clone(), Legacy: e.Legacy.Clone()}
}

func (e Entry) MarshalJSON() ([]byte, error) {
	switch {
	case e.Instance != nil:
		return e.Instance.MarshalJSON()
	case e.Legacy != nil:
		return e.Legacy.MarshalJSON()
	}
	return nil, errors.New("empty entry")
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	parsed, err := ParseEntry(data)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// IsCurrentFormat reports whether a stored record carries one of the four discipline tags.
func IsCurrentFormat(record map[string]any) bool {
	t, ok := record["type"].(string)
	return ok && Discipline(t).Valid()
}

// ParseEntry classifies a stored record. A record with a discipline tag whose payload does
// not decode cleanly is kept as a legacy record rather than rejected.
func ParseEntry(data []byte) (Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var record map[string]any
	if err := dec.Decode(&record); err != nil || record == nil {
		return Entry{}, fmt.Errorf("exercise entry must be a JSON object")
	}
	if IsCurrentFormat(record) {
		if inst, err := decodeInstance(data, false); err == nil {
			return CurrentEntry(inst), nil
		}
	}
	rec := &LegacyRecord{fields: record}
	if id, ok := record["id"].(string); ok {
		rec.ID = id
	}
	return LegacyEntry(rec), nil
}

// MetricKind names what the primary metric of an entry counts.
type MetricKind string

const (
	MetricReps     MetricKind = "reps"
	MetricDuration MetricKind = "duration"
	MetricContacts MetricKind = "contacts"
)

type PrimaryMetric struct {
	Kind  MetricKind `json:"kind"`
	Value string     `json:"value"`
}

// NormalizedView is the uniform read of an entry in either format.
// Absent values are nil, never zero.
type NormalizedView struct {
	Discipline    Discipline     `json:"discipline,omitempty"`
	Legacy        bool           `json:"legacy"`
	ExerciseName  string         `json:"exercise_name"`
	Sets          *int           `json:"sets"`
	PrimaryMetric *PrimaryMetric `json:"primary_metric"`
	RestDisplay   *string        `json:"rest_display"`
	Notes         string         `json:"notes,omitempty"`
}

// ReadUniform projects an entry onto the shared view.
func ReadUniform(e Entry) NormalizedView {
	if e.Instance != nil {
		v := &viewBuilder{view: NormalizedView{
			Discipline:   e.Instance.Type(),
			ExerciseName: e.Instance.ExerciseName,
			Notes:        e.Instance.Notes,
		}}
		e.Instance.Accept(v)
		return v.view
	}
	if e.Legacy != nil {
		return readLegacy(e.Legacy)
	}
	return NormalizedView{}
}

type viewBuilder struct {
	view NormalizedView
}

func (b *viewBuilder) VisitResistance(p *Resistance) {
	b.view.Sets = intPtr(p.Sets)
	b.view.PrimaryMetric = &PrimaryMetric{Kind: MetricReps, Value: p.Reps}
	b.view.RestDisplay = strPtr(FormatSeconds(p.RestSeconds))
}

func (b *viewBuilder) VisitCardio(p *Cardio) {
	b.view.Sets = clonePtr(p.Intervals)
	b.view.PrimaryMetric = &PrimaryMetric{Kind: MetricDuration, Value: fmt.Sprintf("%d min", p.DurationMinutes)}
	if p.RestDurationSeconds != nil {
		b.view.RestDisplay = strPtr(FormatSeconds(*p.RestDurationSeconds))
	}
}

func (b *viewBuilder) VisitPlyometric(p *Plyometric) {
	b.view.Sets = intPtr(p.Sets)
	b.view.PrimaryMetric = &PrimaryMetric{Kind: MetricContacts, Value: strconv.Itoa(p.Contacts)}
	b.view.RestDisplay = strPtr(FormatSeconds(p.RestSeconds))
}

func (b *viewBuilder) VisitCorrective(p *Corrective) {
	b.view.Sets = clonePtr(p.Sets)
	switch {
	case p.Reps != nil:
		b.view.PrimaryMetric = &PrimaryMetric{Kind: MetricReps, Value: strconv.Itoa(*p.Reps)}
	case p.HoldSeconds != nil:
		b.view.PrimaryMetric = &PrimaryMetric{Kind: MetricDuration, Value: FormatSeconds(*p.HoldSeconds)}
	case p.DurationSeconds != nil:
		b.view.PrimaryMetric = &PrimaryMetric{Kind: MetricDuration, Value: FormatSeconds(*p.DurationSeconds)}
	case p.Passes != nil:
		b.view.PrimaryMetric = &PrimaryMetric{Kind: MetricReps, Value: strconv.Itoa(*p.Passes)}
	case p.BreathCount != nil:
		b.view.PrimaryMetric = &PrimaryMetric{Kind: MetricReps, Value: strconv.Itoa(*p.BreathCount)}
	}
}

func readLegacy(l *LegacyRecord) NormalizedView {
	v := NormalizedView{
		Discipline:   l.Discipline(),
		Legacy:       true,
		ExerciseName: l.Name(),
		Notes:        l.Note(),
	}
	if n, ok := l.Int(legacySets); ok {
		v.Sets = &n
	}
	if reps, ok := l.Text(legacyReps); ok {
		v.PrimaryMetric = &PrimaryMetric{Kind: MetricReps, Value: reps}
	} else if d, ok := l.Int(legacyDuration); ok {
		v.PrimaryMetric = &PrimaryMetric{Kind: MetricDuration, Value: fmt.Sprintf("%d min", d)}
	} else if h, ok := l.Int(legacyHoldTime); ok {
		v.PrimaryMetric = &PrimaryMetric{Kind: MetricDuration, Value: FormatSeconds(h)}
	}
	if rest, ok := l.RestDisplay(); ok {
		v.RestDisplay = &rest
	}
	return v
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
