package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Legacy field names as written by the older flat workout format.
const (
	legacyName     = "name"
	legacyMode     = "mode"
	legacyType     = "type"
	legacySets     = "sets"
	legacyReps     = "reps"
	legacyRest     = "rest"
	legacyRestUnit = "restUnit"
	legacyDuration = "duration"
	legacyHoldTime = "holdTime"
	legacyNote     = "note"

	maxLegacyInt = 100000
)

// LegacyRecord is an exercise entry in the older loosely typed format. Its fields are kept
// verbatim so the record serializes back exactly as it was read; it is never upgraded in place.
type LegacyRecord struct {
	// ID and Position are tracked by the program store and are not part of the stored record.
	ID       string
	Position int

	fields map[string]any
}

// NewLegacyRecord wraps a copy of fields.
func NewLegacyRecord(fields map[string]any) *LegacyRecord {
	return &LegacyRecord{fields: deepCopyMap(fields)}
}

// Fields returns a copy of the stored fields.
func (l *LegacyRecord) Fields() map[string]any {
	return deepCopyMap(l.fields)
}

func (l *LegacyRecord) Clone() *LegacyRecord {
	if l == nil {
		return nil
	}
	return &LegacyRecord{ID: l.ID, Position: l.Position, fields: deepCopyMap(l.fields)}
}

func (l *LegacyRecord) MarshalJSON() ([]byte, error) {
	if l.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(l.fields)
}

func (l *LegacyRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("legacy record must be a JSON object")
	}
	l.fields = fields
	return nil
}

// Text reads a field that may hold a string or a number.
func (l *LegacyRecord) Text(key string) (string, bool) {
	switch v := l.fields[key].(type) {
	case string:
		s := strings.TrimSpace(v)
		return s, s != ""
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int32:
		return strconv.Itoa(int(v)), true
	case int64:
		return strconv.FormatInt(v, 10), true
	}
	return "", false
}

// Int reads a numeric field, accepting numbers and strings that start with a number.
// Int reads the integer prefix of a field. Values above maxLegacyInt are treated as
// unreadable so arithmetic over old records cannot overflow.
func (l *LegacyRecord) Int(key string) (int, bool) {
	s, ok := l.Text(key)
	if !ok {
		return 0, false
	}
	n, ok := LeadingInt(s)
	if !ok || n > maxLegacyInt {
		return 0, false
	}
	return n, true
}

func (l *LegacyRecord) Name() string {
	s, _ := l.Text(legacyName)
	return s
}

// CompanionNames are the name2..name4 fields of superset-style legacy entries.
func (l *LegacyRecord) CompanionNames() []string {
	var names []string
	for _, k := range []string{"name2", "name3", "name4"} {
		if s, ok := l.Text(k); ok {
			names = append(names, s)
		}
	}
	return names
}

func (l *LegacyRecord) Note() string {
	s, _ := l.Text(legacyNote)
	return s
}

// System is the legacy training system (normal, superset, dropset, ...).
func (l *LegacyRecord) System() string {
	s, _ := l.Text(legacyType)
	return s
}

// Discipline infers the discipline from the legacy mode. Warm-up and cool-down entries,
// and entries without sets or reps, have none.
func (l *LegacyRecord) Discipline() Discipline {
	mode, _ := l.Text(legacyMode)
	switch strings.ToLower(mode) {
	case "resist", "resistance":
		return DisciplineResistance
	case "cardio":
		return DisciplineCardio
	case "corrective":
		return DisciplineCorrective
	case "":
		_, hasSets := l.Text(legacySets)
		_, hasReps := l.Text(legacyReps)
		if hasSets || hasReps {
			return DisciplineResistance
		}
	}
	return ""
}

// RestSeconds reads rest honoring restUnit ("m" means minutes).
func (l *LegacyRecord) RestSeconds() (int, bool) {
	n, ok := l.Int(legacyRest)
	if !ok {
		return 0, false
	}
	if unit, _ := l.Text(legacyRestUnit); unit == "m" {
		return n * 60, true
	}
	return n, true
}

// RestDisplay renders rest in the unit it was written in.
func (l *LegacyRecord) RestDisplay() (string, bool) {
	n, ok := l.Int(legacyRest)
	if !ok {
		return "", false
	}
	if unit, _ := l.Text(legacyRestUnit); unit == "m" {
		return fmt.Sprintf("%dm", n), true
	}
	return FormatSeconds(n), true
}

func (l *LegacyRecord) set(key string, v any) {
	if l.fields == nil {
		l.fields = map[string]any{}
	}
	if v == nil {
		delete(l.fields, key)
		return
	}
	l.fields[key] = v
}

// FormatSeconds renders a rest period: "45s", "2m", "1m30s".
func FormatSeconds(s int) string {
	if s < 60 {
		return fmt.Sprintf("%ds", s)
	}
	if s%60 == 0 {
		return fmt.Sprintf("%dm", s/60)
	}
	return fmt.Sprintf("%dm%ds", s/60, s%60)
}

func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	}
	return v
}
