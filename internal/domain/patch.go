package domain

import (
	"encoding/json"
	"fmt"
)

// Patch is a shallow partial update keyed by wire field names. A nil value clears the field.
type Patch map[string]any

// ApplyPatch returns a patched copy of the entry; the receiver is left untouched.
// The discipline, id and order index of an entry are immutable through a patch, and a
// patched current-format instance must still decode strictly and validate.
func (e Entry) ApplyPatch(p Patch) (Entry, error) {
	switch {
	case e.Instance != nil:
		inst, err := patchInstance(e.Instance, p)
		if err != nil {
			return Entry{}, err
		}
		return CurrentEntry(inst), nil
	case e.Legacy != nil:
		rec, err := patchLegacy(e.Legacy, p)
		if err != nil {
			return Entry{}, err
		}
		return LegacyEntry(rec), nil
	}
	return Entry{}, ErrMissingPrescription
}

func patchInstance(inst *ExerciseInstance, p Patch) (*ExerciseInstance, error) {
	if err := checkImmutable(p, inst.ID, inst.OrderIndex); err != nil {
		return nil, err
	}

	data, err := json.Marshal(inst)
	if err != nil {
		return nil, err
	}
	var merged map[string]any
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range p {
		if v == nil {
			delete(merged, k)
			continue
		}
		merged[k] = v
	}
	out, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrescription, err)
	}

	next, err := DecodeInstanceStrict(out)
	if err != nil {
		return nil, err
	}
	next.ID = inst.ID
	next.OrderIndex = inst.OrderIndex
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return next, nil
}

func patchLegacy(rec *LegacyRecord, p Patch) (*LegacyRecord, error) {
	if err := checkImmutable(p, rec.ID, rec.Position); err != nil {
		return nil, err
	}
	next := rec.Clone()
	for k, v := range p {
		if k == "id" || k == "order_index" {
			continue
		}
		next.set(k, v)
	}
	return next, nil
}

func checkImmutable(p Patch, currentID string, currentIndex int) error {
	if _, ok := p["type"]; ok {
		return ErrTypeChange
	}
	if v, ok := p["id"]; ok {
		if s, isStr := v.(string); !isStr || s != currentID {
			return ErrIDChange
		}
	}
	if v, ok := p["order_index"]; ok {
		if n, isNum := asInt(v); !isNum || n != currentIndex {
			return ErrOrderIndexPatch
		}
	}
	return nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), n == float64(int(n))
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}
