package service

import (
	"strings"

	"github.com/mansoorceksport/flexpro/internal/domain"
)

// Filter returns the records matching the filter, preserving catalog order.
func Filter(records []domain.ExerciseRecord, spec domain.FilterSpec) []domain.ExerciseRecord {
	query := strings.ToLower(strings.TrimSpace(spec.Query))
	out := make([]domain.ExerciseRecord, 0, len(records))
	for _, r := range records {
		if matches(r, spec, query) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r domain.ExerciseRecord, spec domain.FilterSpec, query string) bool {
	if query != "" &&
		!strings.Contains(strings.ToLower(r.Name), query) &&
		!strings.Contains(strings.ToLower(r.AltName), query) &&
		!strings.Contains(strings.ToLower(r.Description), query) {
		return false
	}
	if len(spec.Muscles) > 0 && !anyOf(spec.Muscles, r.TargetsMuscle) {
		return false
	}
	if len(spec.Equipment) > 0 && !anyOf(spec.Equipment, func(e domain.EquipmentType) bool { return r.Equipment == e }) {
		return false
	}
	if len(spec.Difficulty) > 0 && !anyOf(spec.Difficulty, func(d domain.DifficultyLevel) bool { return r.Difficulty == d }) {
		return false
	}
	if spec.Category != "" && r.Category != spec.Category {
		return false
	}
	if spec.CompoundOnly && !r.IsCompound {
		return false
	}
	if spec.UnilateralOnly && !r.IsUnilateral {
		return false
	}
	return true
}

func anyOf[T any](values []T, pred func(T) bool) bool {
	for _, v := range values {
		if pred(v) {
			return true
		}
	}
	return false
}
