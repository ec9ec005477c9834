package service

import (
	"sort"

	"github.com/mansoorceksport/flexpro/internal/domain"
)

const (
	defaultSuggestionLimit = 8
	suggestionsPerMuscle   = 2
)

var antagonists = map[domain.MuscleGroup]domain.MuscleGroup{
	domain.MuscleChest:      domain.MuscleBack,
	domain.MuscleBack:       domain.MuscleChest,
	domain.MuscleQuadriceps: domain.MuscleHamstrings,
	domain.MuscleHamstrings: domain.MuscleQuadriceps,
	domain.MuscleBiceps:     domain.MuscleTriceps,
	domain.MuscleTriceps:    domain.MuscleBiceps,
}

var upperBody = map[domain.MuscleGroup]bool{
	domain.MuscleChest:     true,
	domain.MuscleBack:      true,
	domain.MuscleShoulders: true,
	domain.MuscleBiceps:    true,
	domain.MuscleTriceps:   true,
}

// Suggest proposes catalog exercises that round out a day: compound lifts for an empty day,
// otherwise antagonists of the trained muscles and core work after upper-body training.
// Exercises already in the day are never suggested.
func Suggest(entries []domain.Entry, catalog *Catalog, limit int) []domain.ExerciseRecord {
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}
	used := make(map[string]bool, len(entries))
	trained := make(map[domain.MuscleGroup]bool)
	var order []domain.MuscleGroup
	for _, e := range entries {
		name := e.ExerciseName()
		used[normalizeToken(name)] = true
		m, ok := catalog.ResolveMuscle(name)
		if !ok && e.Instance != nil && e.Instance.TargetMuscle.Valid() {
			m, ok = e.Instance.TargetMuscle, true
		}
		if ok && !trained[m] {
			trained[m] = true
			order = append(order, m)
		}
	}

	records := catalog.Records()
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].IsCompound && !records[j].IsCompound
	})

	out := make([]domain.ExerciseRecord, 0, limit)
	take := func(pred func(domain.ExerciseRecord) bool, quota int) {
		n := 0
		for _, r := range records {
			if len(out) >= limit || n >= quota {
				return
			}
			key := normalizeToken(r.Name)
			if used[key] || !pred(r) {
				continue
			}
			used[key] = true
			out = append(out, r)
			n++
		}
	}

	if len(entries) == 0 {
		take(func(r domain.ExerciseRecord) bool {
			return r.IsCompound && r.Category == domain.DisciplineResistance
		}, limit)
		return out
	}

	var wanted []domain.MuscleGroup
	hasUpper := false
	for _, m := range order {
		if a, ok := antagonists[m]; ok && !trained[a] {
			wanted = append(wanted, a)
			trained[a] = true
		}
		hasUpper = hasUpper || upperBody[m]
	}
	if hasUpper && !trained[domain.MuscleAbs] {
		wanted = append(wanted, domain.MuscleAbs)
	}
	for _, m := range wanted {
		target := m
		take(func(r domain.ExerciseRecord) bool { return r.PrimaryMuscle == target }, suggestionsPerMuscle)
	}
	return out
}
