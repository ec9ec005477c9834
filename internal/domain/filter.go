package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// FilterSpec selects catalog records. Values inside one criterion are alternatives;
// criteria combine conjunctively. Empty criteria match everything.
type FilterSpec struct {
	Query          string            `json:"query,omitempty"`
	Muscles        []MuscleGroup     `json:"muscles,omitempty"`
	Equipment      []EquipmentType   `json:"equipment,omitempty"`
	Difficulty     []DifficultyLevel `json:"difficulty,omitempty"`
	Category       Discipline        `json:"category,omitempty"`
	CompoundOnly   bool              `json:"compound_only,omitempty"`
	UnilateralOnly bool              `json:"unilateral_only,omitempty"`
}

// Key is a canonical hash of the filter; filters that select the same records by the same rules share a key.
func (f FilterSpec) Key() string {
	muscles := make([]string, len(f.Muscles))
	for i, m := range f.Muscles {
		muscles[i] = string(m)
	}
	equipment := make([]string, len(f.Equipment))
	for i, e := range f.Equipment {
		equipment[i] = string(e)
	}
	difficulty := make([]string, len(f.Difficulty))
	for i, d := range f.Difficulty {
		difficulty[i] = string(d)
	}
	sort.Strings(muscles)
	sort.Strings(equipment)
	sort.Strings(difficulty)

	canonical := fmt.Sprintf("q=%s|m=%s|e=%s|d=%s|c=%s|cmp=%t|uni=%t",
		strings.ToLower(strings.TrimSpace(f.Query)),
		strings.Join(muscles, ","),
		strings.Join(equipment, ","),
		strings.Join(difficulty, ","),
		f.Category, f.CompoundOnly, f.UnilateralOnly,
	)
	return fmt.Sprintf("%016x", xxhash.Sum64String(canonical))
}
