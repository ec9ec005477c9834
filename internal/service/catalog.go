package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/mansoorceksport/flexpro/internal/domain"
)

var muscleAliases = map[string]domain.MuscleGroup{
	"chest":        domain.MuscleChest,
	"pecs":         domain.MuscleChest,
	"upper chest":  domain.MuscleChest,
	"back":         domain.MuscleBack,
	"lats":         domain.MuscleBack,
	"upper back":   domain.MuscleBack,
	"mid back":     domain.MuscleBack,
	"shoulders":    domain.MuscleShoulders,
	"delts":        domain.MuscleShoulders,
	"front delts":  domain.MuscleShoulders,
	"side delts":   domain.MuscleShoulders,
	"rear delts":   domain.MuscleShoulders,
	"biceps":       domain.MuscleBiceps,
	"triceps":      domain.MuscleTriceps,
	"forearms":     domain.MuscleForearms,
	"grip":         domain.MuscleForearms,
	"legs":         domain.MuscleQuadriceps,
	"quads":        domain.MuscleQuadriceps,
	"quadriceps":   domain.MuscleQuadriceps,
	"hamstrings":   domain.MuscleHamstrings,
	"hams":         domain.MuscleHamstrings,
	"glutes":       domain.MuscleGlutes,
	"calves":       domain.MuscleCalves,
	"core":         domain.MuscleAbs,
	"abs":          domain.MuscleAbs,
	"obliques":     domain.MuscleObliques,
	"lower back":   domain.MuscleLowerBack,
	"erectors":     domain.MuscleLowerBack,
	"traps":        domain.MuscleTraps,
	"hip flexors":  domain.MuscleHipFlexors,
	"adductors":    domain.MuscleAdductors,
	"abductors":    domain.MuscleAbductors,
	"full body":    domain.MuscleFullBody,
	"total body":   domain.MuscleFullBody,
	"conditioning": domain.MuscleFullBody,
}

var equipmentAliases = map[string]domain.EquipmentType{
	"barbell":          domain.EquipmentBarbell,
	"ez bar":           domain.EquipmentBarbell,
	"trap bar":         domain.EquipmentBarbell,
	"dumbbell":         domain.EquipmentDumbbell,
	"dumbbells":        domain.EquipmentDumbbell,
	"kettlebell":       domain.EquipmentKettlebell,
	"cable":            domain.EquipmentCable,
	"machine":          domain.EquipmentMachine,
	"smith machine":    domain.EquipmentSmithMachine,
	"bodyweight":       domain.EquipmentBodyweight,
	"body weight":      domain.EquipmentBodyweight,
	"band":             domain.EquipmentResistanceBands,
	"bands":            domain.EquipmentResistanceBands,
	"resistance band":  domain.EquipmentResistanceBands,
	"resistance bands": domain.EquipmentResistanceBands,
	"trx":              domain.EquipmentTRX,
	"medicine ball":    domain.EquipmentMedicineBall,
	"stability ball":   domain.EquipmentStabilityBall,
	"swiss ball":       domain.EquipmentStabilityBall,
	"foam roller":      domain.EquipmentFoamRoller,
	"box":              domain.EquipmentBox,
	"plyo box":         domain.EquipmentBox,
	"bench":            domain.EquipmentBench,
	"pull up bar":      domain.EquipmentPullUpBar,
	"dip station":      domain.EquipmentDipStation,
	"parallel bars":    domain.EquipmentDipStation,
	"treadmill":        domain.EquipmentTreadmill,
	"bike":             domain.EquipmentBike,
	"stationary bike":  domain.EquipmentBike,
	"rower":            domain.EquipmentRower,
	"rowing machine":   domain.EquipmentRower,
	"elliptical":       domain.EquipmentElliptical,
	"stairmaster":      domain.EquipmentStairmaster,
	"battle ropes":     domain.EquipmentBattleRopes,
	"sled":             domain.EquipmentSled,
	"landmine":         domain.EquipmentLandmine,
}

func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// parseMuscleText resolves "Legs (Hamstrings)", "Back (Lower)" or "Chest/Triceps" to muscle groups.
// The first group is the primary muscle; unknown tokens are skipped.
func parseMuscleText(s string) []domain.MuscleGroup {
	var out []domain.MuscleGroup
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == ',' || r == '&' }) {
		if m, ok := resolveMusclePart(part); ok {
			out = append(out, m)
		}
	}
	return out
}

func resolveMusclePart(part string) (domain.MuscleGroup, bool) {
	outer, inner := part, ""
	if open := strings.Index(part, "("); open >= 0 {
		outer = part[:open]
		inner = strings.TrimSuffix(part[open+1:], ")")
	}
	outer, inner = normalizeToken(outer), normalizeToken(inner)

	// the parenthesised detail is more specific than the body region
	if inner != "" {
		if m, ok := muscleAliases[inner]; ok {
			return m, true
		}
		if m, ok := muscleAliases[inner+" "+outer]; ok {
			return m, true
		}
	}
	if m, ok := muscleAliases[outer]; ok {
		return m, true
	}
	if m := domain.MuscleGroup(strings.ReplaceAll(outer, " ", "_")); m.Valid() {
		return m, true
	}
	return "", false
}

func parseEquipment(s string) domain.EquipmentType {
	parts := strings.Split(s, "/")
	e := normalizeToken(parts[0])
	if v, ok := equipmentAliases[e]; ok {
		return v
	}
	return domain.EquipmentNone
}

// NormalizeExercise maps a raw catalog document onto the normalized record.
func NormalizeExercise(raw *domain.Exercise) domain.ExerciseRecord {
	rec := domain.ExerciseRecord{
		ID:               raw.ID,
		Name:             strings.TrimSpace(raw.Name),
		AltName:          strings.TrimSpace(raw.NameAlt),
		Description:      raw.Description,
		Equipment:        parseEquipment(raw.Equipment),
		Category:         domain.DisciplineResistance,
		Difficulty:       domain.DifficultyIntermediate,
		IsCompound:       raw.IsCompound,
		IsUnilateral:     raw.IsUnilateral,
		SecondaryMuscles: []domain.MuscleGroup{},
	}
	if d, err := domain.ParseDiscipline(raw.Category); err == nil {
		rec.Category = d
	}
	switch lvl := domain.DifficultyLevel(strings.ToLower(strings.TrimSpace(raw.Difficulty))); lvl {
	case domain.DifficultyBeginner, domain.DifficultyIntermediate, domain.DifficultyAdvanced, domain.DifficultyElite:
		rec.Difficulty = lvl
	}

	muscles := parseMuscleText(raw.MuscleGroup)
	if len(muscles) > 0 {
		rec.PrimaryMuscle = muscles[0]
		muscles = muscles[1:]
	}
	for _, s := range raw.SecondaryMuscles {
		muscles = append(muscles, parseMuscleText(s)...)
	}
	seen := map[domain.MuscleGroup]bool{rec.PrimaryMuscle: true}
	for _, m := range muscles {
		if seen[m] {
			continue
		}
		seen[m] = true
		rec.SecondaryMuscles = append(rec.SecondaryMuscles, m)
	}
	return rec
}

// Catalog is an immutable, indexed set of normalized exercise records.
type Catalog struct {
	records []domain.ExerciseRecord
	byName  map[string]int
	version string
}

// BuildCatalog normalizes raw catalog documents.
func BuildCatalog(raw []*domain.Exercise) *Catalog {
	records := make([]domain.ExerciseRecord, 0, len(raw))
	for _, ex := range raw {
		if ex == nil || strings.TrimSpace(ex.Name) == "" {
			continue
		}
		records = append(records, NormalizeExercise(ex))
	}
	return NewCatalog(records)
}

func NewCatalog(records []domain.ExerciseRecord) *Catalog {
	c := &Catalog{
		records: append([]domain.ExerciseRecord(nil), records...),
		byName:  make(map[string]int, len(records)*2),
	}
	for i, r := range c.records {
		if _, dup := c.byName[normalizeToken(r.Name)]; !dup {
			c.byName[normalizeToken(r.Name)] = i
		}
		if r.AltName != "" {
			if _, dup := c.byName[normalizeToken(r.AltName)]; !dup {
				c.byName[normalizeToken(r.AltName)] = i
			}
		}
	}
	data, _ := json.Marshal(c.records)
	c.version = fmt.Sprintf("%016x", xxhash.Sum64(data))
	return c
}

// Records returns a copy of the catalog records in catalog order.
func (c *Catalog) Records() []domain.ExerciseRecord {
	return append([]domain.ExerciseRecord(nil), c.records...)
}

func (c *Catalog) Len() int { return len(c.records) }

// Version identifies the catalog contents; it changes whenever any record changes.
func (c *Catalog) Version() string { return c.version }

// Lookup finds a record by name or alternative name, ignoring case and spacing.
func (c *Catalog) Lookup(name string) (domain.ExerciseRecord, bool) {
	i, ok := c.byName[normalizeToken(name)]
	if !ok {
		return domain.ExerciseRecord{}, false
	}
	return c.records[i], true
}

// ResolveMuscle implements domain.MuscleResolver.
func (c *Catalog) ResolveMuscle(name string) (domain.MuscleGroup, bool) {
	rec, ok := c.Lookup(name)
	if !ok || rec.PrimaryMuscle == "" {
		return "", false
	}
	return rec.PrimaryMuscle, true
}
