package domain

import "strings"

// TrainingSystem is the set-structure technique of a resistance prescription.
type TrainingSystem string

const (
	SystemStraightSet    TrainingSystem = "straight_set"
	SystemSuperset       TrainingSystem = "superset"
	SystemTriset         TrainingSystem = "triset"
	SystemGiantSet       TrainingSystem = "giant_set"
	SystemCircuit        TrainingSystem = "circuit"
	SystemDropSet        TrainingSystem = "drop_set"
	SystemRestPause      TrainingSystem = "rest_pause"
	SystemClusterSet     TrainingSystem = "cluster_set"
	SystemMyoReps        TrainingSystem = "myo_reps"
	SystemGermanVolume   TrainingSystem = "german_volume"
	SystemFST7           TrainingSystem = "fst7"
	System5x5            TrainingSystem = "5x5"
	SystemPyramid        TrainingSystem = "pyramid"
	SystemReversePyramid TrainingSystem = "reverse_pyramid"
	SystemTempo          TrainingSystem = "tempo"
	SystemIsometric      TrainingSystem = "isometric"
	SystemEccentric      TrainingSystem = "eccentric"
	SystemPauseRep       TrainingSystem = "pause_rep"
	SystemBFR            TrainingSystem = "blood_flow_restriction"
	System21s            TrainingSystem = "21s"
	SystemMechanicalDrop TrainingSystem = "mechanical_drop"
	SystemPreExhaust     TrainingSystem = "pre_exhaust"
	SystemPostExhaust    TrainingSystem = "post_exhaust"
)

var trainingSystems = map[TrainingSystem]struct{}{
	SystemStraightSet: {}, SystemSuperset: {}, SystemTriset: {}, SystemGiantSet: {}, SystemCircuit: {},
	SystemDropSet: {}, SystemRestPause: {}, SystemClusterSet: {}, SystemMyoReps: {},
	SystemGermanVolume: {}, SystemFST7: {}, System5x5: {}, SystemPyramid: {}, SystemReversePyramid: {},
	SystemTempo: {}, SystemIsometric: {}, SystemEccentric: {}, SystemPauseRep: {},
	SystemBFR: {}, System21s: {}, SystemMechanicalDrop: {}, SystemPreExhaust: {}, SystemPostExhaust: {},
}

func (s TrainingSystem) Valid() bool {
	_, ok := trainingSystems[s]
	return ok
}

// WeightUnit qualifies Resistance.Weight.
type WeightUnit string

const (
	WeightKg         WeightUnit = "kg"
	WeightLb         WeightUnit = "lb"
	WeightPercent1RM WeightUnit = "percent_1rm"
)

const poundsToKg = 0.45359237

// Resistance prescribes sets of a loaded or bodyweight movement.
type Resistance struct {
	TrainingSystem   TrainingSystem `json:"training_system"`
	Sets             int            `json:"sets"`
	Reps             string         `json:"reps"`
	RestSeconds      int            `json:"rest_seconds"`
	RPE              *float64       `json:"rpe,omitempty"`
	RIR              *int           `json:"rir,omitempty"`
	Tempo            string         `json:"tempo,omitempty"`
	Weight           *float64       `json:"weight,omitempty"`
	WeightUnit       WeightUnit     `json:"weight_unit,omitempty"`
	DropCount        *int           `json:"drop_count,omitempty"`
	DropPercentage   *float64       `json:"drop_percentage,omitempty"`
	RestPauseSeconds *int           `json:"rest_pause_seconds,omitempty"`
	ClusterReps      *int           `json:"cluster_reps,omitempty"`
	ClusterRest      *int           `json:"cluster_rest,omitempty"`
	BFRPressure      *int           `json:"bfr_pressure,omitempty"`
	BFRCuffWidth     string         `json:"bfr_cuff_width,omitempty"`

	SecondaryExercise  string `json:"exercise_name_secondary,omitempty"`
	TertiaryExercise   string `json:"exercise_name_tertiary,omitempty"`
	QuaternaryExercise string `json:"exercise_name_quaternary,omitempty"`
	SupersetWith       string `json:"superset_with,omitempty"`
}

func (p *Resistance) Discipline() Discipline       { return DisciplineResistance }
func (p *Resistance) Accept(v PrescriptionVisitor) { v.VisitResistance(p) }

func (p *Resistance) clonePrescription() Prescription {
	c := *p
	c.RPE = clonePtr(p.RPE)
	c.RIR = clonePtr(p.RIR)
	c.Weight = clonePtr(p.Weight)
	c.DropCount = clonePtr(p.DropCount)
	c.DropPercentage = clonePtr(p.DropPercentage)
	c.RestPauseSeconds = clonePtr(p.RestPauseSeconds)
	c.ClusterReps = clonePtr(p.ClusterReps)
	c.ClusterRest = clonePtr(p.ClusterRest)
	c.BFRPressure = clonePtr(p.BFRPressure)
	return &c
}

func (p *Resistance) Validate() error {
	if !p.TrainingSystem.Valid() {
		return invalidf("unknown training_system %q", p.TrainingSystem)
	}
	if err := inRange("sets", p.Sets, 1, 20); err != nil {
		return err
	}
	if err := validateReps(p.Reps); err != nil {
		return err
	}
	if err := inRange("rest_seconds", p.RestSeconds, 0, 600); err != nil {
		return err
	}
	if err := optInRange("rpe", p.RPE, 6, 10); err != nil {
		return err
	}
	if err := optInRange("rir", p.RIR, 0, 5); err != nil {
		return err
	}
	if p.Tempo != "" {
		if _, err := ParseTempo(p.Tempo); err != nil {
			return err
		}
	}
	if p.Weight != nil && *p.Weight < 0 {
		return invalidf("weight must not be negative")
	}
	switch p.WeightUnit {
	case "", WeightKg, WeightLb, WeightPercent1RM:
	default:
		return invalidf("unknown weight_unit %q", p.WeightUnit)
	}
	if p.WeightUnit == WeightPercent1RM {
		if err := optInRange("weight", p.Weight, 0, 120); err != nil {
			return err
		}
	}
	if err := optInRange("drop_count", p.DropCount, 1, 5); err != nil {
		return err
	}
	if p.DropPercentage != nil && (*p.DropPercentage <= 0 || *p.DropPercentage >= 100) {
		return invalidf("drop_percentage must be between 0 and 100 exclusive")
	}
	if err := optInRange("rest_pause_seconds", p.RestPauseSeconds, 5, 60); err != nil {
		return err
	}
	if err := optInRange("cluster_reps", p.ClusterReps, 1, 10); err != nil {
		return err
	}
	if err := optInRange("cluster_rest", p.ClusterRest, 5, 60); err != nil {
		return err
	}
	if err := optInRange("bfr_pressure", p.BFRPressure, 50, 300); err != nil {
		return err
	}
	switch p.BFRCuffWidth {
	case "", "narrow", "wide":
	default:
		return invalidf("bfr_cuff_width must be narrow or wide")
	}
	if (p.QuaternaryExercise != "" && p.TertiaryExercise == "") || (p.TertiaryExercise != "" && p.SecondaryExercise == "") {
		return invalidf("companion exercises must be filled in order")
	}
	return nil
}

// WorkingReps is the rep count used for volume and time estimates: the lower bound of a range.
func (p *Resistance) WorkingReps() (int, bool) {
	return LeadingInt(p.Reps)
}

// LoadKg converts the prescribed weight to kilograms. ok is false when there is no absolute load.
func (p *Resistance) LoadKg() (float64, bool) {
	if p.Weight == nil {
		return 0, false
	}
	switch p.WeightUnit {
	case "", WeightKg:
		return *p.Weight, true
	case WeightLb:
		return *p.Weight * poundsToKg, true
	}
	return 0, false
}

// EffectiveRPE is the RPE, or 10-RIR when only RIR is prescribed.
func (p *Resistance) EffectiveRPE() (float64, bool) {
	if p.RPE != nil {
		return *p.RPE, true
	}
	if p.RIR != nil {
		return float64(10 - *p.RIR), true
	}
	return 0, false
}

const maxReps = 100

func validateReps(reps string) error {
	r := strings.TrimSpace(reps)
	if r == "" {
		return invalidf("reps is required")
	}
	switch strings.ToLower(r) {
	case "amrap", "max", "failure":
		return nil
	}
	lo, ok := LeadingInt(r)
	if !ok {
		return invalidf("reps %q must start with a number", reps)
	}
	if lo < 1 || lo > maxReps {
		return invalidf("reps lower bound must be between 1 and %d", maxReps)
	}
	if i := strings.Index(r, "-"); i >= 0 {
		hi, ok := LeadingInt(r[i+1:])
		if !ok || hi < lo || hi > maxReps {
			return invalidf("reps range %q is invalid", reps)
		}
	}
	return nil
}
