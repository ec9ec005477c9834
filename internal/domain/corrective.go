package domain

// CorrectiveType is the technique of a corrective prescription.
type CorrectiveType string

const (
	CorrectiveFoamRolling    CorrectiveType = "foam_rolling"
	CorrectiveStaticStretch  CorrectiveType = "static_stretch"
	CorrectiveDynamicStretch CorrectiveType = "dynamic_stretch"
	CorrectivePNFStretch     CorrectiveType = "pnf_stretch"
	CorrectiveActivation     CorrectiveType = "activation"
	CorrectiveStability      CorrectiveType = "stability"
	CorrectiveBreathing      CorrectiveType = "breathing"
	CorrectiveMobility       CorrectiveType = "mobility"
	CorrectiveActiveRelease  CorrectiveType = "active_release"
	CorrectiveNeuralFlossing CorrectiveType = "neural_flossing"
)

func (t CorrectiveType) Valid() bool {
	switch t {
	case CorrectiveFoamRolling, CorrectiveStaticStretch, CorrectiveDynamicStretch, CorrectivePNFStretch,
		CorrectiveActivation, CorrectiveStability, CorrectiveBreathing, CorrectiveMobility,
		CorrectiveActiveRelease, CorrectiveNeuralFlossing:
		return true
	}
	return false
}

func (t CorrectiveType) isStretch() bool {
	return t == CorrectiveStaticStretch || t == CorrectiveDynamicStretch || t == CorrectivePNFStretch
}

// NASMPhase is the step of the corrective exercise continuum.
type NASMPhase string

const (
	PhaseInhibit   NASMPhase = "inhibit"
	PhaseLengthen  NASMPhase = "lengthen"
	PhaseActivate  NASMPhase = "activate"
	PhaseIntegrate NASMPhase = "integrate"
)

// DefaultPhase is the continuum phase a corrective type normally belongs to.
func (t CorrectiveType) DefaultPhase() NASMPhase {
	switch t {
	case CorrectiveFoamRolling, CorrectiveActiveRelease, CorrectiveBreathing:
		return PhaseInhibit
	case CorrectiveStaticStretch, CorrectivePNFStretch, CorrectiveNeuralFlossing:
		return PhaseLengthen
	case CorrectiveActivation, CorrectiveStability:
		return PhaseActivate
	}
	return PhaseIntegrate
}

// Corrective prescribes inhibition, lengthening, activation or integration work.
type Corrective struct {
	CorrectiveType      CorrectiveType `json:"corrective_type"`
	NASMPhase           NASMPhase      `json:"nasm_phase,omitempty"`
	Sets                *int           `json:"sets,omitempty"`
	Reps                *int           `json:"reps,omitempty"`
	HoldSeconds         *int           `json:"hold_seconds,omitempty"`
	DurationSeconds     *int           `json:"duration_seconds,omitempty"`
	MovementDysfunction string         `json:"movement_dysfunction,omitempty"`

	// foam rolling
	Passes   *int   `json:"passes,omitempty"`
	Pressure string `json:"pressure,omitempty"`

	// stretching
	StretchSide string `json:"stretch_side,omitempty"`

	// breathing
	BreathCount       *int `json:"breath_count,omitempty"`
	InhaleSeconds     *int `json:"inhale_seconds,omitempty"`
	BreathHoldSeconds *int `json:"breath_hold_seconds,omitempty"`
	ExhaleSeconds     *int `json:"exhale_seconds,omitempty"`
}

func (p *Corrective) Discipline() Discipline       { return DisciplineCorrective }
func (p *Corrective) Accept(v PrescriptionVisitor) { v.VisitCorrective(p) }

func (p *Corrective) clonePrescription() Prescription {
	c := *p
	c.Sets = clonePtr(p.Sets)
	c.Reps = clonePtr(p.Reps)
	c.HoldSeconds = clonePtr(p.HoldSeconds)
	c.DurationSeconds = clonePtr(p.DurationSeconds)
	c.Passes = clonePtr(p.Passes)
	c.BreathCount = clonePtr(p.BreathCount)
	c.InhaleSeconds = clonePtr(p.InhaleSeconds)
	c.BreathHoldSeconds = clonePtr(p.BreathHoldSeconds)
	c.ExhaleSeconds = clonePtr(p.ExhaleSeconds)
	return &c
}

func (p *Corrective) Validate() error {
	if !p.CorrectiveType.Valid() {
		return invalidf("unknown corrective_type %q", p.CorrectiveType)
	}
	switch p.NASMPhase {
	case "", PhaseInhibit, PhaseLengthen, PhaseActivate, PhaseIntegrate:
	default:
		return invalidf("unknown nasm_phase %q", p.NASMPhase)
	}
	for _, c := range []struct {
		name   string
		v      *int
		lo, hi int
	}{
		{"sets", p.Sets, 1, 10},
		{"reps", p.Reps, 1, 50},
		{"hold_seconds", p.HoldSeconds, 1, 300},
		{"duration_seconds", p.DurationSeconds, 1, 1800},
		{"passes", p.Passes, 1, 30},
		{"breath_count", p.BreathCount, 1, 60},
		{"inhale_seconds", p.InhaleSeconds, 1, 20},
		{"breath_hold_seconds", p.BreathHoldSeconds, 0, 30},
		{"exhale_seconds", p.ExhaleSeconds, 1, 30},
	} {
		if err := optInRange(c.name, c.v, c.lo, c.hi); err != nil {
			return err
		}
	}

	if p.CorrectiveType != CorrectiveFoamRolling && (p.Passes != nil || p.Pressure != "") {
		return invalidf("passes and pressure only apply to foam_rolling")
	}
	switch p.Pressure {
	case "", "light", "moderate", "deep":
	default:
		return invalidf("pressure must be light, moderate or deep")
	}
	if !p.CorrectiveType.isStretch() && p.StretchSide != "" {
		return invalidf("stretch_side only applies to stretches")
	}
	switch p.StretchSide {
	case "", "left", "right", "both":
	default:
		return invalidf("stretch_side must be left, right or both")
	}
	if p.CorrectiveType != CorrectiveBreathing &&
		(p.BreathCount != nil || p.InhaleSeconds != nil || p.BreathHoldSeconds != nil || p.ExhaleSeconds != nil) {
		return invalidf("breathing fields only apply to breathing")
	}
	return nil
}

// BreathCycleSeconds is the length of one breath, when every phase is prescribed.
func (p *Corrective) BreathCycleSeconds() (int, bool) {
	if p.InhaleSeconds == nil || p.ExhaleSeconds == nil {
		return 0, false
	}
	hold := 0
	if p.BreathHoldSeconds != nil {
		hold = *p.BreathHoldSeconds
	}
	return *p.InhaleSeconds + hold + *p.ExhaleSeconds, true
}
