package domain

// PlyometricIntensity grades the ground-reaction demand of a jump drill.
type PlyometricIntensity string

const (
	PlyoLow      PlyometricIntensity = "low"
	PlyoModerate PlyometricIntensity = "moderate"
	PlyoHigh     PlyometricIntensity = "high"
	PlyoVeryHigh PlyometricIntensity = "very_high"
	PlyoShock    PlyometricIntensity = "shock"
)

// PlyometricIntensities is ordered from least to most demanding.
var PlyometricIntensities = []PlyometricIntensity{PlyoLow, PlyoModerate, PlyoHigh, PlyoVeryHigh, PlyoShock}

// Rank is the position of the level in PlyometricIntensities, or -1 when unknown.
func (i PlyometricIntensity) Rank() int {
	for n, l := range PlyometricIntensities {
		if l == i {
			return n
		}
	}
	return -1
}

type LandingType string

const (
	LandingStepDown LandingType = "step_down"
	LandingJumpDown LandingType = "jump_down"
	LandingRebound  LandingType = "rebound"
)

// Plyometric prescribes sets of ground contacts.
type Plyometric struct {
	Intensity    PlyometricIntensity `json:"intensity"`
	Sets         int                 `json:"sets"`
	Contacts     int                 `json:"contacts"`
	RestSeconds  int                 `json:"rest_seconds"`
	BoxHeightCm  *int                `json:"box_height_cm,omitempty"`
	DropHeightCm *int                `json:"drop_height_cm,omitempty"`
	LandingType  LandingType         `json:"landing_type,omitempty"`
	IsSingleLeg  bool                `json:"is_single_leg"`
}

func (p *Plyometric) Discipline() Discipline       { return DisciplinePlyometric }
func (p *Plyometric) Accept(v PrescriptionVisitor) { v.VisitPlyometric(p) }

func (p *Plyometric) clonePrescription() Prescription {
	c := *p
	c.BoxHeightCm = clonePtr(p.BoxHeightCm)
	c.DropHeightCm = clonePtr(p.DropHeightCm)
	return &c
}

func (p *Plyometric) Validate() error {
	if p.Intensity.Rank() < 0 {
		return invalidf("unknown plyometric intensity %q", p.Intensity)
	}
	if err := inRange("sets", p.Sets, 1, 10); err != nil {
		return err
	}
	if err := inRange("contacts", p.Contacts, 1, 50); err != nil {
		return err
	}
	if err := inRange("rest_seconds", p.RestSeconds, 0, 600); err != nil {
		return err
	}
	if err := optInRange("box_height_cm", p.BoxHeightCm, 10, 150); err != nil {
		return err
	}
	if err := optInRange("drop_height_cm", p.DropHeightCm, 10, 120); err != nil {
		return err
	}
	switch p.LandingType {
	case "", LandingStepDown, LandingJumpDown, LandingRebound:
		return nil
	}
	return invalidf("unknown landing_type %q", p.LandingType)
}
