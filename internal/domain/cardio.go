package domain

// CardioMethod is the conditioning protocol of a cardio prescription.
type CardioMethod string

const (
	CardioLISS          CardioMethod = "liss"
	CardioMISS          CardioMethod = "miss"
	CardioHIIT          CardioMethod = "hiit"
	CardioTabata        CardioMethod = "tabata"
	CardioEMOM          CardioMethod = "emom"
	CardioAMRAP         CardioMethod = "amrap"
	CardioFartlek       CardioMethod = "fartlek"
	CardioTempoRun      CardioMethod = "tempo_run"
	CardioIntervals     CardioMethod = "intervals"
	CardioCircuitCardio CardioMethod = "circuit_cardio"
)

func (m CardioMethod) Valid() bool {
	switch m {
	case CardioLISS, CardioMISS, CardioHIIT, CardioTabata, CardioEMOM, CardioAMRAP,
		CardioFartlek, CardioTempoRun, CardioIntervals, CardioCircuitCardio:
		return true
	}
	return false
}

// Cardio prescribes a timed conditioning block.
type Cardio struct {
	Method              CardioMethod `json:"cardio_method"`
	DurationMinutes     int          `json:"duration_minutes"`
	TargetHeartRateZone *int         `json:"target_heart_rate_zone,omitempty"`
	TargetHRMin         *int         `json:"target_hr_min,omitempty"`
	TargetHRMax         *int         `json:"target_hr_max,omitempty"`
	WorkDurationSeconds *int         `json:"work_duration_seconds,omitempty"`
	RestDurationSeconds *int         `json:"rest_duration_seconds,omitempty"`
	Intervals           *int         `json:"intervals,omitempty"`
	TargetSpeed         *float64     `json:"target_speed,omitempty"`
	TargetIncline       *float64     `json:"target_incline,omitempty"`
	TargetResistance    *int         `json:"target_resistance,omitempty"`
	TargetCadence       *int         `json:"target_cadence,omitempty"`
	TargetStrokeRate    *int         `json:"target_stroke_rate,omitempty"`
	TargetDistanceKm    *float64     `json:"target_distance_km,omitempty"`
}

func (p *Cardio) Discipline() Discipline       { return DisciplineCardio }
func (p *Cardio) Accept(v PrescriptionVisitor) { v.VisitCardio(p) }

func (p *Cardio) clonePrescription() Prescription {
	c := *p
	c.TargetHeartRateZone = clonePtr(p.TargetHeartRateZone)
	c.TargetHRMin = clonePtr(p.TargetHRMin)
	c.TargetHRMax = clonePtr(p.TargetHRMax)
	c.WorkDurationSeconds = clonePtr(p.WorkDurationSeconds)
	c.RestDurationSeconds = clonePtr(p.RestDurationSeconds)
	c.Intervals = clonePtr(p.Intervals)
	c.TargetSpeed = clonePtr(p.TargetSpeed)
	c.TargetIncline = clonePtr(p.TargetIncline)
	c.TargetResistance = clonePtr(p.TargetResistance)
	c.TargetCadence = clonePtr(p.TargetCadence)
	c.TargetStrokeRate = clonePtr(p.TargetStrokeRate)
	c.TargetDistanceKm = clonePtr(p.TargetDistanceKm)
	return &c
}

func (p *Cardio) Validate() error {
	if !p.Method.Valid() {
		return invalidf("unknown cardio_method %q", p.Method)
	}
	if err := inRange("duration_minutes", p.DurationMinutes, 1, 300); err != nil {
		return err
	}
	if err := optInRange("target_heart_rate_zone", p.TargetHeartRateZone, 1, 5); err != nil {
		return err
	}
	if (p.TargetHRMin == nil) != (p.TargetHRMax == nil) {
		return invalidf("target_hr_min and target_hr_max must be set together")
	}
	if p.TargetHRMin != nil {
		if err := inRange("target_hr_min", *p.TargetHRMin, 40, 230); err != nil {
			return err
		}
		if err := inRange("target_hr_max", *p.TargetHRMax, 40, 230); err != nil {
			return err
		}
		if *p.TargetHRMin >= *p.TargetHRMax {
			return invalidf("target_hr_min must be below target_hr_max")
		}
	}
	if p.TargetHeartRateZone == nil && p.TargetHRMin == nil {
		return invalidf("a heart rate zone or heart rate range is required")
	}
	if err := optInRange("work_duration_seconds", p.WorkDurationSeconds, 5, 600); err != nil {
		return err
	}
	if err := optInRange("rest_duration_seconds", p.RestDurationSeconds, 0, 600); err != nil {
		return err
	}
	if err := optInRange("intervals", p.Intervals, 1, 100); err != nil {
		return err
	}
	if err := optInRange("target_speed", p.TargetSpeed, 0, 40); err != nil {
		return err
	}
	if err := optInRange("target_incline", p.TargetIncline, 0, 30); err != nil {
		return err
	}
	if err := optInRange("target_resistance", p.TargetResistance, 1, 20); err != nil {
		return err
	}
	if err := optInRange("target_cadence", p.TargetCadence, 20, 200); err != nil {
		return err
	}
	if err := optInRange("target_stroke_rate", p.TargetStrokeRate, 10, 60); err != nil {
		return err
	}
	return optInRange("target_distance_km", p.TargetDistanceKm, 0, 100)
}
