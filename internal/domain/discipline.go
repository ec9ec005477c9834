package domain

import (
	"fmt"
	"strings"
)

// Discipline is the tag of an exercise instance and the category of a catalog record.
type Discipline string

const (
	DisciplineResistance Discipline = "resistance"
	DisciplineCardio     Discipline = "cardio"
	DisciplinePlyometric Discipline = "plyometric"
	DisciplineCorrective Discipline = "corrective"
)

// Disciplines lists every discipline in display order.
var Disciplines = []Discipline{
	DisciplineResistance,
	DisciplineCardio,
	DisciplinePlyometric,
	DisciplineCorrective,
}

func (d Discipline) Valid() bool {
	switch d {
	case DisciplineResistance, DisciplineCardio, DisciplinePlyometric, DisciplineCorrective:
		return true
	}
	return false
}

// ParseDiscipline converts free-form input into a Discipline.
func ParseDiscipline(s string) (Discipline, error) {
	d := Discipline(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDiscipline, s)
	}
	return d, nil
}

func errorf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
