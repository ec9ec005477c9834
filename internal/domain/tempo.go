package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Tempo is a four-phase lifting cadence written "eccentric-pause-concentric-pause", e.g. "3-1-2-0".
// An "X" phase means explosive and counts as one second.
type Tempo struct {
	Eccentric   int `json:"eccentric"`
	PauseBottom int `json:"pause_bottom"`
	Concentric  int `json:"concentric"`
	PauseTop    int `json:"pause_top"`
}

func ParseTempo(s string) (Tempo, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 4 {
		return Tempo{}, invalidf("tempo %q must have four components", s)
	}
	vals := make([]int, 4)
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if strings.EqualFold(part, "x") {
			vals[i] = 1
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 10 {
			return Tempo{}, invalidf("tempo %q has invalid component %q", s, part)
		}
		vals[i] = n
	}
	return Tempo{Eccentric: vals[0], PauseBottom: vals[1], Concentric: vals[2], PauseTop: vals[3]}, nil
}

// RepSeconds is the time under tension of a single repetition.
func (t Tempo) RepSeconds() int {
	return t.Eccentric + t.PauseBottom + t.Concentric + t.PauseTop
}

// TUT is the time under tension of a set of reps.
func (t Tempo) TUT(reps int) int {
	return t.RepSeconds() * reps
}

func (t Tempo) String() string {
	return fmt.Sprintf("%d-%d-%d-%d", t.Eccentric, t.PauseBottom, t.Concentric, t.PauseTop)
}

// LeadingInt parses the integer prefix of a rep or rest expression: "8-12" is 8, "10" is 10,
// "45s" is 45. ok is false when the text does not start with a number.
func LeadingInt(s string) (n int, ok bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
