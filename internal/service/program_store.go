package service

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mansoorceksport/flexpro/internal/domain"
)

// ProgramStore owns the ordered exercise lists of one program's training days.
// Every operation runs under the store lock and either applies completely or not at all;
// entries are deep-copied on the way in and on the way out.
type ProgramStore struct {
	mu      sync.RWMutex
	days    map[int][]domain.Entry
	version uint64
}

func NewProgramStore() *ProgramStore {
	return &ProgramStore{days: make(map[int][]domain.Entry)}
}

// LoadProgramStore builds a store from a persisted document. Order indices are rebuilt from
// list position, and missing or repeated instance ids are replaced. Stored prescriptions are
// not re-validated; only mutations are.
func LoadProgramStore(doc domain.ProgramDocument) (*ProgramStore, error) {
	s := NewProgramStore()
	for day, entries := range doc {
		if !domain.ValidDay(day) {
			return nil, fmt.Errorf("day %d: %w", day, domain.ErrInvalidDay)
		}
		seen := make(map[string]bool, len(entries))
		list := make([]domain.Entry, 0, len(entries))
		for _, e := range entries {
			if e.Instance == nil && e.Legacy == nil {
				continue
			}
			e = e.Clone()
			if id := e.ID(); id == "" || seen[id] {
				setEntryID(e, domain.NewInstanceID())
			}
			seen[e.ID()] = true
			list = append(list, e)
		}
		renumber(list)
		s.days[day] = list
	}
	s.version = 1
	return s, nil
}

// Version increases on every successful mutation.
func (s *ProgramStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// InitializeDay creates an empty day. Initializing an existing day leaves it unchanged.
func (s *ProgramStore) InitializeDay(day int) error {
	if !domain.ValidDay(day) {
		return fmt.Errorf("day %d: %w", day, domain.ErrInvalidDay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.days[day]; ok {
		return nil
	}
	s.days[day] = []domain.Entry{}
	s.version++
	return nil
}

func (s *ProgramStore) RemoveDay(day int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.dayLocked(day); err != nil {
		return err
	}
	delete(s.days, day)
	s.version++
	return nil
}

// Days lists initialized days in ascending order.
func (s *ProgramStore) Days() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	days := make([]int, 0, len(s.days))
	for d := range s.days {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

// Day returns a snapshot of a day's entries.
func (s *ProgramStore) Day(day int) ([]domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, err := s.dayLocked(day)
	if err != nil {
		return nil, err
	}
	return cloneEntries(list), nil
}

// DaySnapshot returns a day's entries together with the store version they belong to.
func (s *ProgramStore) DaySnapshot(day int) ([]domain.Entry, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, err := s.dayLocked(day)
	if err != nil {
		return nil, 0, err
	}
	return cloneEntries(list), s.version, nil
}

// Document returns a snapshot of every day.
func (s *ProgramStore) Document() domain.ProgramDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.ProgramDocument(s.days).Clone()
}

// AddExercise appends inst to the day.
func (s *ProgramStore) AddExercise(day int, inst *domain.ExerciseInstance) (domain.Entry, error) {
	if inst == nil {
		return domain.Entry{}, domain.ErrMissingPrescription
	}
	if err := inst.Validate(); err != nil {
		return domain.Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.dayLocked(day)
	if err != nil {
		return domain.Entry{}, err
	}
	for _, e := range list {
		if e.ID() == inst.ID {
			return domain.Entry{}, fmt.Errorf("%w: %s", domain.ErrDuplicateInstance, inst.ID)
		}
	}

	entry := domain.CurrentEntry(inst.Clone())
	entry.SetOrderIndex(len(list))
	s.days[day] = append(list, entry)
	s.version++
	return entry.Clone(), nil
}

// RemoveExercise deletes the entry at index and closes the gap.
func (s *ProgramStore) RemoveExercise(day, index int) (domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.dayLocked(day)
	if err != nil {
		return domain.Entry{}, err
	}
	if err := checkIndex(index, len(list)); err != nil {
		return domain.Entry{}, err
	}

	removed := list[index]
	next := make([]domain.Entry, 0, len(list)-1)
	next = append(next, list[:index]...)
	next = append(next, list[index+1:]...)
	clearSupersetPartner(next, removed.ID())
	renumber(next)

	s.days[day] = next
	s.version++
	return removed, nil
}

// UpdateExercise applies a shallow patch to the entry at index.
func (s *ProgramStore) UpdateExercise(day, index int, patch domain.Patch) (domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.dayLocked(day)
	if err != nil {
		return domain.Entry{}, err
	}
	if err := checkIndex(index, len(list)); err != nil {
		return domain.Entry{}, err
	}

	patched, err := list[index].ApplyPatch(patch)
	if err != nil {
		return domain.Entry{}, err
	}
	list[index] = patched
	s.version++
	return patched.Clone(), nil
}

// MoveExercise relocates the entry at from so that it ends up at to. A destination past
// either end of the list is clamped to it.
func (s *ProgramStore) MoveExercise(day, from, to int) ([]domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.dayLocked(day)
	if err != nil {
		return nil, err
	}
	if err := checkIndex(from, len(list)); err != nil {
		return nil, err
	}
	to = clamp(to, 0, len(list)-1)
	if from == to {
		return cloneEntries(list), nil
	}

	next := make([]domain.Entry, 0, len(list))
	next = append(next, list[:from]...)
	next = append(next, list[from+1:]...)
	next = append(next[:to], append([]domain.Entry{list[from]}, next[to:]...)...)
	renumber(next)

	s.days[day] = next
	s.version++
	return cloneEntries(next), nil
}

// DuplicateExercise inserts a copy of the entry at index directly after it, under a new id.
func (s *ProgramStore) DuplicateExercise(day, index int) (domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.dayLocked(day)
	if err != nil {
		return domain.Entry{}, err
	}
	if err := checkIndex(index, len(list)); err != nil {
		return domain.Entry{}, err
	}

	dup := list[index].Clone()
	setEntryID(dup, domain.NewInstanceID())
	if r := resistanceOf(dup); r != nil && r.SupersetWith != "" {
		unlink(r)
	}

	next := make([]domain.Entry, 0, len(list)+1)
	next = append(next, list[:index+1]...)
	next = append(next, dup)
	next = append(next, list[index+1:]...)
	renumber(next)

	s.days[day] = next
	s.version++
	return dup.Clone(), nil
}

// CopyDay appends copies of every entry of from to the end of to. Copies get new ids and
// superset links between copied entries are carried over to the copies.
func (s *ProgramStore) CopyDay(from, to int) ([]domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src, err := s.dayLocked(from)
	if err != nil {
		return nil, err
	}
	dst, err := s.dayLocked(to)
	if err != nil {
		return nil, err
	}

	idMap := make(map[string]string, len(src))
	copies := make([]domain.Entry, len(src))
	for i, e := range src {
		c := e.Clone()
		newID := domain.NewInstanceID()
		idMap[e.ID()] = newID
		setEntryID(c, newID)
		copies[i] = c
	}
	for _, c := range copies {
		if r := resistanceOf(c); r != nil && r.SupersetWith != "" {
			r.SupersetWith = idMap[r.SupersetWith]
		}
	}

	next := make([]domain.Entry, 0, len(dst)+len(copies))
	next = append(next, dst...)
	next = append(next, copies...)
	renumber(next)

	s.days[to] = next
	s.version++
	return cloneEntries(next), nil
}

// LinkSuperset pairs two resistance exercises of a day as a superset. Any earlier
// partner of either exercise is released.
func (s *ProgramStore) LinkSuperset(day, first, second int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.dayLocked(day)
	if err != nil {
		return err
	}
	if err := checkIndex(first, len(list)); err != nil {
		return err
	}
	if err := checkIndex(second, len(list)); err != nil {
		return err
	}
	if first == second {
		return domain.ErrSupersetMismatch
	}

	next := cloneEntries(list)
	a, b := resistanceOf(next[first]), resistanceOf(next[second])
	if a == nil || b == nil {
		return domain.ErrSupersetMismatch
	}
	aID, bID := next[first].ID(), next[second].ID()
	for _, old := range []string{a.SupersetWith, b.SupersetWith} {
		if old != "" && old != aID && old != bID {
			clearSupersetPartner(next, old)
			for _, e := range next {
				if e.ID() == old {
					unlink(resistanceOf(e))
				}
			}
		}
	}

	a.TrainingSystem, b.TrainingSystem = domain.SystemSuperset, domain.SystemSuperset
	a.SupersetWith, b.SupersetWith = bID, aID
	a.SecondaryExercise = next[second].ExerciseName()
	b.SecondaryExercise = next[first].ExerciseName()
	if err := a.Validate(); err != nil {
		return err
	}
	if err := b.Validate(); err != nil {
		return err
	}

	s.days[day] = next
	s.version++
	return nil
}

// UnlinkSuperset dissolves the superset the entry at index belongs to.
func (s *ProgramStore) UnlinkSuperset(day, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.dayLocked(day)
	if err != nil {
		return err
	}
	if err := checkIndex(index, len(list)); err != nil {
		return err
	}
	next := cloneEntries(list)
	r := resistanceOf(next[index])
	if r == nil || r.SupersetWith == "" {
		return domain.ErrSupersetMismatch
	}
	partner := r.SupersetWith
	unlink(r)
	for _, e := range next {
		if e.ID() == partner {
			unlink(resistanceOf(e))
		}
	}

	s.days[day] = next
	s.version++
	return nil
}

func (s *ProgramStore) dayLocked(day int) ([]domain.Entry, error) {
	if !domain.ValidDay(day) {
		return nil, fmt.Errorf("day %d: %w", day, domain.ErrInvalidDay)
	}
	list, ok := s.days[day]
	if !ok {
		return nil, fmt.Errorf("day %d: %w", day, domain.ErrDayNotInitialized)
	}
	return list, nil
}

func checkIndex(index, n int) error {
	if index < 0 || index >= n {
		return fmt.Errorf("index %d of %d: %w", index, n, domain.ErrIndexOutOfRange)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func renumber(list []domain.Entry) {
	for i, e := range list {
		e.SetOrderIndex(i)
	}
}

func cloneEntries(list []domain.Entry) []domain.Entry {
	out := make([]domain.Entry, len(list))
	for i, e := range list {
		out[i] = e.Clone()
	}
	return out
}

func setEntryID(e domain.Entry, id string) {
	if e.Instance != nil {
		e.Instance.ID = id
	} else if e.Legacy != nil {
		e.Legacy.ID = id
	}
}

func resistanceOf(e domain.Entry) *domain.Resistance {
	if e.Instance == nil {
		return nil
	}
	r, _ := e.Instance.Prescription.(*domain.Resistance)
	return r
}

func unlink(r *domain.Resistance) {
	if r == nil {
		return
	}
	r.SupersetWith = ""
	r.SecondaryExercise = ""
	if r.TrainingSystem == domain.SystemSuperset {
		r.TrainingSystem = domain.SystemStraightSet
	}
}

// clearSupersetPartner unlinks any entry that points at id.
func clearSupersetPartner(list []domain.Entry, id string) {
	for _, e := range list {
		if r := resistanceOf(e); r != nil && r.SupersetWith == id {
			unlink(r)
		}
	}
}
