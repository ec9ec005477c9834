package service

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/mansoorceksport/flexpro/internal/domain"
)

// Estimation constants for session duration and intensity.
const (
	setWorkSeconds            = 30 // resistance set without a tempo
	secondsPerContact         = 2
	correctiveFallbackSeconds = 60

	weightResistance = 0.6
	weightCardio     = 0.3
	weightPlyometric = 0.1
)

// ComputeAnalytics derives the summary of one day's entries. Legacy entries contribute through
// their uniform view. resolver may be nil, in which case only target muscles are used.
func ComputeAnalytics(entries []domain.Entry, resolver domain.MuscleResolver) domain.WorkoutAnalytics {
	acc := &analyticsAccumulator{
		resolver: resolver,
		muscles:  make(map[domain.MuscleGroup]*domain.MuscleBalance),
	}
	for _, e := range entries {
		switch {
		case e.Instance != nil:
			acc.current = e.Instance
			e.Instance.Accept(acc)
		case e.Legacy != nil:
			acc.addLegacy(e.Legacy)
		}
	}
	out := acc.result()
	out.TotalExercises = len(entries)
	return out
}

type average struct {
	sum float64
	n   int
}

func (a *average) add(v float64) { a.sum += v; a.n++ }
func (a average) value() float64 { return a.sum / float64(a.n) }

type analyticsAccumulator struct {
	resolver domain.MuscleResolver
	current  *domain.ExerciseInstance

	sets       int
	volume     float64
	hasVolume  bool
	unweighted int
	seconds    int

	resistanceRPE average
	cardioZone    average
	plyoLevel     average

	muscles map[domain.MuscleGroup]*domain.MuscleBalance
}

func (a *analyticsAccumulator) VisitResistance(p *domain.Resistance) {
	a.sets += p.Sets

	reps, repsOK := p.WorkingReps()
	if load, ok := p.LoadKg(); ok && repsOK {
		a.volume += float64(p.Sets*reps) * load
		a.hasVolume = true
	} else {
		a.unweighted++
	}

	work := setWorkSeconds
	if p.Tempo != "" && repsOK {
		if tempo, err := domain.ParseTempo(p.Tempo); err == nil {
			work = tempo.TUT(reps)
		}
	}
	a.seconds += p.Sets * (work + p.RestSeconds)

	if rpe, ok := p.EffectiveRPE(); ok {
		a.resistanceRPE.add(rpe)
	}
	a.attribute(a.current.ExerciseName, a.current.TargetMuscle, p.Sets)
}

func (a *analyticsAccumulator) VisitCardio(p *domain.Cardio) {
	a.seconds += p.DurationMinutes * 60
	if p.TargetHeartRateZone != nil {
		a.cardioZone.add(float64(*p.TargetHeartRateZone-1) / 4 * 10)
	}
	a.attribute(a.current.ExerciseName, a.current.TargetMuscle, 1)
}

func (a *analyticsAccumulator) VisitPlyometric(p *domain.Plyometric) {
	a.sets += p.Sets
	a.seconds += p.Sets * (p.Contacts*secondsPerContact + p.RestSeconds)
	if rank := p.Intensity.Rank(); rank >= 0 {
		a.plyoLevel.add(float64(rank) * 2.5)
	}
	a.attribute(a.current.ExerciseName, a.current.TargetMuscle, p.Sets)
}

func (a *analyticsAccumulator) VisitCorrective(p *domain.Corrective) {
	sets := 1
	if p.Sets != nil {
		sets = *p.Sets
	}
	switch {
	case p.DurationSeconds != nil:
		a.seconds += *p.DurationSeconds
	case p.HoldSeconds != nil:
		sides := 1
		if p.StretchSide == "both" {
			sides = 2
		}
		a.seconds += *p.HoldSeconds * sets * sides
	case p.BreathCount != nil:
		cycle, ok := p.BreathCycleSeconds()
		if !ok {
			cycle = 6
		}
		a.seconds += *p.BreathCount * cycle * sets
	default:
		a.seconds += correctiveFallbackSeconds * sets
	}
	a.attribute(a.current.ExerciseName, a.current.TargetMuscle, sets)
}

func (a *analyticsAccumulator) addLegacy(l *domain.LegacyRecord) {
	view := domain.ReadUniform(domain.LegacyEntry(l))
	sets := 0
	if view.Sets != nil {
		sets = *view.Sets
	}

	switch view.Discipline {
	case domain.DisciplineResistance:
		a.sets += sets
		a.unweighted++
		rest, _ := l.RestSeconds()
		a.seconds += sets * (setWorkSeconds + rest)
	case domain.DisciplineCardio:
		if minutes, ok := l.Int("duration"); ok {
			a.seconds += minutes * 60
		} else {
			a.seconds += correctiveFallbackSeconds
		}
	default:
		if hold, ok := l.Int("holdTime"); ok {
			a.seconds += hold * max(sets, 1)
		} else if minutes, ok := l.Int("duration"); ok {
			a.seconds += minutes * 60
		} else {
			a.seconds += correctiveFallbackSeconds
		}
	}
	a.attribute(view.ExerciseName, "", max(sets, 1))
}

func (a *analyticsAccumulator) attribute(name string, target domain.MuscleGroup, load int) {
	group := domain.MuscleUnclassified
	if m, ok := a.resolve(name); ok {
		group = m
	} else if target.Valid() {
		group = target
	}
	mb, ok := a.muscles[group]
	if !ok {
		mb = &domain.MuscleBalance{MuscleGroup: group}
		a.muscles[group] = mb
	}
	mb.ExerciseCount++
	mb.VolumeLoad += load
}

func (a *analyticsAccumulator) resolve(name string) (domain.MuscleGroup, bool) {
	if a.resolver == nil || name == "" {
		return "", false
	}
	return a.resolver.ResolveMuscle(name)
}

func (a *analyticsAccumulator) result() domain.WorkoutAnalytics {
	out := domain.WorkoutAnalytics{
		TotalSets:                a.sets,
		UnweightedExercises:      a.unweighted,
		EstimatedDurationMinutes: int(math.Ceil(float64(a.seconds) / 60)),
		MuscleBalance:            []domain.MuscleBalance{},
	}
	if a.hasVolume {
		v := round(a.volume, 2)
		out.TotalVolume = &v
	}

	var weighted, weights float64
	for _, c := range []struct {
		avg    average
		weight float64
	}{
		{a.resistanceRPE, weightResistance},
		{a.cardioZone, weightCardio},
		{a.plyoLevel, weightPlyometric},
	} {
		if c.avg.n == 0 {
			continue
		}
		weighted += c.avg.value() * c.weight
		weights += c.weight
	}
	if weights > 0 {
		score := round(weighted/weights, 1)
		out.IntensityScore = &score
		out.IntensityLabel = IntensityLabel(score)
	}

	total := 0
	for _, mb := range a.muscles {
		total += mb.VolumeLoad
	}
	for _, mb := range a.muscles {
		b := *mb
		if total > 0 {
			b.Percentage = round(float64(b.VolumeLoad)/float64(total)*100, 2)
		}
		out.MuscleBalance = append(out.MuscleBalance, b)
	}
	sort.Slice(out.MuscleBalance, func(i, j int) bool {
		bi, bj := out.MuscleBalance[i], out.MuscleBalance[j]
		if bi.VolumeLoad != bj.VolumeLoad {
			return bi.VolumeLoad > bj.VolumeLoad
		}
		return bi.MuscleGroup < bj.MuscleGroup
	})
	return out
}

// IntensityLabel buckets a 0-10 intensity score.
func IntensityLabel(score float64) string {
	switch {
	case score >= 8.5:
		return "Very High"
	case score >= 7:
		return "High"
	case score >= 5.5:
		return "Moderate"
	}
	return "Low"
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// AnalyticsEngine memoizes day analytics per store version.
type AnalyticsEngine struct {
	mu       sync.Mutex
	resolver domain.MuscleResolver
	memo     map[int]memoizedAnalytics
}

type memoizedAnalytics struct {
	version   uint64
	analytics domain.WorkoutAnalytics
}

func NewAnalyticsEngine(resolver domain.MuscleResolver) *AnalyticsEngine {
	return &AnalyticsEngine{resolver: resolver, memo: make(map[int]memoizedAnalytics)}
}

// SetResolver swaps the muscle resolver and drops memoized results.
func (a *AnalyticsEngine) SetResolver(resolver domain.MuscleResolver) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resolver = resolver
	a.memo = make(map[int]memoizedAnalytics)
}

// DayAnalytics returns the analytics of a day, computing them only when the store changed
// since the last call.
func (a *AnalyticsEngine) DayAnalytics(store *ProgramStore, day int) (domain.WorkoutAnalytics, error) {
	entries, version, err := store.DaySnapshot(day)
	if err != nil {
		return domain.WorkoutAnalytics{}, err
	}
	if cached, ok := a.Lookup(day, version); ok {
		return cached, nil
	}
	result := a.Compute(entries)
	a.Remember(day, version, result)
	return result, nil
}

// Lookup returns the memoized analytics of a day if they were computed at version.
func (a *AnalyticsEngine) Lookup(day int, version uint64) (domain.WorkoutAnalytics, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	m, ok := a.memo[day]
	if !ok || m.version != version {
		return domain.WorkoutAnalytics{}, false
	}
	return cloneAnalytics(m.analytics), true
}

func (a *AnalyticsEngine) Remember(day int, version uint64, analytics domain.WorkoutAnalytics) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.memo[day] = memoizedAnalytics{version: version, analytics: cloneAnalytics(analytics)}
}

func (a *AnalyticsEngine) Compute(entries []domain.Entry) domain.WorkoutAnalytics {
	a.mu.Lock()
	resolver := a.resolver
	a.mu.Unlock()
	return ComputeAnalytics(entries, resolver)
}

// DayFingerprint identifies the inputs of a day's analytics independently of any in-memory
// store: the serialized entries plus the catalog version used for muscle resolution.
func DayFingerprint(entries []domain.Entry, catalogVersion string) string {
	h := xxhash.New()
	_, _ = h.WriteString(catalogVersion)
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			continue
		}
		_, _ = h.Write(data)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

func cloneAnalytics(in domain.WorkoutAnalytics) domain.WorkoutAnalytics {
	out := in
	if in.TotalVolume != nil {
		v := *in.TotalVolume
		out.TotalVolume = &v
	}
	if in.IntensityScore != nil {
		s := *in.IntensityScore
		out.IntensityScore = &s
	}
	out.MuscleBalance = append([]domain.MuscleBalance{}, in.MuscleBalance...)
	return out
}
