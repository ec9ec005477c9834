package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mansoorceksport/flexpro/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExerciseRepo struct {
	mu        sync.Mutex
	exercises map[string]*domain.Exercise
	order     []string
	lists     int
}

func newFakeExerciseRepo(exercises []*domain.Exercise) *fakeExerciseRepo {
	r := &fakeExerciseRepo{exercises: make(map[string]*domain.Exercise)}
	for _, ex := range exercises {
		r.exercises[ex.ID] = ex
		r.order = append(r.order, ex.ID)
	}
	return r
}

func (r *fakeExerciseRepo) Create(_ context.Context, ex *domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ex.ID == "" {
		ex.ID = fmt.Sprintf("ex-%d", len(r.exercises)+1)
	}
	cp := *ex
	r.exercises[ex.ID] = &cp
	r.order = append(r.order, ex.ID)
	return nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id string) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ex, ok := r.exercises[id]
	if !ok {
		return nil, domain.ErrExerciseNotFound
	}
	cp := *ex
	return &cp, nil
}

func (r *fakeExerciseRepo) List(_ context.Context, _ map[string]interface{}) ([]*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	out := make([]*domain.Exercise, 0, len(r.exercises))
	for _, id := range r.order {
		if ex, ok := r.exercises[id]; ok {
			cp := *ex
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, ex *domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *ex
	r.exercises[ex.ID] = &cp
	return nil
}

func (r *fakeExerciseRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.exercises, id)
	return nil
}

type fakeProgramRepo struct {
	mu       sync.Mutex
	programs map[string]*domain.Program
	gets     int
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{programs: make(map[string]*domain.Program)}
}

func copyProgram(p *domain.Program) *domain.Program {
	cp := *p
	cp.Days = p.Days.Clone()
	return &cp
}

func (r *fakeProgramRepo) Create(_ context.Context, p *domain.Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.programs[p.ID] = copyProgram(p)
	return nil
}

func (r *fakeProgramRepo) GetByID(_ context.Context, id string) (*domain.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	p, ok := r.programs[id]
	if !ok {
		return nil, domain.ErrProgramNotFound
	}
	return copyProgram(p), nil
}

func (r *fakeProgramRepo) Update(_ context.Context, p *domain.Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.programs[p.ID]; !ok {
		return domain.ErrProgramNotFound
	}
	r.programs[p.ID] = copyProgram(p)
	return nil
}

func (r *fakeProgramRepo) ListByCoach(_ context.Context, coachID string) ([]*domain.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Program
	for _, p := range r.programs {
		if p.CoachID == coachID {
			out = append(out, copyProgram(p))
		}
	}
	return out, nil
}

func (r *fakeProgramRepo) List(_ context.Context) ([]*domain.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Program
	for _, p := range r.programs {
		out = append(out, copyProgram(p))
	}
	return out, nil
}

func (r *fakeProgramRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.programs, id)
	return nil
}

type fakeCache struct {
	mu          sync.Mutex
	analytics   map[string]*domain.WorkoutAnalytics
	filters     map[string][]domain.ExerciseRecord
	sets        int
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		analytics: make(map[string]*domain.WorkoutAnalytics),
		filters:   make(map[string][]domain.ExerciseRecord),
	}
}

func analyticsKey(programID string, day int, fingerprint string) string {
	return fmt.Sprintf("%s:%d:%s", programID, day, fingerprint)
}

func (c *fakeCache) GetDayAnalytics(_ context.Context, programID string, day int, fingerprint string) (*domain.WorkoutAnalytics, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.analytics[analyticsKey(programID, day, fingerprint)]
	if !ok {
		return nil, nil
	}
	cp := cloneAnalytics(*a)
	return &cp, nil
}

func (c *fakeCache) SetDayAnalytics(_ context.Context, programID string, day int, fingerprint string, a *domain.WorkoutAnalytics, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := cloneAnalytics(*a)
	c.analytics[analyticsKey(programID, day, fingerprint)] = &cp
	c.sets++
	return nil
}

func (c *fakeCache) InvalidateProgram(_ context.Context, programID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.analytics {
		if strings.HasPrefix(k, programID+":") {
			delete(c.analytics, k)
		}
	}
	c.invalidated = append(c.invalidated, programID)
	return nil
}

func (c *fakeCache) GetFilterResult(_ context.Context, version, key string) ([]domain.ExerciseRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters[version+":"+key], nil
}

func (c *fakeCache) SetFilterResult(_ context.Context, version, key string, records []domain.ExerciseRecord, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters[version+":"+key] = records
	return nil
}

type fakeReports struct {
	mu      sync.Mutex
	uploads map[string][]byte
}

func (r *fakeReports) Upload(_ context.Context, file []byte, filename string, _ string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.uploads == nil {
		r.uploads = make(map[string][]byte)
	}
	r.uploads[filename] = file
	return "http://reports.local/" + filename, nil
}

type serviceFixture struct {
	programs  *fakeProgramRepo
	exercises *fakeExerciseRepo
	cache     *fakeCache
	reports   *fakeReports
	catalog   *CatalogService
	svc       *ProgramService
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		programs:  newFakeProgramRepo(),
		exercises: newFakeExerciseRepo(sampleExercises()),
		cache:     newFakeCache(),
		reports:   &fakeReports{},
	}
	f.catalog = NewCatalogService(f.exercises, f.cache, time.Minute)
	f.svc = NewProgramService(f.programs, f.catalog, f.cache, f.reports, time.Minute)
	return f
}

// restart simulates a new process sharing the same database and cache.
func (f *serviceFixture) restart() {
	f.catalog = NewCatalogService(f.exercises, f.cache, time.Minute)
	f.svc = NewProgramService(f.programs, f.catalog, f.cache, f.reports, time.Minute)
}

const coach = "coach-1"

func createProgram(t *testing.T, f *serviceFixture) *domain.Program {
	t.Helper()
	p, err := f.svc.Create(context.Background(), coach, &domain.Program{Name: "Push Pull", ClientID: "client-1", Goal: domain.GoalHypertrophy})
	require.NoError(t, err)
	return p
}

func TestProgramService_CreateAndGet(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	p := createProgram(t, f)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, coach, p.CoachID)

	_, err := f.svc.Create(ctx, coach, &domain.Program{})
	assert.Error(t, err)

	got, err := f.svc.Get(ctx, coach, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Push Pull", got.Name)
	assert.Empty(t, got.Days)

	_, err = f.svc.Get(ctx, "coach-2", p.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.Get(ctx, coach, "missing")
	assert.ErrorIs(t, err, domain.ErrProgramNotFound)
}

func TestProgramService_EditSaveAndReopen(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	p := createProgram(t, f)

	require.NoError(t, f.svc.InitializeDay(ctx, coach, p.ID, 1))
	inst, err := f.svc.BuildInstance(ctx, "resistance", domain.Patch{"exercise_name": "Barbell Bench Press", "weight": 60, "sets": 3})
	require.NoError(t, err)
	assert.Equal(t, domain.MuscleChest, inst.TargetMuscle)
	assert.Equal(t, "1", inst.ExerciseID)

	_, err = f.svc.AddExercise(ctx, coach, p.ID, 1, inst)
	require.NoError(t, err)
	row, err := f.svc.BuildInstance(ctx, "resistance", domain.Patch{"exercise_name": "Barbell Row", "weight": 80, "sets": 4, "reps": "8"})
	require.NoError(t, err)
	_, err = f.svc.AddExercise(ctx, coach, p.ID, 1, row)
	require.NoError(t, err)
	require.NoError(t, f.svc.LinkSuperset(ctx, coach, p.ID, 1, 0, 1))

	_, err = f.svc.AddExercise(ctx, "coach-2", p.ID, 1, domain.NewCardio())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	saved, err := f.svc.Save(ctx, coach, p.ID)
	require.NoError(t, err)
	require.Len(t, saved.Days[1], 2)

	f.restart()
	day, err := f.svc.Day(ctx, coach, p.ID, 1)
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, "Barbell Bench Press", day[0].ExerciseName())
	assert.Equal(t, day[1].ID(), day[0].Instance.Prescription.(*domain.Resistance).SupersetWith)

	moved, err := f.svc.MoveExercise(ctx, coach, p.ID, 1, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Barbell Row", "Barbell Bench Press"}, names(moved))
}

func TestProgramService_BuildInstanceRejectsBadOverrides(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	_, err := f.svc.BuildInstance(ctx, "yoga", nil)
	assert.ErrorIs(t, err, domain.ErrUnknownDiscipline)

	_, err = f.svc.BuildInstance(ctx, "cardio", domain.Patch{"type": "resistance"})
	assert.ErrorIs(t, err, domain.ErrTypeChange)

	_, err = f.svc.BuildInstance(ctx, "cardio", domain.Patch{"sets": 3})
	assert.ErrorIs(t, err, domain.ErrInvalidPrescription)

	inst, err := f.svc.BuildInstance(ctx, "plyometric", domain.Patch{"exercise_name": "Box Jump", "contacts": 8})
	require.NoError(t, err)
	assert.Equal(t, 8, inst.Prescription.(*domain.Plyometric).Contacts)
	assert.Equal(t, domain.MuscleQuadriceps, inst.TargetMuscle)
}

func TestProgramService_AnalyticsCaching(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	p := createProgram(t, f)
	require.NoError(t, f.svc.InitializeDay(ctx, coach, p.ID, 1))
	_, err := f.svc.AddExercise(ctx, coach, p.ID, 1, resistance("Barbell Bench Press", 3, "10", 60))
	require.NoError(t, err)

	a, err := f.svc.Analytics(ctx, coach, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, a.TotalSets)
	require.Len(t, a.MuscleBalance, 1)
	assert.Equal(t, domain.MuscleChest, a.MuscleBalance[0].MuscleGroup)
	assert.Equal(t, 1, f.cache.sets)

	_, err = f.svc.Analytics(ctx, coach, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.sets, "second read is served from the session memo")

	_, err = f.svc.Save(ctx, coach, p.ID)
	require.NoError(t, err)

	t.Run("another process reuses the snapshot", func(t *testing.T) {
		f.restart()
		_, err := f.svc.Analytics(ctx, coach, p.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, f.cache.sets)
	})

	t.Run("an edit produces a new snapshot", func(t *testing.T) {
		_, err := f.svc.UpdateExercise(ctx, coach, p.ID, 1, 0, domain.Patch{"sets": 5})
		require.NoError(t, err)
		a, err := f.svc.Analytics(ctx, coach, p.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, 5, a.TotalSets)
		assert.Equal(t, 2, f.cache.sets)
	})

	t.Run("catalog change reclassifies muscles", func(t *testing.T) {
		ex, err := f.exercises.GetByID(ctx, "1")
		require.NoError(t, err)
		ex.MuscleGroup = "Shoulders"
		require.NoError(t, f.catalog.UpdateExercise(ctx, ex))

		a, err := f.svc.Analytics(ctx, coach, p.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.MuscleShoulders, a.MuscleBalance[0].MuscleGroup)
	})
}

func TestProgramService_ExportReport(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	p := createProgram(t, f)
	require.NoError(t, f.svc.InitializeDay(ctx, coach, p.ID, 2))
	_, err := f.svc.AddExercise(ctx, coach, p.ID, 2, resistance("Back Squat", 5, "5", 100))
	require.NoError(t, err)

	built, err := f.svc.Report(ctx, coach, p.ID, 2)
	require.NoError(t, err)
	url, err := f.svc.ExportReport(ctx, built)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://reports.local/reports/"+p.ID+"/day-2-"))

	require.Len(t, f.reports.uploads, 1)
	for _, data := range f.reports.uploads {
		var report domain.DayReport
		require.NoError(t, json.Unmarshal(data, &report))
		assert.True(t, built.GeneratedAt.Equal(report.GeneratedAt), "uploaded report is the one returned")
		assert.Equal(t, "Push Pull", report.ProgramName)
		assert.Equal(t, 2, report.Day)
		require.Len(t, report.Exercises, 1)
		assert.Equal(t, "Back Squat", report.Exercises[0].ExerciseName)
		assert.Equal(t, 2500.0, *report.Analytics.TotalVolume)
	}

	_, err = f.svc.Report(ctx, coach, p.ID, 3)
	assert.ErrorIs(t, err, domain.ErrDayNotInitialized)
}

func TestProgramService_Suggestions(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	p := createProgram(t, f)
	require.NoError(t, f.svc.InitializeDay(ctx, coach, p.ID, 1))
	_, err := f.svc.AddExercise(ctx, coach, p.ID, 1, resistance("Back Squat", 5, "5", 100))
	require.NoError(t, err)

	got, err := f.svc.Suggestions(ctx, coach, p.ID, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Romanian Deadlift"}, recordNames(got))
}

func TestProgramService_Delete(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	p := createProgram(t, f)

	assert.ErrorIs(t, f.svc.Delete(ctx, "coach-2", p.ID), domain.ErrForbidden)
	require.NoError(t, f.svc.Delete(ctx, coach, p.ID))
	assert.Equal(t, []string{p.ID}, f.cache.invalidated)

	_, err := f.svc.Get(ctx, coach, p.ID)
	assert.ErrorIs(t, err, domain.ErrProgramNotFound)
}

func TestProgramService_ConcurrentOpenSharesSession(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	p := createProgram(t, f)
	require.NoError(t, f.svc.InitializeDay(ctx, coach, p.ID, 1))
	_, err := f.svc.Save(ctx, coach, p.ID)
	require.NoError(t, err)
	f.restart()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.AddExercise(ctx, coach, p.ID, 1, domain.NewResistance())
		}()
	}
	wg.Wait()

	day, err := f.svc.Day(ctx, coach, p.ID, 1)
	require.NoError(t, err)
	assert.Len(t, day, 10)
}

func TestCatalogService(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	spec := domain.FilterSpec{Muscles: []domain.MuscleGroup{domain.MuscleBack}}

	got, err := f.catalog.Filter(ctx, spec)
	require.NoError(t, err)
	assert.Equal(t, []string{"Barbell Row", "Pull Up"}, recordNames(got))
	assert.Len(t, f.cache.filters, 1)

	_, err = f.catalog.Filter(ctx, spec)
	require.NoError(t, err)
	assert.Equal(t, 1, f.exercises.lists, "catalog is loaded once")

	t.Run("duplicate names are rejected", func(t *testing.T) {
		err := f.catalog.CreateExercise(ctx, &domain.Exercise{Name: "pull up", MuscleGroup: "Back"})
		assert.ErrorIs(t, err, domain.ErrDuplicateExercise)
	})

	t.Run("writes rebuild the catalog", func(t *testing.T) {
		require.NoError(t, f.catalog.CreateExercise(ctx, &domain.Exercise{Name: "Lat Pulldown", MuscleGroup: "Lats", Equipment: "Cable"}))
		got, err := f.catalog.Filter(ctx, spec)
		require.NoError(t, err)
		assert.Contains(t, recordNames(got), "Lat Pulldown")
		assert.Len(t, f.cache.filters, 2, "new catalog version gets its own cache entry")
	})

	t.Run("validation", func(t *testing.T) {
		assert.Error(t, f.catalog.CreateExercise(ctx, &domain.Exercise{Name: "No Muscle"}))
		assert.Error(t, f.catalog.CreateExercise(ctx, &domain.Exercise{Name: "Bad", MuscleGroup: "Back", Category: "yoga"}))
	})
}
