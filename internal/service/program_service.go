package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/mansoorceksport/flexpro/internal/domain"
	"github.com/oklog/ulid/v2"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// ProgramService edits training programs. A program is opened into an in-memory session that
// holds its ProgramStore; edits apply to the session and reach the database on Save.
type ProgramService struct {
	programRepo  domain.ProgramRepository
	catalog      *CatalogService
	cache        domain.AnalyticsCache   // optional
	reports      domain.ReportRepository // optional
	analyticsTTL time.Duration

	mu       sync.Mutex
	sessions map[string]*programSession
}

type programSession struct {
	store     *ProgramStore
	analytics *AnalyticsEngine

	mu             sync.Mutex
	program        domain.Program // metadata only; Days lives in store
	catalog        *Catalog
	catalogVersion string
}

func NewProgramService(
	programRepo domain.ProgramRepository,
	catalog *CatalogService,
	cache domain.AnalyticsCache,
	reports domain.ReportRepository,
	analyticsTTL time.Duration,
) *ProgramService {
	return &ProgramService{
		programRepo:  programRepo,
		catalog:      catalog,
		cache:        cache,
		reports:      reports,
		analyticsTTL: analyticsTTL,
		sessions:     make(map[string]*programSession),
	}
}

func startSpan(ctx context.Context, name, programID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("program.id", programID))
	return otel.Tracer("program-service").Start(ctx, name, trace.WithAttributes(attrs...))
}

// authorize checks that coachID owns the program. An empty coachID is used by maintenance
// tools and skips the check.
func authorize(p *domain.Program, coachID string) error {
	if coachID != "" && p.CoachID != coachID {
		return domain.ErrForbidden
	}
	return nil
}

// Create persists a new program owned by coachID and opens it.
func (s *ProgramService) Create(ctx context.Context, coachID string, p *domain.Program) (*domain.Program, error) {
	if p.Days == nil {
		p.Days = domain.ProgramDocument{}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	store, err := LoadProgramStore(p.Days)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p.ID = ulid.Make().String()
	p.CoachID = coachID
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Days = store.Document()

	if err := s.programRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}

	c, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	sess := newProgramSession(*p, store, c)

	s.mu.Lock()
	s.sessions[p.ID] = sess
	s.mu.Unlock()

	return sess.snapshot(), nil
}

func newProgramSession(p domain.Program, store *ProgramStore, c *Catalog) *programSession {
	p.Days = nil
	return &programSession{
		store:          store,
		analytics:      NewAnalyticsEngine(c),
		program:        p,
		catalog:        c,
		catalogVersion: c.Version(),
	}
}

// Open loads a program into a session, or returns the session already open. The program
// document and the catalog are fetched concurrently.
func (s *ProgramService) Open(ctx context.Context, coachID, programID string) error {
	_, err := s.session(ctx, coachID, programID)
	return err
}

func (s *ProgramService) session(ctx context.Context, coachID, programID string) (*programSession, error) {
	s.mu.Lock()
	sess, ok := s.sessions[programID]
	s.mu.Unlock()
	if ok {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		if err := authorize(&sess.program, coachID); err != nil {
			return nil, err
		}
		return sess, nil
	}

	ctx, span := startSpan(ctx, "ProgramService.Open", programID)
	defer span.End()

	var (
		program *domain.Program
		catalog *Catalog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.programRepo.GetByID(gctx, programID)
		if err != nil {
			return err
		}
		program = p
		return nil
	})
	g.Go(func() error {
		c, err := s.catalog.Catalog(gctx)
		if err != nil {
			return err
		}
		catalog = c
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := authorize(program, coachID); err != nil {
		return nil, err
	}

	store, err := LoadProgramStore(program.Days)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", programID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[programID]; ok {
		return existing, nil
	}
	sess = newProgramSession(*program, store, catalog)
	s.sessions[programID] = sess

	log.WithFields(log.Fields{"program_id": programID, "days": len(program.Days)}).Debug("program opened")
	return sess, nil
}

// Close drops the in-memory session without saving.
func (s *ProgramService) Close(programID string) {
	s.mu.Lock()
	delete(s.sessions, programID)
	s.mu.Unlock()
}

func (sess *programSession) snapshot() *domain.Program {
	sess.mu.Lock()
	p := sess.program
	sess.mu.Unlock()
	p.Days = sess.store.Document()
	return &p
}

// refreshCatalog points the session at the latest catalog when it changed since the last use.
func (s *ProgramService) refreshCatalog(ctx context.Context, sess *programSession) (*Catalog, error) {
	c, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.catalogVersion != c.Version() {
		sess.analytics.SetResolver(c)
		sess.catalog = c
		sess.catalogVersion = c.Version()
	}
	return c, nil
}

// Get returns the program metadata together with the current day document.
func (s *ProgramService) Get(ctx context.Context, coachID, programID string) (*domain.Program, error) {
	sess, err := s.session(ctx, coachID, programID)
	if err != nil {
		return nil, err
	}
	return sess.snapshot(), nil
}

func (s *ProgramService) List(ctx context.Context, coachID string) ([]*domain.Program, error) {
	return s.programRepo.ListByCoach(ctx, coachID)
}

// Save persists the session's current document.
func (s *ProgramService) Save(ctx context.Context, coachID, programID string) (*domain.Program, error) {
	ctx, span := startSpan(ctx, "ProgramService.Save", programID)
	defer span.End()

	sess, err := s.session(ctx, coachID, programID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	sess.program.UpdatedAt = time.Now()
	sess.mu.Unlock()

	p := sess.snapshot()
	if err := s.programRepo.Update(ctx, p); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to save program: %w", err)
	}
	return p, nil
}

// Delete removes the program, its session and its cached analytics.
func (s *ProgramService) Delete(ctx context.Context, coachID, programID string) error {
	if _, err := s.session(ctx, coachID, programID); err != nil {
		return err
	}
	if err := s.programRepo.Delete(ctx, programID); err != nil {
		return err
	}
	s.Close(programID)
	if s.cache != nil {
		if err := s.cache.InvalidateProgram(ctx, programID); err != nil {
			log.WithFields(log.Fields{"program_id": programID, "error": err}).Warn("failed to invalidate program analytics")
		}
	}
	return nil
}

// BuildInstance creates a default instance of the discipline and applies overrides to it.
// When the overrides name a catalog exercise without a target muscle, the catalog's
// primary muscle is used.
func (s *ProgramService) BuildInstance(ctx context.Context, discipline string, overrides domain.Patch) (*domain.ExerciseInstance, error) {
	d, err := domain.ParseDiscipline(discipline)
	if err != nil {
		return nil, err
	}
	inst, err := domain.NewDefault(d)
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		e, err := domain.CurrentEntry(inst).ApplyPatch(overrides)
		if err != nil {
			return nil, err
		}
		inst = e.Instance
	}
	if inst.ExerciseName != "" && inst.TargetMuscle == "" {
		if rec, err := s.catalog.Lookup(ctx, inst.ExerciseName); err == nil {
			inst.TargetMuscle = rec.PrimaryMuscle
			if inst.ExerciseID == "" {
				inst.ExerciseID = rec.ID
			}
		}
	}
	return inst, nil
}

func (s *ProgramService) InitializeDay(ctx context.Context, coachID, programID string, day int) error {
	sess, err := s.session(ctx, coachID, programID)
	if err != nil {
		return err
	}
	return sess.store.InitializeDay(day)
}

func (s *ProgramService) RemoveDay(ctx context.Context, coachID, programID string, day int) error {
	sess, err := s.session(ctx, coachID, programID)
	if err != nil {
		return err
	}
	return sess.store.RemoveDay(day)
}

func (s *ProgramService) CopyDay(ctx context.Context, coachID, programID string, from, to int) ([]domain.Entry, error) {
	sess, err := s.session(ctx, coachID, programID)
	if err != nil {
		return nil, err
	}
	return sess.store.CopyDay(from, to)
}

func (s *ProgramService) Day(ctx context.Context, coachID, programID string, day int) ([]domain.Entry, error) {
	sess, err := s.session(ctx, coachID, programID)
	if err != nil {
		return nil, err
	}
	return sess.store.Day(day)
}

func (s *ProgramService) AddExercise(ctx context.Context, coachID, programID string, day int, inst *domain.ExerciseInstance) (domain.Entry, error) {
	sess, err := s.session(ctx, coachID, programID)
	if err != nil {
		return domain.Entry{}, err
	}
	return sess.store.AddExercise(day, inst)
}

func (s *ProgramService) RemoveExercise(ctx context.Context, coachID, programID string, day, index int) (domain.Entry, error) {
	sess, err := s.session(ctx, coachID, programID)
	if err != nil {
		return domain.Entry{}, err
	}
	return sess.store.RemoveExercise(day, index)
}

func (s *ProgramService) UpdateExercise(ctx context.Context, coachID, programID string, day, index int, patch domain.Patch) (domain.Entry, error) {
	sess, err := s.session(ctx, coachID, programID)
	if err != nil {
		return domain.Entry{}, err
	}
	return sess.store.UpdateExercise(day, index, patch)
}

func (s *ProgramService) MoveExercise(ctx context.Context, coachID, programID string, day, from, to int) ([]domain.Entry, error) {
	sess, err := s.session(ctx, coachID, programID)
	if err != nil {
		return nil, err
	}
	return sess.store.MoveExercise(day, from, to)
}

func (s *ProgramService) DuplicateExercise(ctx context.Context, coachID, programID string, day, index int) (domain.Entry, error) {
	sess, err := s.session(ctx, coachID, programID)
	if err != nil {
		return domain.Entry{}, err
	}
	return sess.store.DuplicateExercise(day, index)
}

func (s *ProgramService) LinkSuperset(ctx context.Context, coachID, programID string, day, first, second int) error {
	sess, err := s.session(ctx, coachID, programID)
	if err != nil {
		return err
	}
	return sess.store.LinkSuperset(day, first, second)
}

func (s *ProgramService) UnlinkSuperset(ctx context.Context, coachID, programID string, day, index int) error {
	sess, err := s.session(ctx, coachID, programID)
	if err != nil {
		return err
	}
	return sess.store.UnlinkSuperset(day, index)
}

// Analytics returns the day's analytics. Results are memoized per store version in the
// session and shared through the cache keyed by the day's content fingerprint.
func (s *ProgramService) Analytics(ctx context.Context, coachID, programID string, day int) (*domain.WorkoutAnalytics, error) {
	ctx, span := startSpan(ctx, "ProgramService.Analytics", programID, attribute.Int("program.day", day))
	defer span.End()

	sess, err := s.session(ctx, coachID, programID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.refreshCatalog(ctx, sess)
	if err != nil {
		return nil, err
	}
	entries, version, err := sess.store.DaySnapshot(day)
	if err != nil {
		return nil, err
	}
	if a, ok := sess.analytics.Lookup(day, version); ok {
		span.SetAttributes(attribute.String("analytics.source", "memo"))
		return &a, nil
	}

	fields := log.Fields{"program_id": programID, "day": day}
	fingerprint := DayFingerprint(entries, catalog.Version())
	if s.cache != nil {
		cached, err := s.cache.GetDayAnalytics(ctx, programID, day, fingerprint)
		if err != nil {
			log.WithFields(fields).WithError(err).Warn("analytics cache read failed")
		}
		if cached != nil {
			span.SetAttributes(attribute.String("analytics.source", "cache"))
			sess.analytics.Remember(day, version, *cached)
			return cached, nil
		}
	}

	a := sess.analytics.Compute(entries)
	sess.analytics.Remember(day, version, a)
	span.SetAttributes(attribute.String("analytics.source", "computed"))

	if s.cache != nil {
		if err := s.cache.SetDayAnalytics(ctx, programID, day, fingerprint, &a, s.analyticsTTL); err != nil {
			log.WithFields(fields).WithError(err).Warn("analytics cache write failed")
		}
	}
	return &a, nil
}

// Suggestions proposes catalog exercises for the day.
func (s *ProgramService) Suggestions(ctx context.Context, coachID, programID string, day, limit int) ([]domain.ExerciseRecord, error) {
	sess, err := s.session(ctx, coachID, programID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.refreshCatalog(ctx, sess)
	if err != nil {
		return nil, err
	}
	entries, err := sess.store.Day(day)
	if err != nil {
		return nil, err
	}
	return Suggest(entries, catalog, limit), nil
}

// Report builds the session summary of a day.
func (s *ProgramService) Report(ctx context.Context, coachID, programID string, day int) (*domain.DayReport, error) {
	analytics, err := s.Analytics(ctx, coachID, programID, day)
	if err != nil {
		return nil, err
	}
	sess, err := s.session(ctx, coachID, programID)
	if err != nil {
		return nil, err
	}
	entries, err := sess.store.Day(day)
	if err != nil {
		return nil, err
	}

	views := make([]domain.NormalizedView, len(entries))
	for i, e := range entries {
		views[i] = domain.ReadUniform(e)
	}

	sess.mu.Lock()
	meta := sess.program
	sess.mu.Unlock()

	return &domain.DayReport{
		ProgramID:   meta.ID,
		ProgramName: meta.Name,
		ClientID:    meta.ClientID,
		Day:         day,
		Exercises:   views,
		Analytics:   *analytics,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// CanExport reports whether report storage is configured.
func (s *ProgramService) CanExport() bool {
	return s.reports != nil
}

// ExportReport uploads a report built by Report as JSON and returns its URL. The stored
// object is byte-for-byte the report the caller holds.
func (s *ProgramService) ExportReport(ctx context.Context, report *domain.DayReport) (string, error) {
	programID, day := report.ProgramID, report.Day
	ctx, span := startSpan(ctx, "ProgramService.ExportReport", programID, attribute.Int("program.day", day))
	defer span.End()

	if s.reports == nil {
		return "", fmt.Errorf("report storage is not configured")
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	key := fmt.Sprintf("reports/%s/day-%d-%s.json", programID, day, ulid.Make().String())
	url, err := s.reports.Upload(ctx, data, key, "application/json")
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to upload report: %w", err)
	}

	log.WithFields(log.Fields{"program_id": programID, "day": day, "key": key}).Info("day report exported")
	return url, nil
}
