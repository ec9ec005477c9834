package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mansoorceksport/flexpro/internal/domain"
	log "github.com/sirupsen/logrus"
)

// CatalogService owns the normalized exercise catalog. The catalog is loaded lazily from the
// exercise repository and rebuilt after any write.
type CatalogService struct {
	exerciseRepo domain.ExerciseRepository
	cache        domain.AnalyticsCache // optional
	filterTTL    time.Duration

	mu      sync.RWMutex
	catalog *Catalog
}

func NewCatalogService(exerciseRepo domain.ExerciseRepository, cache domain.AnalyticsCache, filterTTL time.Duration) *CatalogService {
	return &CatalogService{
		exerciseRepo: exerciseRepo,
		cache:        cache,
		filterTTL:    filterTTL,
	}
}

// Catalog returns the current catalog, loading it on first use.
func (s *CatalogService) Catalog(ctx context.Context) (*Catalog, error) {
	s.mu.RLock()
	c := s.catalog
	s.mu.RUnlock()
	if c != nil {
		return c, nil
	}
	return s.Reload(ctx)
}

// Reload rebuilds the catalog from the repository.
func (s *CatalogService) Reload(ctx context.Context) (*Catalog, error) {
	raw, err := s.exerciseRepo.List(ctx, map[string]interface{}{})
	if err != nil {
		return nil, fmt.Errorf("failed to load exercise catalog: %w", err)
	}
	c := BuildCatalog(raw)

	s.mu.Lock()
	s.catalog = c
	s.mu.Unlock()

	log.WithFields(log.Fields{"exercises": c.Len(), "version": c.Version()}).Debug("exercise catalog loaded")
	return c, nil
}

func (s *CatalogService) invalidate() {
	s.mu.Lock()
	s.catalog = nil
	s.mu.Unlock()
}

// Filter returns the catalog records matching spec. Results are cached per catalog version,
// so a catalog change never serves stale matches.
func (s *CatalogService) Filter(ctx context.Context, spec domain.FilterSpec) ([]domain.ExerciseRecord, error) {
	c, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	key := spec.Key()

	if s.cache != nil {
		cached, err := s.cache.GetFilterResult(ctx, c.Version(), key)
		if err != nil {
			log.WithError(err).Warn("filter cache read failed")
		}
		if cached != nil {
			return cached, nil
		}
	}

	result := Filter(c.Records(), spec)

	if s.cache != nil {
		if err := s.cache.SetFilterResult(ctx, c.Version(), key, result, s.filterTTL); err != nil {
			log.WithError(err).Warn("filter cache write failed")
		}
	}
	return result, nil
}

// Lookup finds a catalog record by name or alternative name.
func (s *CatalogService) Lookup(ctx context.Context, name string) (domain.ExerciseRecord, error) {
	c, err := s.Catalog(ctx)
	if err != nil {
		return domain.ExerciseRecord{}, err
	}
	rec, ok := c.Lookup(name)
	if !ok {
		return domain.ExerciseRecord{}, domain.ErrExerciseNotFound
	}
	return rec, nil
}

// CreateExercise adds a raw exercise to the catalog.
func (s *CatalogService) CreateExercise(ctx context.Context, ex *domain.Exercise) error {
	if err := validateRawExercise(ex); err != nil {
		return err
	}
	c, err := s.Catalog(ctx)
	if err != nil {
		return err
	}
	if _, exists := c.Lookup(ex.Name); exists {
		return domain.ErrDuplicateExercise
	}

	now := time.Now()
	ex.CreatedAt = now
	ex.UpdatedAt = now
	if err := s.exerciseRepo.Create(ctx, ex); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// UpdateExercise replaces a raw exercise.
func (s *CatalogService) UpdateExercise(ctx context.Context, ex *domain.Exercise) error {
	if err := validateRawExercise(ex); err != nil {
		return err
	}
	existing, err := s.exerciseRepo.GetByID(ctx, ex.ID)
	if err != nil {
		return err
	}
	ex.CreatedAt = existing.CreatedAt
	ex.UpdatedAt = time.Now()
	if err := s.exerciseRepo.Update(ctx, ex); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *CatalogService) DeleteExercise(ctx context.Context, id string) error {
	if err := s.exerciseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func validateRawExercise(ex *domain.Exercise) error {
	if ex == nil || strings.TrimSpace(ex.Name) == "" {
		return fmt.Errorf("%w: exercise name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(ex.MuscleGroup) == "" {
		return fmt.Errorf("%w: muscle_group is required", domain.ErrValidation)
	}
	if ex.Category != "" {
		if _, err := domain.ParseDiscipline(ex.Category); err != nil {
			return err
		}
	}
	return nil
}
