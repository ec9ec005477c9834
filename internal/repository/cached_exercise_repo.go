package repository

import (
	"context"
	"time"

	"github.com/mansoorceksport/flexpro/internal/domain"
)

const (
	exerciseByIDKeyPrefix = "exercise:id:"
	exerciseCatalogKey    = "exercise:catalog"
	exerciseCacheTTL      = 30 * time.Minute
)

// CachedExerciseRepository wraps an exercise repository with Redis caching. Only lookups by
// id and the unfiltered catalog listing are cached; every write drops both.
type CachedExerciseRepository struct {
	repo  domain.ExerciseRepository
	cache *RedisCacheRepository
}

// NewCachedExerciseRepository creates a new cached exercise repository
func NewCachedExerciseRepository(repo domain.ExerciseRepository, cache *RedisCacheRepository) *CachedExerciseRepository {
	return &CachedExerciseRepository{
		repo:  repo,
		cache: cache,
	}
}

// GetByID retrieves an exercise with caching
func (r *CachedExerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	key := exerciseByIDKeyPrefix + id

	// Try cache first
	var ex domain.Exercise
	if err := r.cache.Get(ctx, key, &ex); err == nil {
		return &ex, nil
	}

	result, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Store in cache (ignore cache errors)
	_ = r.cache.Set(ctx, key, result, exerciseCacheTTL)

	return result, nil
}

// List serves the full catalog from cache; filtered listings go to the database
func (r *CachedExerciseRepository) List(ctx context.Context, filter map[string]interface{}) ([]*domain.Exercise, error) {
	if len(filter) > 0 {
		return r.repo.List(ctx, filter)
	}

	var exercises []*domain.Exercise
	if err := r.cache.Get(ctx, exerciseCatalogKey, &exercises); err == nil {
		return exercises, nil
	}

	result, err := r.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	_ = r.cache.Set(ctx, exerciseCatalogKey, result, exerciseCacheTTL)

	return result, nil
}

// Create creates an exercise and invalidates the catalog listing
func (r *CachedExerciseRepository) Create(ctx context.Context, ex *domain.Exercise) error {
	if err := r.repo.Create(ctx, ex); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, exerciseCatalogKey)
	return nil
}

// Update updates an exercise and invalidates caches
func (r *CachedExerciseRepository) Update(ctx context.Context, ex *domain.Exercise) error {
	if err := r.repo.Update(ctx, ex); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, exerciseByIDKeyPrefix+ex.ID, exerciseCatalogKey)
	return nil
}

// Delete deletes an exercise and invalidates caches
func (r *CachedExerciseRepository) Delete(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, exerciseByIDKeyPrefix+id, exerciseCatalogKey)
	return nil
}
