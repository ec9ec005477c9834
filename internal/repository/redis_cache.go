package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mansoorceksport/flexpro/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	dayAnalyticsKeyPrefix = "analytics:day:"  // analytics:day:{program}:{day}:{fingerprint}
	filterResultKeyPrefix = "catalog:filter:" // catalog:filter:{catalog version}:{filter key}
)

// RedisCacheRepository implements domain.AnalyticsCache using Redis
type RedisCacheRepository struct {
	client *redis.Client
}

// NewRedisCacheRepository creates a new Redis cache repository
func NewRedisCacheRepository(client *redis.Client) *RedisCacheRepository {
	return &RedisCacheRepository{
		client: client,
	}
}

func dayAnalyticsKey(programID string, day int, fingerprint string) string {
	return fmt.Sprintf("%s%s:%d:%s", dayAnalyticsKeyPrefix, programID, day, fingerprint)
}

// GetDayAnalytics returns a cached analytics snapshot, or nil on a miss
func (r *RedisCacheRepository) GetDayAnalytics(ctx context.Context, programID string, day int, fingerprint string) (*domain.WorkoutAnalytics, error) {
	var analytics domain.WorkoutAnalytics
	if err := r.Get(ctx, dayAnalyticsKey(programID, day, fingerprint), &analytics); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return &analytics, nil
}

// SetDayAnalytics caches an analytics snapshot with TTL
func (r *RedisCacheRepository) SetDayAnalytics(ctx context.Context, programID string, day int, fingerprint string, analytics *domain.WorkoutAnalytics, ttl time.Duration) error {
	return r.Set(ctx, dayAnalyticsKey(programID, day, fingerprint), analytics, ttl)
}

// InvalidateProgram removes every analytics snapshot of a program
func (r *RedisCacheRepository) InvalidateProgram(ctx context.Context, programID string) error {
	return r.DeleteByPattern(ctx, dayAnalyticsKeyPrefix+programID+":*")
}

// GetFilterResult returns cached filter matches, or nil on a miss
func (r *RedisCacheRepository) GetFilterResult(ctx context.Context, catalogVersion, specKey string) ([]domain.ExerciseRecord, error) {
	var records []domain.ExerciseRecord
	if err := r.Get(ctx, filterResultKeyPrefix+catalogVersion+":"+specKey, &records); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	if records == nil {
		records = []domain.ExerciseRecord{}
	}
	return records, nil
}

// SetFilterResult caches filter matches with TTL
func (r *RedisCacheRepository) SetFilterResult(ctx context.Context, catalogVersion, specKey string, records []domain.ExerciseRecord, ttl time.Duration) error {
	return r.Set(ctx, filterResultKeyPrefix+catalogVersion+":"+specKey, records, ttl)
}

// =============================================================================
// Generic Cache Operations with OpenTelemetry Tracing
// =============================================================================

var ErrCacheMiss = fmt.Errorf("cache miss")

// Get retrieves a value from cache by key with OTel tracing
func (r *RedisCacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	tracer := otel.Tracer("redis")
	ctx, span := tracer.Start(ctx, "redis.Get",
		trace.WithAttributes(attribute.String("cache.key", key)),
	)
	defer span.End()

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			span.SetAttributes(attribute.String("cache.result", "miss"))
			return ErrCacheMiss
		}
		span.RecordError(err)
		return fmt.Errorf("redis get error: %w", err)
	}

	span.SetAttributes(attribute.String("cache.result", "hit"))
	if err := json.Unmarshal(data, dest); err != nil {
		span.RecordError(err)
		return fmt.Errorf("unmarshal error: %w", err)
	}

	return nil
}

// Set stores a value in cache with TTL and OTel tracing
func (r *RedisCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	tracer := otel.Tracer("redis")
	ctx, span := tracer.Start(ctx, "redis.Set",
		trace.WithAttributes(
			attribute.String("cache.key", key),
			attribute.Int64("cache.ttl_seconds", int64(ttl.Seconds())),
		),
	)
	defer span.End()

	data, err := json.Marshal(value)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("marshal error: %w", err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis set error: %w", err)
	}

	return nil
}

// Delete removes keys from cache with OTel tracing
func (r *RedisCacheRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	tracer := otel.Tracer("redis")
	ctx, span := tracer.Start(ctx, "redis.Delete",
		trace.WithAttributes(attribute.Int("cache.key_count", len(keys))),
	)
	defer span.End()

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis delete error: %w", err)
	}

	return nil
}

// DeleteByPattern removes keys matching a pattern, walking the keyspace with SCAN
func (r *RedisCacheRepository) DeleteByPattern(ctx context.Context, pattern string) error {
	tracer := otel.Tracer("redis")
	ctx, span := tracer.Start(ctx, "redis.DeleteByPattern",
		trace.WithAttributes(attribute.String("cache.pattern", pattern)),
	)
	defer span.End()

	var keys []string
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis scan error: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	span.SetAttributes(attribute.Int("cache.matched_keys", len(keys)))
	return r.client.Del(ctx, keys...).Err()
}
