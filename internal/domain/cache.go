package domain

import (
	"context"
	"time"
)

// AnalyticsCache keeps derived results that are cheap to lose: analytics snapshots keyed by
// program, day and a fingerprint of the day's content, and catalog filter results keyed by
// catalog version and spec.
// Getters return (nil, nil) on a miss.
type AnalyticsCache interface {
	GetDayAnalytics(ctx context.Context, programID string, day int, fingerprint string) (*WorkoutAnalytics, error)
	SetDayAnalytics(ctx context.Context, programID string, day int, fingerprint string, analytics *WorkoutAnalytics, ttl time.Duration) error
	InvalidateProgram(ctx context.Context, programID string) error

	GetFilterResult(ctx context.Context, catalogVersion, specKey string) ([]ExerciseRecord, error)
	SetFilterResult(ctx context.Context, catalogVersion, specKey string, records []ExerciseRecord, ttl time.Duration) error
}
