package cache

import (
	"context"
	"time"

	"gokandara/backend/internal/domain"
)

// SummaryCache holds the computed dashboard summary between requests.
// Implementations return (nil, nil) on a miss; errors are reserved for
// backend failures so callers can fall through to a fresh computation.
type SummaryCache interface {
	Get(ctx context.Context) (*domain.DashboardSummary, error)
	Set(ctx context.Context, summary domain.DashboardSummary, ttl time.Duration) error
	Close() error
}

// Noop satisfies SummaryCache without storing anything. Used when no
// redis address is configured or the configured instance is unreachable.
type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) Get(context.Context) (*domain.DashboardSummary, error) { return nil, nil }

func (Noop) Set(context.Context, domain.DashboardSummary, time.Duration) error { return nil }

func (Noop) Close() error { return nil }
