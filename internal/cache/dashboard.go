package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/procurehq/lpoflow/internal/domain"
)

const (
	dashboardSummaryKey       = "dashboard:summary:current"
	dashboardSummaryKeyPrefix = "dashboard:summary"
	scanBatchSize             = 100
	defaultDashboardTTL       = time.Minute
)

// DashboardSummaryCache holds the last computed dashboard summary. The TTL
// bounds staleness between change notifications; every LPO mutation also
// invalidates explicitly.
type DashboardSummaryCache interface {
	Get(ctx context.Context) (*domain.DashboardSummary, bool, error)
	Set(ctx context.Context, summary *domain.DashboardSummary) error
	Invalidate(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

// NewDashboardCache wraps an existing redis client. TTL <= 0 falls back to
// one minute.
func NewDashboardCache(client *redis.Client, ttl time.Duration) DashboardSummaryCache {
	if ttl <= 0 {
		ttl = defaultDashboardTTL
	}
	return &redisDashboardCache{client: client, ttl: ttl}
}

// NewNoopDashboardCache is used when caching is disabled: every dashboard
// read recomputes from the store.
func NewNoopDashboardCache() DashboardSummaryCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) Get(ctx context.Context) (*domain.DashboardSummary, bool, error) {
	payload, err := c.client.Get(ctx, dashboardSummaryKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summary domain.DashboardSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false, fmt.Errorf("decode dashboard summary cache: %w", err)
	}

	return &summary, true, nil
}

func (c *redisDashboardCache) Set(ctx context.Context, summary *domain.DashboardSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode dashboard summary cache: %w", err)
	}

	if err := c.client.Set(ctx, dashboardSummaryKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisDashboardCache) Invalidate(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, dashboardSummaryKeyPrefix, scanBatchSize)
}

func (n *noopDashboardCache) Get(ctx context.Context) (*domain.DashboardSummary, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) Set(ctx context.Context, summary *domain.DashboardSummary) error {
	return nil
}

func (n *noopDashboardCache) Invalidate(ctx context.Context) error {
	return nil
}
