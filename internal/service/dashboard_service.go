package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/procurehq/lpoflow/internal/cache"
	"github.com/procurehq/lpoflow/internal/dashboard"
	"github.com/procurehq/lpoflow/internal/domain"
	"github.com/procurehq/lpoflow/internal/repository"
)

// DashboardService computes the dashboard summary from the current LPO
// collection: a stateless read+recompute, never a read-modify-write, so it
// tolerates concurrent writers. A store failure is surfaced, never masked
// with a zeroed aggregate.
type DashboardService struct {
	lpos  repository.LpoRepository
	cache cache.DashboardSummaryCache
}

func NewDashboardService(lpos repository.LpoRepository, summaryCache cache.DashboardSummaryCache) *DashboardService {
	return &DashboardService{lpos: lpos, cache: summaryCache}
}

func (s *DashboardService) GetSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	if summary, ok, err := s.cache.Get(ctx); err != nil {
		log.Warn().Err(err).Msg("dashboard cache read failed, recomputing")
	} else if ok {
		return summary, nil
	}

	lpos, err := s.lpos.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := dashboard.Aggregate(lpos)
	if err := s.cache.Set(ctx, summary); err != nil {
		log.Warn().Err(err).Msg("dashboard cache write failed")
	}
	return summary, nil
}

// Invalidate drops the cached summary. Called by the change-feed listener.
func (s *DashboardService) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx)
}
