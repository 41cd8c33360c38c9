// internal/service/dashboard_service.go
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/samhanlabs/gmvboard/internal/cache"
	"github.com/samhanlabs/gmvboard/internal/domain"
)

// CampaignAnalytics is the read side of the campaign table.
type CampaignAnalytics interface {
	GetSummary(ctx context.Context, filter *domain.DashboardFilter) (*domain.DashboardSummary, error)
	GetTrend(ctx context.Context, filter *domain.DashboardFilter) ([]domain.TrendPoint, error)
	GetTopGroups(ctx context.Context, filter *domain.DashboardFilter, limit int) ([]domain.GroupSummary, error)
	ListByDate(ctx context.Context, reportDate string, typ domain.CampaignType) ([]domain.CampaignRecord, error)
}

type DashboardService struct {
	repo  CampaignAnalytics
	cache cache.DashboardCache
}

func NewDashboardService(repo CampaignAnalytics, c cache.DashboardCache) *DashboardService {
	if c == nil {
		c = cache.NewNoopDashboardCache()
	}
	return &DashboardService{repo: repo, cache: c}
}

// GetSummary is cache-aside: a cache failure falls through to the database.
func (s *DashboardService) GetSummary(ctx context.Context, filter *domain.DashboardFilter) (*domain.DashboardSummary, error) {
	if summary, ok, err := s.cache.GetSummary(ctx, filter); err != nil {
		log.Warn().Err(err).Msg("dashboard summary cache read failed")
	} else if ok {
		return summary, nil
	}

	summary, err := s.repo.GetSummary(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}

	if err := s.cache.SetSummary(ctx, filter, summary); err != nil {
		log.Warn().Err(err).Msg("dashboard summary cache write failed")
	}
	return summary, nil
}

func (s *DashboardService) GetTrend(ctx context.Context, filter *domain.DashboardFilter) ([]domain.TrendPoint, error) {
	if points, ok, err := s.cache.GetTrend(ctx, filter); err != nil {
		log.Warn().Err(err).Msg("dashboard trend cache read failed")
	} else if ok {
		return points, nil
	}

	points, err := s.repo.GetTrend(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("dashboard trend: %w", err)
	}

	if err := s.cache.SetTrend(ctx, filter, points); err != nil {
		log.Warn().Err(err).Msg("dashboard trend cache write failed")
	}
	return points, nil
}

func (s *DashboardService) GetTopGroups(ctx context.Context, filter *domain.DashboardFilter, limit int) ([]domain.GroupSummary, error) {
	groups, err := s.repo.GetTopGroups(ctx, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("dashboard groups: %w", err)
	}
	return groups, nil
}

func (s *DashboardService) ListByDate(ctx context.Context, reportDate string, typ domain.CampaignType) ([]domain.CampaignRecord, error) {
	records, err := s.repo.ListByDate(ctx, reportDate, typ)
	if err != nil {
		return nil, fmt.Errorf("list campaign records: %w", err)
	}
	return records, nil
}
