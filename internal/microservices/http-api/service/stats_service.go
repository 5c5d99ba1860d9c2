package service

import (
	"context"
	"time"

	"shohorbari/internal/microservices/http-api/models"
	"shohorbari/internal/microservices/http-api/policy"
	"shohorbari/internal/microservices/http-api/repository"
)

// StatsCache keeps the last dashboard snapshot for a short while
type StatsCache interface {
	Get(ctx context.Context) (*models.DashboardStats, bool)
	Set(ctx context.Context, stats *models.DashboardStats)
}

type StatsService interface {
	Dashboard(ctx context.Context, p policy.Principal) (*models.DashboardStats, error)
}

type statsService struct {
	repo  repository.StatsRepository
	cache StatsCache
	now   func() time.Time
}

// NewStatsService wires the dashboard. cache may be nil.
func NewStatsService(repo repository.StatsRepository, cache StatsCache) StatsService {
	return &statsService{repo: repo, cache: cache, now: func() time.Time { return time.Now().UTC() }}
}

func (s *statsService) Dashboard(ctx context.Context, p policy.Principal) (*models.DashboardStats, error) {
	if err := policy.Authorize(p, policy.DashboardStats, nil); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if stats, ok := s.cache.Get(ctx); ok {
			return stats, nil
		}
	}

	stats, err := s.repo.DashboardCounts(ctx, Windows(s.now()))
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, stats)
	}
	return stats, nil
}

// Windows derives the dashboard date ranges from now. Calendar months are
// UTC months whatever zone now carries, and the previous month of January
// is December of the year before.
func Windows(now time.Time) repository.StatsWindows {
	now = now.UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return repository.StatsWindows{
		Last7DaysFrom:     now.Add(-7 * 24 * time.Hour),
		CurrentMonthFrom:  monthStart,
		NextMonthFrom:     monthStart.AddDate(0, 1, 0),
		PreviousMonthFrom: monthStart.AddDate(0, -1, 0),
	}
}
