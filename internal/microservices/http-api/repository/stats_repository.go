package repository

import (
	"context"
	"fmt"
	"time"

	"shohorbari/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// StatsWindows are the lower/upper bounds the dashboard counts against.
// Month ranges are half open: [start, end).
type StatsWindows struct {
	Last7DaysFrom     time.Time
	CurrentMonthFrom  time.Time
	NextMonthFrom     time.Time
	PreviousMonthFrom time.Time
}

type StatsRepository interface {
	DashboardCounts(ctx context.Context, w StatsWindows) (*models.DashboardStats, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

// DashboardCounts computes every counter in a single statement so they are
// consistent with each other.
func (r *statsRepository) DashboardCounts(ctx context.Context, w StatsWindows) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	err := r.db.WithContext(ctx).
		Model(&models.Advertisement{}).
		Select(`COUNT(*) AS total_ads,
			COUNT(CASE WHEN approved THEN 1 END) AS approved_ads,
			COUNT(CASE WHEN NOT approved THEN 1 END) AS pending_ads,
			COUNT(CASE WHEN created_at >= ? THEN 1 END) AS ads_last_7_days,
			COUNT(CASE WHEN created_at >= ? AND created_at < ? THEN 1 END) AS ads_current_month,
			COUNT(CASE WHEN created_at >= ? AND created_at < ? THEN 1 END) AS ads_last_month`,
			w.Last7DaysFrom,
			w.CurrentMonthFrom, w.NextMonthFrom,
			w.PreviousMonthFrom, w.CurrentMonthFrom,
		).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}
	return &stats, nil
}
