// Package cache keeps short-lived snapshots in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"shohorbari/internal/microservices/http-api/models"

	"github.com/redis/go-redis/v9"
)

const dashboardStatsKey = "shohorbari:dashboard:stats"

// NewRedisClient parses a redis:// URL and verifies the connection
func NewRedisClient(url, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// StatsCache stores the dashboard snapshot as JSON with a TTL. Redis failures
// are logged and reported as a miss so the dashboard falls back to the database.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewStatsCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *StatsCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsCache{client: client, ttl: ttl, logger: logger}
}

func (c *StatsCache) Get(ctx context.Context) (*models.DashboardStats, bool) {
	raw, err := c.client.Get(ctx, dashboardStatsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("stats cache read failed", "error", err)
		}
		return nil, false
	}

	var stats models.DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		c.logger.Warn("stats cache holds malformed snapshot", "error", err)
		return nil, false
	}
	return &stats, true
}

func (c *StatsCache) Set(ctx context.Context, stats *models.DashboardStats) {
	raw, err := json.Marshal(stats)
	if err != nil {
		c.logger.Warn("stats cache encode failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, dashboardStatsKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("stats cache write failed", "error", err)
	}
}
