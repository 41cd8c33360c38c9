// internal/cache/dashboard.go
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/samhanlabs/gmvboard/internal/config"
	"github.com/samhanlabs/gmvboard/internal/domain"
)

const (
	dashboardKeyPrefix  = "gmv:dashboard"
	scanBatchSize       = 100
	defaultDashboardTTL = time.Minute
)

// DashboardCache caches KPI query results. Every ingest or delete for a
// report date invalidates the whole namespace; the data set is small
// enough that fine-grained invalidation isn't worth the bookkeeping.
type DashboardCache interface {
	GetSummary(ctx context.Context, filter *domain.DashboardFilter) (*domain.DashboardSummary, bool, error)
	SetSummary(ctx context.Context, filter *domain.DashboardFilter, summary *domain.DashboardSummary) error
	GetTrend(ctx context.Context, filter *domain.DashboardFilter) ([]domain.TrendPoint, bool, error)
	SetTrend(ctx context.Context, filter *domain.DashboardFilter, points []domain.TrendPoint) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.DashboardTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultDashboardTTL
	}

	return &redisDashboardCache{client: client, ttl: ttl}, nil
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

func buildKey(section string, filter *domain.DashboardFilter) string {
	payload, _ := json.Marshal(filter)
	sum := sha1.Sum(payload)
	return fmt.Sprintf("%s:%s:%s", dashboardKeyPrefix, section, hex.EncodeToString(sum[:]))
}

func (c *redisDashboardCache) get(ctx context.Context, key string, dest any) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode cached dashboard payload: %w", err)
	}
	return true, nil
}

func (c *redisDashboardCache) set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode dashboard payload: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisDashboardCache) GetSummary(ctx context.Context, filter *domain.DashboardFilter) (*domain.DashboardSummary, bool, error) {
	var summary domain.DashboardSummary
	ok, err := c.get(ctx, buildKey("summary", filter), &summary)
	if !ok || err != nil {
		return nil, false, err
	}
	return &summary, true, nil
}

func (c *redisDashboardCache) SetSummary(ctx context.Context, filter *domain.DashboardFilter, summary *domain.DashboardSummary) error {
	return c.set(ctx, buildKey("summary", filter), summary)
}

func (c *redisDashboardCache) GetTrend(ctx context.Context, filter *domain.DashboardFilter) ([]domain.TrendPoint, bool, error) {
	var points []domain.TrendPoint
	ok, err := c.get(ctx, buildKey("trend", filter), &points)
	if !ok || err != nil {
		return nil, false, err
	}
	return points, true, nil
}

func (c *redisDashboardCache) SetTrend(ctx context.Context, filter *domain.DashboardFilter, points []domain.TrendPoint) error {
	return c.set(ctx, buildKey("trend", filter), points)
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	pattern := dashboardKeyPrefix + "*"
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			return nil
		}
	}
}

func (noopDashboardCache) GetSummary(context.Context, *domain.DashboardFilter) (*domain.DashboardSummary, bool, error) {
	return nil, false, nil
}

func (noopDashboardCache) SetSummary(context.Context, *domain.DashboardFilter, *domain.DashboardSummary) error {
	return nil
}

func (noopDashboardCache) GetTrend(context.Context, *domain.DashboardFilter) ([]domain.TrendPoint, bool, error) {
	return nil, false, nil
}

func (noopDashboardCache) SetTrend(context.Context, *domain.DashboardFilter, []domain.TrendPoint) error {
	return nil
}

func (noopDashboardCache) InvalidateAll(context.Context) error { return nil }
