package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maltedev/selector-discovery/internal/analyzer"
)

const keyPrefix = "selectors:domain:"

// ResultCache keeps recent discovery reports per domain so repeat requests
// for the same shop skip the fetch and analysis entirely.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func New(cfg Config, logger *slog.Logger) (*ResultCache, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = 6 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &ResultCache{
		client: client,
		ttl:    cfg.TTL,
		logger: logger.With("component", "result_cache"),
	}, nil
}

// NewWithClient wraps an existing client, used by tests.
func NewWithClient(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ResultCache {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ResultCache{
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "result_cache"),
	}
}

func (c *ResultCache) Close() error {
	return c.client.Close()
}

// Get returns the cached report for a domain, nil on a miss.
func (c *ResultCache) Get(ctx context.Context, domain string) (*analyzer.Report, error) {
	data, err := c.client.Get(ctx, keyPrefix+domain).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}

	var report analyzer.Report
	if err := json.Unmarshal(data, &report); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		c.logger.Warn("dropping corrupt cache entry", "domain", domain, "error", err)
		c.client.Del(ctx, keyPrefix+domain)
		return nil, nil
	}

	return &report, nil
}

// Set stores a report for a domain with the configured TTL.
func (c *ResultCache) Set(ctx context.Context, domain string, report *analyzer.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := c.client.Set(ctx, keyPrefix+domain, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}

	return nil
}

// Invalidate removes the cached report for a domain.
func (c *ResultCache) Invalidate(ctx context.Context, domain string) error {
	if err := c.client.Del(ctx, keyPrefix+domain).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return nil
}
