package database

import (
	"DentistAPI/config"
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// NewRedisClient creates a Redis client with the provided configuration and pings it.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, log *logrus.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.PoolSize = cfg.PoolSize
	opt.MinIdleConns = cfg.MinIdleConns
	opt.DialTimeout = cfg.DialTimeout
	opt.ReadTimeout = cfg.ReadTimeout
	opt.MaxRetries = cfg.MaxRetries

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis server: %w", err)
	}

	log.WithFields(logrus.Fields{
		"pool_size":      cfg.PoolSize,
		"min_idle_conns": cfg.MinIdleConns,
		"dial_timeout":   cfg.DialTimeout.String(),
		"read_timeout":   cfg.ReadTimeout.String(),
		"max_retries":    cfg.MaxRetries,
	}).Info("Redis client initialized")
	return client, nil
}

// LogRedisPool logs the connection pool statistics.
func LogRedisPool(client *redis.Client, log *logrus.Logger) {
	stats := client.PoolStats()
	log.WithFields(logrus.Fields{
		"total": stats.TotalConns,
		"idle":  stats.IdleConns,
		"stale": stats.StaleConns,
	}).Debug("Redis pool stats")
}
