package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/stockpilot/backend/internal/infrastructure/config"
)

// SnapshotCacheFactory creates snapshot caches based on configuration
type SnapshotCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SnapshotCacheFactoryOption is a functional option for configuring the factory
type SnapshotCacheFactoryOption func(*SnapshotCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SnapshotCacheFactoryOption {
	return func(f *SnapshotCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) SnapshotCacheFactoryOption {
	return func(f *SnapshotCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSnapshotCacheFactory creates a new factory
func NewSnapshotCacheFactory(cfg config.RedisConfig, opts ...SnapshotCacheFactoryOption) *SnapshotCacheFactory {
	f := &SnapshotCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateCache creates a snapshot cache, preferring Redis. When Redis is not
// reachable and fallback is allowed, a process-local cache is returned
// instead; each instance then serves its own copy of the reports.
func (f *SnapshotCacheFactory) CreateCache() (SnapshotCache, error) {
	cache, err := NewRedisSnapshotCache(f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis snapshot cache", zap.String("addr", f.redisConfig.Addr()))
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for snapshot cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory snapshot cache",
		zap.Error(err),
	)
	return NewInMemorySnapshotCache(), nil
}
