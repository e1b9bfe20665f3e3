package cache

import (
	"context"
	"time"
)

// Well-known snapshot keys. Reports are invalidated as a group after every
// recalculation run, so the keys stay coarse.
const (
	KeyShortfallReport  = "stockpilot:report:shortfall"
	KeyMaterialReport   = "stockpilot:report:materials"
	KeyDashboardSummary = "stockpilot:report:dashboard"
)

// SnapshotCache stores serialized report payloads for the read-heavy
// dashboard endpoints. Entries are derived data: losing the cache is never
// more than a recomputation on the next read.
type SnapshotCache interface {
	// Get returns the cached payload for the key, or found=false when the
	// entry is missing or expired
	Get(ctx context.Context, key string) (payload []byte, found bool, err error)

	// Set stores the payload under the key for the given TTL
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// Invalidate removes the given keys
	Invalidate(ctx context.Context, keys ...string) error

	// Close releases any resources held by the cache
	Close() error
}
