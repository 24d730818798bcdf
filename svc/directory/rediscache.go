package directory

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/venuekit/venuekit/pkg/logger"
	"github.com/venuekit/venuekit/pkg/tenant"
)

const cacheKeyPrefix = "venuekit:tenant:host:"

// CachedDirectory decorates a Directory with a shared Redis cache, so
// multiple backend instances resolve hot hosts without hitting the
// store-backed directory. The cache is best effort: any Redis fault
// falls through to the inner directory.
type CachedDirectory struct {
	inner  tenant.Directory
	client redis.UniversalClient
	ttl    time.Duration
	log    *slog.Logger
}

// NewCachedDirectory wraps inner with a Redis lookaside cache.
func NewCachedDirectory(inner tenant.Directory, client redis.UniversalClient, ttl time.Duration, log *slog.Logger) *CachedDirectory {
	return &CachedDirectory{inner: inner, client: client, ttl: ttl, log: log}
}

// Lookup consults the cache first, then the inner directory. Only
// positive results are cached; misses stay cheap against the in-memory
// inner directory anyway.
func (d *CachedDirectory) Lookup(ctx context.Context, host string) (*tenant.Tenant, error) {
	key := cacheKeyPrefix + tenant.NormalizeHost(host)

	raw, err := d.client.Get(ctx, key).Bytes()
	if err == nil {
		var t tenant.Tenant
		if err := json.Unmarshal(raw, &t); err == nil {
			return &t, nil
		}
		// Corrupt entry; drop it and fall through.
		d.client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		d.log.WarnContext(ctx, "tenant cache read failed", logger.Error(err))
	}

	t, err := d.inner.Lookup(ctx, host)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(t); err == nil {
		if err := d.client.Set(ctx, key, raw, d.ttl).Err(); err != nil {
			d.log.WarnContext(ctx, "tenant cache write failed", logger.Error(err))
		}
	}
	return t, nil
}

// Invalidate evicts one host's cached record, used by the
// tenant-management path after a domain change.
func (d *CachedDirectory) Invalidate(ctx context.Context, host string) error {
	return d.client.Del(ctx, cacheKeyPrefix+tenant.NormalizeHost(host)).Err()
}
