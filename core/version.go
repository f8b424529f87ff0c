package core

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// VersionCache remembers the daemon version for a while, the version command
// being far more expensive than a report cycle.
type VersionCache struct {
	cache *ttlcache.Cache[string, string]
}

func NewVersionCache(ttl time.Duration) *VersionCache {
	return &VersionCache{
		cache: ttlcache.New[string, string](
			ttlcache.WithTTL[string, string](ttl),
			ttlcache.WithDisableTouchOnHit[string, string](),
		),
	}
}

// Get returns the cached version or asks load for it. Failures are not cached.
func (v *VersionCache) Get(ctx context.Context, load func(ctx context.Context) (string, error)) (string, error) {
	if item := v.cache.Get("babeld"); item != nil {
		return item.Value(), nil
	}
	ver, err := load(ctx)
	if err != nil {
		return "", err
	}
	v.cache.Set("babeld", ver, ttlcache.DefaultTTL)
	return ver, nil
}

func babeldVersion(ctx context.Context, env *Env) (string, error) {
	if env.Version == nil {
		return env.Sys.BabeldVersion(ctx)
	}
	return env.Version.Get(ctx, env.Sys.BabeldVersion)
}
