package elsewhere

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const NetworkCacheTTL = 24 * time.Hour

var ErrCacheMiss = errors.New("cache miss")

// Key-value store shared between processes. Get returns ErrCacheMiss for
// absent or expired keys.
//
// Every key has a generation bumped by Invalidate. A value computed before
// an invalidation must not be stored after it, so writers read the
// generation first and store with SetIfGeneration.
type CacheBackend interface {
	Get(ctx context.Context, key string) (string, error)

	// Zero for keys never invalidated.
	Generation(ctx context.Context, key string) (int64, error)

	// Stores value only if the generation of key still equals gen.
	// Reports whether the value was stored.
	SetIfGeneration(ctx context.Context, key string, value string, ttl time.Duration, gen int64) (bool, error)

	// Deletes the value and bumps the generation, atomically.
	Invalidate(ctx context.Context, key string) error
}

// Key holding the generation of key.
func GenerationKey(key string) string {
	return key + "_gen"
}

// NetworkCache keeps the slug -> network mapping of every network kind
// in the backend and rebuilds it from the store on miss.
type NetworkCache struct {
	Backend CacheBackend
	Store   NetworkStore
	// Defaults to NetworkCacheTTL.
	TTL time.Duration

	rebuilds singleflight.Group
}

var _ CacheInvalidator = (*NetworkCache)(nil)

func (c *NetworkCache) ttl() time.Duration {
	if c.TTL <= 0 {
		return NetworkCacheTTL
	}
	return c.TTL
}

// Get never fails. When the store can't be read it returns an empty map and
// leaves the key unset so the next call retries.
func (c *NetworkCache) Get(ctx context.Context, kind NetworkKind) NetworkMap {
	log := logrus.WithField("network_kind", kind)

	cached, err := c.cached(ctx, kind)
	switch {
	case err == nil && len(cached) > 0:
		return cached
	case err == nil, errors.Is(err, ErrCacheMiss):
		log.Debugln("Network cache miss.")
	default:
		log.WithError(err).Warningln("Could not read network cache, rebuilding.")
	}

	// shared by every waiting caller, must outlive the first one
	rebuildCtx := context.WithoutCancel(ctx)
	v, _, _ := c.rebuilds.Do(string(kind), func() (interface{}, error) {
		return c.rebuild(rebuildCtx, kind), nil
	})
	return v.(NetworkMap)
}

func (c *NetworkCache) cached(ctx context.Context, kind NetworkKind) (NetworkMap, error) {
	raw, err := c.Backend.Get(ctx, kind.CacheKey())
	if err != nil {
		return nil, err
	}
	var networks NetworkMap
	if err := json.Unmarshal([]byte(raw), &networks); err != nil {
		return nil, fmt.Errorf("deserialize networks: %w", err)
	}
	return networks, nil
}

func (c *NetworkCache) rebuild(ctx context.Context, kind NetworkKind) NetworkMap {
	log := logrus.WithField("network_kind", kind)

	gen, genErr := c.Backend.Generation(ctx, kind.CacheKey())
	if genErr != nil {
		log.WithError(genErr).Warningln("Could not read network cache generation.")
	}

	networks, err := c.Store.Networks(ctx, kind)
	if err != nil {
		if errors.Is(err, ErrStoreNotReady) {
			log.WithError(err).Debugln("Network store not ready, skipping cache fill.")
		} else {
			log.WithError(err).Errorln("Could not load networks.")
		}
		return NetworkMap{}
	}

	m := NewNetworkMap(networks)
	if genErr != nil {
		return m
	}
	serialized, err := json.Marshal(m)
	if err != nil {
		log.WithError(err).Errorln("Could not serialize networks.")
		return m
	}
	stored, err := c.Backend.SetIfGeneration(ctx, kind.CacheKey(), string(serialized), c.ttl(), gen)
	switch {
	case err != nil:
		log.WithError(err).Warningln("Could not store networks in cache.")
	case !stored:
		log.Debugln("Network cache invalidated during rebuild, result not stored.")
	default:
		log.WithField("networks", len(m)).Debugln("Network cache rebuilt.")
	}
	return m
}

func (c *NetworkCache) Invalidate(ctx context.Context, kind NetworkKind) error {
	if err := c.Backend.Invalidate(ctx, kind.CacheKey()); err != nil {
		return fmt.Errorf("invalidate %s: %w", kind.CacheKey(), err)
	}
	return nil
}

// Network id choices for profile forms.
func (c *NetworkCache) Choices(ctx context.Context, kind NetworkKind) []Choice {
	return c.Get(ctx, kind).Choices()
}
