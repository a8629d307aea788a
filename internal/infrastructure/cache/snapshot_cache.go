package cache

import (
	"sync"
	"time"

	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/metrics"

	gocache "github.com/patrickmn/go-cache"
)

// SnapshotCache stores unpriced ledger snapshots in memory for a fixed TTL. When maxEntries is
// reached the entry closest to expiry is evicted to make room.
type SnapshotCache struct {
	store      *gocache.Cache
	ttl        time.Duration
	maxEntries int
	mu         sync.Mutex // serializes capacity checks on Put
}

// NewSnapshotCache creates a cache with the given TTL, janitor interval and capacity.
// A maxEntries of 0 means unbounded.
func NewSnapshotCache(ttl, cleanupInterval time.Duration, maxEntries int) *SnapshotCache {
	return &SnapshotCache{
		store:      gocache.New(ttl, cleanupInterval),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

func (c *SnapshotCache) Get(wallet entity.WalletAddress) (entity.LedgerSnapshot, bool) {
	v, ok := c.store.Get(wallet.String())
	if !ok {
		metrics.SnapshotCacheLookups.WithLabelValues("miss").Inc()
		return entity.LedgerSnapshot{}, false
	}
	snapshot, ok := v.(entity.LedgerSnapshot)
	if !ok {
		metrics.SnapshotCacheLookups.WithLabelValues("miss").Inc()
		return entity.LedgerSnapshot{}, false
	}
	metrics.SnapshotCacheLookups.WithLabelValues("hit").Inc()
	return snapshot, true
}

func (c *SnapshotCache) Put(wallet entity.WalletAddress, snapshot entity.LedgerSnapshot) {
	key := wallet.String()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries > 0 {
		if _, exists := c.store.Get(key); !exists && c.store.ItemCount() >= c.maxEntries {
			c.store.DeleteExpired()
			if c.store.ItemCount() >= c.maxEntries {
				c.evictOldest()
			}
		}
	}
	c.store.Set(key, snapshot, c.ttl)
}

func (c *SnapshotCache) Expire(wallet entity.WalletAddress) {
	c.store.Delete(wallet.String())
}

// Len returns the number of stored ledger snapshots, including expired ones not yet cleaned up.
func (c *SnapshotCache) Len() int {
	return c.store.ItemCount()
}

func (c *SnapshotCache) evictOldest() {
	var (
		oldestKey string
		oldestExp int64
	)
	for k, item := range c.store.Items() {
		if oldestKey == "" || item.Expiration < oldestExp {
			oldestKey, oldestExp = k, item.Expiration
		}
	}
	if oldestKey != "" {
		c.store.Delete(oldestKey)
	}
}

// NopCache never stores anything; every Get is a miss.
type NopCache struct{}

func (NopCache) Get(entity.WalletAddress) (entity.LedgerSnapshot, bool) {
	return entity.LedgerSnapshot{}, false
}

func (NopCache) Put(entity.WalletAddress, entity.LedgerSnapshot) {}

func (NopCache) Expire(entity.WalletAddress) {}
