package cache

import (
	"testing"
	"time"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ port.SnapshotCache = (*SnapshotCache)(nil)
	_ port.SnapshotCache = NopCache{}
)

func TestSnapshotCacheGetPutExpire(t *testing.T) {
	c := NewSnapshotCache(time.Minute, time.Minute, 10)
	wallet := entity.WalletAddress("wallet-a")

	_, ok := c.Get(wallet)
	assert.False(t, ok)

	c.Put(wallet, entity.LedgerSnapshot{Address: wallet, Lamports: 42})
	got, ok := c.Get(wallet)
	require.True(t, ok)
	assert.Equal(t, uint64(42), got.Lamports)

	c.Expire(wallet)
	_, ok = c.Get(wallet)
	assert.False(t, ok)
}

func TestSnapshotCacheTTL(t *testing.T) {
	c := NewSnapshotCache(20*time.Millisecond, time.Minute, 10)
	c.Put("wallet-a", entity.LedgerSnapshot{})

	assert.Eventually(t, func() bool {
		_, ok := c.Get("wallet-a")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestSnapshotCacheCapacity(t *testing.T) {
	c := NewSnapshotCache(time.Minute, time.Minute, 2)

	c.Put("wallet-a", entity.LedgerSnapshot{Lamports: 1})
	time.Sleep(2 * time.Millisecond)
	c.Put("wallet-b", entity.LedgerSnapshot{Lamports: 2})
	time.Sleep(2 * time.Millisecond)
	c.Put("wallet-c", entity.LedgerSnapshot{Lamports: 3})

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("wallet-a")
	assert.False(t, ok, "oldest entry is evicted")
	_, ok = c.Get("wallet-c")
	assert.True(t, ok)

	// overwriting an existing key never evicts
	c.Put("wallet-b", entity.LedgerSnapshot{Lamports: 20})
	assert.Equal(t, 2, c.Len())
	_, ok = c.Get("wallet-c")
	assert.True(t, ok)
}

func TestNopCache(t *testing.T) {
	var c NopCache
	c.Put("wallet-a", entity.LedgerSnapshot{})
	_, ok := c.Get("wallet-a")
	assert.False(t, ok)
}
