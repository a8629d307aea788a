package service

import (
	"context"
	"sync"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"
)

type fakeBatchSource struct {
	prices map[string]float64
	err    error
	calls  [][]string
}

func (f *fakeBatchSource) GetPrices(_ context.Context, ids []string) (map[string]float64, error) {
	f.calls = append(f.calls, ids)
	out := make(map[string]float64)
	for _, id := range ids {
		if p, ok := f.prices[id]; ok {
			out[id] = p
		}
	}
	return out, f.err
}

type fakeTokenSource struct {
	mu     sync.Mutex
	prices map[string]float64
	errs   map[string]error
	calls  []string
}

func (f *fakeTokenSource) GetTokenPrice(_ context.Context, mint string) (float64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, mint)
	if err := f.errs[mint]; err != nil {
		return 0, false, err
	}
	p, ok := f.prices[mint]
	return p, ok, nil
}

type fakeNativeSource struct {
	price float64
	err   error
	calls int
}

func (f *fakeNativeSource) GetNativePrice(context.Context) (float64, error) {
	f.calls++
	return f.price, f.err
}

type fakeLedger struct {
	lamports    uint64
	balanceErr  error
	accounts    []entity.TokenAccount
	accountsErr error
	sigs        []entity.SignatureInfo
	sigsErr     error
	calls       int
	mu          sync.Mutex
}

func (f *fakeLedger) GetNativeBalance(context.Context, entity.WalletAddress) (uint64, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.lamports, f.balanceErr
}

func (f *fakeLedger) GetTokenAccounts(context.Context, entity.WalletAddress) ([]entity.TokenAccount, error) {
	return f.accounts, f.accountsErr
}

func (f *fakeLedger) GetSignatures(context.Context, entity.WalletAddress, int) ([]entity.SignatureInfo, error) {
	return f.sigs, f.sigsErr
}

type fakeIndexer struct {
	txs       []entity.EnhancedTransaction
	err       error
	requested [][]string
}

func (f *fakeIndexer) GetEnhancedTransactions(_ context.Context, sigs []string) ([]entity.EnhancedTransaction, error) {
	f.requested = append(f.requested, sigs)
	return f.txs, f.err
}

type fakeResolver struct {
	resolution entity.PriceResolution
	requested  []string
	calls      int
}

func (f *fakeResolver) Resolve(_ context.Context, ids []string) entity.PriceResolution {
	f.calls++
	f.requested = ids
	return f.resolution
}

type mapCache struct {
	mu    sync.Mutex
	items map[entity.WalletAddress]entity.LedgerSnapshot
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[entity.WalletAddress]entity.LedgerSnapshot)}
}

func (c *mapCache) Get(w entity.WalletAddress) (entity.LedgerSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.items[w]
	return s, ok
}

func (c *mapCache) Put(w entity.WalletAddress, s entity.LedgerSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[w] = s
}

func (c *mapCache) Expire(w entity.WalletAddress) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, w)
}

type fakeSnapshotter struct {
	snapshot    entity.WalletSnapshot
	err         error
	invalidated []entity.WalletAddress
}

func (f *fakeSnapshotter) Snapshot(context.Context, entity.WalletAddress) (entity.WalletSnapshot, error) {
	return f.snapshot, f.err
}

func (f *fakeSnapshotter) Invalidate(w entity.WalletAddress) {
	f.invalidated = append(f.invalidated, w)
}

type fakeFetcher struct {
	txs  []entity.EnhancedTransaction
	err  error
	days int
}

func (f *fakeFetcher) FetchRecent(_ context.Context, _ entity.WalletAddress, days int) ([]entity.EnhancedTransaction, error) {
	f.days = days
	return f.txs, f.err
}

var (
	_ port.BatchPriceSource   = (*fakeBatchSource)(nil)
	_ port.TokenPriceSource   = (*fakeTokenSource)(nil)
	_ port.NativePriceSource  = (*fakeNativeSource)(nil)
	_ port.LedgerClient       = (*fakeLedger)(nil)
	_ port.TransactionIndexer = (*fakeIndexer)(nil)
	_ port.PriceResolver      = (*fakeResolver)(nil)
	_ port.SnapshotCache      = (*mapCache)(nil)
	_ port.BalanceSnapshotter = (*fakeSnapshotter)(nil)
	_ port.TransactionFetcher = (*fakeFetcher)(nil)
)

func nativeTransfer(from, to, lamports string) entity.NativeTransfer {
	return entity.NativeTransfer{FromUserAccount: from, ToUserAccount: to, Amount: entity.NewFlexNumber(lamports)}
}

func flex(raw string) *entity.FlexNumber {
	n := entity.NewFlexNumber(raw)
	return &n
}

func ptr[T any](v T) *T {
	return &v
}
