package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"wallet_dashboard/internal/app/port"

	"golang.org/x/sync/errgroup"
)

const defaultWarmupConcurrency = 4

// SnapshotWarmer pre-loads the ledger snapshot cache for a fixed list of wallets. Prices
// resolved during warm-up are discarded; requests resolve their own.
type SnapshotWarmer struct {
	wallets     port.WalletProvider
	snapshotter port.BalanceSnapshotter
	concurrency int
	logger      port.Logger
}

// NewSnapshotWarmer creates a warmer. A non-positive concurrency falls back to a small default.
func NewSnapshotWarmer(wallets port.WalletProvider, snapshotter port.BalanceSnapshotter, concurrency int, l port.Logger) *SnapshotWarmer {
	if concurrency <= 0 {
		concurrency = defaultWarmupConcurrency
	}
	return &SnapshotWarmer{
		wallets:     wallets,
		snapshotter: snapshotter,
		concurrency: concurrency,
		logger:      l,
	}
}

// Warm snapshots every listed wallet and returns how many succeeded. Per-wallet failures
// are logged and do not stop the run; only a failure to list wallets is returned.
func (w *SnapshotWarmer) Warm(ctx context.Context) (int, error) {
	started := time.Now()
	wallets, err := w.wallets.GetWallets()
	if err != nil {
		return 0, fmt.Errorf("failed to load warm-up wallets: %w", err)
	}

	var warmed atomic.Int64
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for _, wallet := range wallets {
		g.Go(func() error {
			if _, err := w.snapshotter.Snapshot(gCtx, wallet); err != nil {
				w.logger.Warn("Warm-up snapshot failed", "wallet", wallet, "error", err)
				return nil
			}
			warmed.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	w.logger.Info("Snapshot cache warm-up finished",
		"wallets", len(wallets),
		"warmed", warmed.Load(),
		"duration_ms", time.Since(started).Milliseconds())
	return int(warmed.Load()), nil
}
