package port

import (
	"context"

	"wallet_dashboard/internal/domain/entity"
)

// BalanceSnapshotter returns the current priced holdings of a wallet.
type BalanceSnapshotter interface {
	Snapshot(ctx context.Context, wallet entity.WalletAddress) (entity.WalletSnapshot, error)
	Invalidate(wallet entity.WalletAddress)
}

// TransactionFetcher returns enhanced transactions of a wallet within a lookback window.
type TransactionFetcher interface {
	FetchRecent(ctx context.Context, wallet entity.WalletAddress, days int) ([]entity.EnhancedTransaction, error)
}

// TransactionFormatter projects a raw record into its dashboard shape.
type TransactionFormatter interface {
	Format(tx entity.EnhancedTransaction, wallet entity.WalletAddress) (entity.FormattedTransaction, error)
}

// DashboardOptions tunes a single dashboard request.
type DashboardOptions struct {
	Days    int
	Refresh bool
}

// WalletService composes the full dashboard payload for a wallet.
type WalletService interface {
	GetWalletDashboard(ctx context.Context, wallet entity.WalletAddress, opts DashboardOptions) entity.WalletDashboard
}
