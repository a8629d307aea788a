package port

import "wallet_dashboard/internal/domain/entity"

// SnapshotCache is a TTL scoped store of unpriced ledger snapshots.
type SnapshotCache interface {
	Get(wallet entity.WalletAddress) (entity.LedgerSnapshot, bool)
	Put(wallet entity.WalletAddress, snapshot entity.LedgerSnapshot)
	Expire(wallet entity.WalletAddress)
}

// WalletProvider returns the wallets whose snapshots are pre-loaded at start-up.
type WalletProvider interface {
	GetWallets() ([]entity.WalletAddress, error)
}
