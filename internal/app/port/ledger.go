package port

import (
	"context"

	"wallet_dashboard/internal/domain/entity"
)

// LedgerClient defines the read-only ledger queries used by the service.
// Implementations talk to a Solana JSON-RPC endpoint.
type LedgerClient interface {
	// GetNativeBalance returns the wallet balance in lamports.
	GetNativeBalance(ctx context.Context, wallet entity.WalletAddress) (uint64, error)

	// GetTokenAccounts returns the SPL token accounts owned by the wallet.
	// Accounts that cannot be parsed are omitted.
	GetTokenAccounts(ctx context.Context, wallet entity.WalletAddress) ([]entity.TokenAccount, error)

	// GetSignatures returns up to limit most recent signatures touching the wallet, newest first.
	GetSignatures(ctx context.Context, wallet entity.WalletAddress, limit int) ([]entity.SignatureInfo, error)
}

// TransactionIndexer returns enhanced transaction records for a batch of signatures.
type TransactionIndexer interface {
	GetEnhancedTransactions(ctx context.Context, signatures []string) ([]entity.EnhancedTransaction, error)
}
