package service

import (
	"context"
	"fmt"
	"time"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"
)

// FetchPhase names the step of a transaction fetch that failed.
type FetchPhase string

const (
	PhaseSignatures FetchPhase = "signatures"
	PhaseDetails    FetchPhase = "details"
)

// FetchError reports which phase of FetchRecent failed.
type FetchError struct {
	Phase FetchPhase
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch transaction %s: %v", e.Phase, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DefaultDays is the lookback window used for unsupported values.
const DefaultDays = 1

var allowedDays = map[int]struct{}{1: {}, 3: {}, 5: {}, 10: {}, 30: {}}

// NormalizeDays maps days onto one of the supported windows {1, 3, 5, 10, 30}.
func NormalizeDays(days int) int {
	if _, ok := allowedDays[days]; ok {
		return days
	}
	return DefaultDays
}

// transactionFetcherImpl implements port.TransactionFetcher.
type transactionFetcherImpl struct {
	ledger         port.LedgerClient
	indexer        port.TransactionIndexer
	signatureLimit int
	maxBatch       int
	logger         port.Logger
	now            func() time.Time
}

// NewTransactionFetcher creates a fetcher reading up to signatureLimit signatures and
// enriching at most maxBatch of them.
func NewTransactionFetcher(ledger port.LedgerClient, indexer port.TransactionIndexer, signatureLimit, maxBatch int, l port.Logger) port.TransactionFetcher {
	return &transactionFetcherImpl{
		ledger:         ledger,
		indexer:        indexer,
		signatureLimit: signatureLimit,
		maxBatch:       maxBatch,
		logger:         l,
		now:            time.Now,
	}
}

// FetchRecent implements port.TransactionFetcher. Signatures without a block time are kept.
// No signatures in the window yields an empty result without error.
func (f *transactionFetcherImpl) FetchRecent(ctx context.Context, wallet entity.WalletAddress, days int) ([]entity.EnhancedTransaction, error) {
	days = NormalizeDays(days)
	cutoff := f.now().Add(-time.Duration(days) * 24 * time.Hour).Unix()

	sigs, err := f.ledger.GetSignatures(ctx, wallet, f.signatureLimit)
	if err != nil {
		return nil, &FetchError{Phase: PhaseSignatures, Err: err}
	}

	seen := make(map[string]struct{}, len(sigs))
	recent := make([]string, 0, len(sigs))
	for _, sig := range sigs {
		if sig.BlockTime != nil && *sig.BlockTime < cutoff {
			continue
		}
		if _, dup := seen[sig.Signature]; dup {
			continue
		}
		seen[sig.Signature] = struct{}{}
		recent = append(recent, sig.Signature)
	}

	f.logger.Debug("Signatures fetched", "wallet", wallet, "days", days, "total", len(sigs), "in_window", len(recent))
	if len(recent) == 0 {
		return []entity.EnhancedTransaction{}, nil
	}
	if f.maxBatch > 0 && len(recent) > f.maxBatch {
		recent = recent[:f.maxBatch]
	}

	txs, err := f.indexer.GetEnhancedTransactions(ctx, recent)
	if err != nil {
		return nil, &FetchError{Phase: PhaseDetails, Err: err}
	}
	return txs, nil
}
