package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/utils"

	"golang.org/x/sync/errgroup"
)

// walletServiceImpl implements port.WalletService.
type walletServiceImpl struct {
	snapshotter port.BalanceSnapshotter
	fetcher     port.TransactionFetcher
	formatter   port.TransactionFormatter
	logger      port.Logger
	now         func() time.Time
}

// NewWalletService creates a new wallet dashboard composer.
func NewWalletService(
	snapshotter port.BalanceSnapshotter,
	fetcher port.TransactionFetcher,
	formatter port.TransactionFormatter,
	l port.Logger,
) port.WalletService {
	s := &walletServiceImpl{
		snapshotter: snapshotter,
		fetcher:     fetcher,
		formatter:   formatter,
		logger:      l,
		now:         time.Now,
	}
	l.Info("WalletService initialized")
	return s
}

// GetWalletDashboard implements port.WalletService. The snapshot and the transaction
// fetch run concurrently and a failure of one never cancels the other; each failed
// section is reported in the errors list and left null or empty.
func (s *walletServiceImpl) GetWalletDashboard(ctx context.Context, wallet entity.WalletAddress, opts port.DashboardOptions) entity.WalletDashboard {
	started := time.Now()
	days := NormalizeDays(opts.Days)
	if opts.Refresh {
		s.snapshotter.Invalidate(wallet)
	}

	var (
		snapshot    entity.WalletSnapshot
		snapshotErr error
		txs         []entity.EnhancedTransaction
		fetchErr    error
		g           errgroup.Group
	)
	g.Go(func() error {
		snapshot, snapshotErr = s.snapshotter.Snapshot(ctx, wallet)
		return nil
	})
	g.Go(func() error {
		txs, fetchErr = s.fetcher.FetchRecent(ctx, wallet, days)
		return nil
	})
	_ = g.Wait()

	dashboard := entity.NewWalletDashboard(wallet.String())

	var solBalance float64
	if snapshotErr != nil {
		s.logger.Error("Failed to fetch wallet assets", "wallet", wallet, "error", snapshotErr)
		dashboard.AddError(entity.ErrMsgWalletAssets)
	} else {
		solBalance = snapshot.SOLBalance
		s.applySnapshot(&dashboard, snapshot)
	}

	if fetchErr != nil {
		s.logger.Error("Failed to fetch transactions", "wallet", wallet, "days", days, "error", fetchErr)
		dashboard.AddError(fetchErrorMessage(fetchErr))
	} else {
		unique := utils.DedupeBy(txs, func(tx entity.EnhancedTransaction) string { return tx.Signature })
		sort.SliceStable(unique, func(i, j int) bool {
			return unique[i].Timestamp > unique[j].Timestamp
		})
		dashboard.Transactions = s.formatAll(unique, wallet)
		dashboard.Wallet.BalanceHistory = Reconstruct(unique, solBalance, wallet, s.now())
	}

	s.logger.Info("Wallet dashboard composed",
		"wallet", wallet,
		"days", days,
		"transactions", len(dashboard.Transactions),
		"errors", len(dashboard.Errors),
		"duration_ms", time.Since(started).Milliseconds())
	return dashboard
}

func (s *walletServiceImpl) applySnapshot(dashboard *entity.WalletDashboard, snapshot entity.WalletSnapshot) {
	balance := snapshot.SOLBalance
	dashboard.Wallet.SOLBalance = &balance

	total := snapshot.TokensValueUSD()
	if value, ok := snapshot.SOLValueUSD(); ok {
		dashboard.Wallet.SOLValueUSD = &value
		total += value
	}
	dashboard.Wallet.TotalValueUSD = total
	dashboard.Wallet.PriceDegraded = snapshot.Degraded
	if snapshot.Tokens != nil {
		dashboard.Wallet.Tokens = snapshot.Tokens
	}
}

func (s *walletServiceImpl) formatAll(txs []entity.EnhancedTransaction, wallet entity.WalletAddress) []entity.FormattedTransaction {
	formatted := make([]entity.FormattedTransaction, 0, len(txs))
	for _, tx := range txs {
		f, err := s.formatter.Format(tx, wallet)
		if err != nil {
			s.logger.Warn("Skipping transaction that failed to format", "signature", tx.Signature, "error", err)
			continue
		}
		formatted = append(formatted, f)
	}
	return formatted
}

func fetchErrorMessage(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		switch fe.Phase {
		case PhaseSignatures:
			return entity.ErrMsgTransactionSigs
		case PhaseDetails:
			return entity.ErrMsgTransactionDetails
		}
	}
	return entity.ErrMsgTransactionsGeneric
}
