package service

import (
	"context"
	"fmt"
	"time"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/utils"

	"github.com/shopspring/decimal"
)

// balanceSnapshotterImpl implements port.BalanceSnapshotter.
type balanceSnapshotterImpl struct {
	ledger port.LedgerClient
	prices port.PriceResolver
	cache  port.SnapshotCache
	logger port.Logger
	now    func() time.Time
}

// NewBalanceSnapshotter creates a snapshotter whose ledger reads go through cache.
func NewBalanceSnapshotter(ledger port.LedgerClient, prices port.PriceResolver, cache port.SnapshotCache, l port.Logger) port.BalanceSnapshotter {
	return &balanceSnapshotterImpl{
		ledger: ledger,
		prices: prices,
		cache:  cache,
		logger: l,
		now:    time.Now,
	}
}

// Snapshot implements port.BalanceSnapshotter. Only the ledger part is served from the
// cache; prices are resolved on every call. A failing ledger call fails the snapshot;
// missing prices only leave the affected values at zero.
func (s *balanceSnapshotterImpl) Snapshot(ctx context.Context, wallet entity.WalletAddress) (entity.WalletSnapshot, error) {
	ledger, err := s.ledgerSnapshot(ctx, wallet)
	if err != nil {
		return entity.WalletSnapshot{}, err
	}

	holdings := make([]entity.TokenHolding, 0, len(ledger.TokenAccounts))
	amounts := make([]decimal.Decimal, 0, len(ledger.TokenAccounts))
	mints := make([]string, 0, len(ledger.TokenAccounts))
	for _, acc := range ledger.TokenAccounts {
		amount, err := accountAmount(acc)
		if err != nil {
			s.logger.Warn("Skipping token account with invalid amount", "wallet", wallet, "account", acc.Pubkey, "mint", acc.Mint, "error", err)
			continue
		}
		if !amount.IsPositive() {
			continue
		}
		holdings = append(holdings, entity.TokenHolding{
			Mint:     acc.Mint,
			Amount:   amount.InexactFloat64(),
			Decimals: acc.Decimals,
		})
		amounts = append(amounts, amount)
		mints = append(mints, acc.Mint)
	}

	resolution := s.prices.Resolve(ctx, append([]string{entity.NativeAssetID}, mints...))
	for i := range holdings {
		quote, ok := resolution.Price(holdings[i].Mint)
		if !ok {
			continue
		}
		holdings[i].PriceUSD = quote.PriceUSD
		holdings[i].ValueUSD = amounts[i].Mul(decimal.NewFromFloat(quote.PriceUSD)).InexactFloat64()
	}

	snapshot := entity.WalletSnapshot{
		Address:      wallet,
		Lamports:     ledger.Lamports,
		SOLBalance:   utils.LamportsToSOL(ledger.Lamports).InexactFloat64(),
		Tokens:       holdings,
		PriceOutcome: resolution.Outcome,
		Degraded:     resolution.Degraded,
		TakenAt:      ledger.TakenAt,
	}
	if quote, ok := resolution.Price(entity.NativeAssetID); ok {
		price := quote.PriceUSD
		snapshot.SOLPriceUSD = &price
	}

	s.logger.Debug("Snapshot priced", "wallet", wallet, "lamports", ledger.Lamports, "tokens", len(holdings), "price_outcome", resolution.Outcome)
	return snapshot, nil
}

// ledgerSnapshot returns the cached ledger view of wallet or reads it from the ledger.
func (s *balanceSnapshotterImpl) ledgerSnapshot(ctx context.Context, wallet entity.WalletAddress) (entity.LedgerSnapshot, error) {
	if cached, ok := s.cache.Get(wallet); ok {
		s.logger.Debug("Ledger snapshot served from cache", "wallet", wallet, "taken_at", cached.TakenAt)
		return cached, nil
	}

	lamports, err := s.ledger.GetNativeBalance(ctx, wallet)
	if err != nil {
		return entity.LedgerSnapshot{}, fmt.Errorf("failed to get native balance for %s: %w", wallet, err)
	}
	accounts, err := s.ledger.GetTokenAccounts(ctx, wallet)
	if err != nil {
		return entity.LedgerSnapshot{}, fmt.Errorf("failed to get token accounts for %s: %w", wallet, err)
	}

	ledger := entity.LedgerSnapshot{
		Address:       wallet,
		Lamports:      lamports,
		TokenAccounts: accounts,
		TakenAt:       s.now(),
	}
	s.cache.Put(wallet, ledger)
	return ledger, nil
}

// Invalidate implements port.BalanceSnapshotter.
func (s *balanceSnapshotterImpl) Invalidate(wallet entity.WalletAddress) {
	s.cache.Expire(wallet)
}

// accountAmount converts the raw base unit amount, falling back to the UI amount string.
func accountAmount(acc entity.TokenAccount) (decimal.Decimal, error) {
	if acc.RawAmount == "" && acc.UIAmountString != "" {
		return decimal.NewFromString(acc.UIAmountString)
	}
	return utils.FromBaseUnits(acc.RawAmount, acc.Decimals)
}
