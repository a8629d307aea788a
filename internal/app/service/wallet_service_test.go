package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Unix(1_700_000_000, 0)

func newTestWalletService(snap *fakeSnapshotter, fetch *fakeFetcher, formatter port.TransactionFormatter) port.WalletService {
	if formatter == nil {
		formatter = NewTransactionFormatter()
	}
	s := NewWalletService(snap, fetch, formatter, logger.NewNop())
	s.(*walletServiceImpl).now = func() time.Time { return fixedNow }
	return s
}

func TestGetWalletDashboardComposesSections(t *testing.T) {
	snap := &fakeSnapshotter{snapshot: entity.WalletSnapshot{
		Address:     testWallet,
		SOLBalance:  2,
		SOLPriceUSD: ptr(100.0),
		Tokens: []entity.TokenHolding{
			{Mint: "mintA", Amount: 10, PriceUSD: 1.5, ValueUSD: 15},
		},
	}}
	fetch := &fakeFetcher{txs: []entity.EnhancedTransaction{
		{Signature: "old", Timestamp: 100, NativeTransfers: []entity.NativeTransfer{nativeTransfer(other, string(testWallet), "1000000000")}},
		{Signature: "new", Timestamp: 300, NativeTransfers: []entity.NativeTransfer{nativeTransfer(string(testWallet), other, "500000000")}},
		{Signature: "old", Timestamp: 100, NativeTransfers: []entity.NativeTransfer{nativeTransfer(other, string(testWallet), "1000000000")}},
	}}

	d := newTestWalletService(snap, fetch, nil).GetWalletDashboard(context.Background(), testWallet, port.DashboardOptions{Days: 3})

	assert.Empty(t, d.Errors)
	assert.Equal(t, 3, fetch.days)
	assert.Equal(t, testWallet.String(), d.Wallet.Address)
	require.NotNil(t, d.Wallet.SOLBalance)
	assert.Equal(t, 2.0, *d.Wallet.SOLBalance)
	require.NotNil(t, d.Wallet.SOLValueUSD)
	assert.Equal(t, 200.0, *d.Wallet.SOLValueUSD)
	assert.Equal(t, 215.0, d.Wallet.TotalValueUSD)
	assert.False(t, d.Wallet.PriceDegraded)
	assert.Len(t, d.Wallet.Tokens, 1)

	require.Len(t, d.Transactions, 2)
	assert.Equal(t, "new", d.Transactions[0].Signature)
	assert.Equal(t, "old", d.Transactions[1].Signature)

	assert.Equal(t, []entity.BalancePoint{
		{Timestamp: 100, Balance: 1.5},
		{Timestamp: 100, Balance: 1.5},
		{Timestamp: 300, Balance: 2.5},
	}, d.Wallet.BalanceHistory)
	assert.Empty(t, snap.invalidated)
}

func TestGetWalletDashboardSnapshotFailure(t *testing.T) {
	snap := &fakeSnapshotter{err: errors.New("rpc down")}
	fetch := &fakeFetcher{txs: []entity.EnhancedTransaction{
		{Signature: "in", Timestamp: 50, NativeTransfers: []entity.NativeTransfer{nativeTransfer(other, string(testWallet), "1000000000")}},
	}}

	d := newTestWalletService(snap, fetch, nil).GetWalletDashboard(context.Background(), testWallet, port.DashboardOptions{Days: 1})

	assert.Equal(t, []string{entity.ErrMsgWalletAssets}, d.Errors)
	assert.Nil(t, d.Wallet.SOLBalance)
	assert.Nil(t, d.Wallet.SOLValueUSD)
	assert.Zero(t, d.Wallet.TotalValueUSD)
	assert.Equal(t, []entity.TokenHolding{}, d.Wallet.Tokens)
	assert.Len(t, d.Transactions, 1)
	// replayed from a zero balance
	assert.Equal(t, []entity.BalancePoint{
		{Timestamp: 50, Balance: -1},
		{Timestamp: 50, Balance: -1},
	}, d.Wallet.BalanceHistory)
}

func TestGetWalletDashboardFetchFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"signatures", &FetchError{Phase: PhaseSignatures, Err: errors.New("boom")}, entity.ErrMsgTransactionSigs},
		{"details", &FetchError{Phase: PhaseDetails, Err: errors.New("boom")}, entity.ErrMsgTransactionDetails},
		{"other", errors.New("boom"), entity.ErrMsgTransactionsGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := &fakeSnapshotter{snapshot: entity.WalletSnapshot{SOLBalance: 1}}
			fetch := &fakeFetcher{err: tt.err}

			d := newTestWalletService(snap, fetch, nil).GetWalletDashboard(context.Background(), testWallet, port.DashboardOptions{})

			assert.Equal(t, []string{tt.want}, d.Errors)
			assert.Nil(t, d.Transactions)
			assert.Equal(t, []entity.BalancePoint{}, d.Wallet.BalanceHistory)
			require.NotNil(t, d.Wallet.SOLBalance)
			assert.Equal(t, 1.0, *d.Wallet.SOLBalance)
		})
	}
}

func TestGetWalletDashboardBothFail(t *testing.T) {
	snap := &fakeSnapshotter{err: errors.New("rpc down")}
	fetch := &fakeFetcher{err: &FetchError{Phase: PhaseSignatures, Err: errors.New("boom")}}

	d := newTestWalletService(snap, fetch, nil).GetWalletDashboard(context.Background(), testWallet, port.DashboardOptions{})

	assert.Equal(t, []string{entity.ErrMsgWalletAssets, entity.ErrMsgTransactionSigs}, d.Errors)
}

func TestGetWalletDashboardRefreshAndDays(t *testing.T) {
	snap := &fakeSnapshotter{}
	fetch := &fakeFetcher{}

	d := newTestWalletService(snap, fetch, nil).GetWalletDashboard(context.Background(), testWallet, port.DashboardOptions{Days: 7, Refresh: true})

	assert.Equal(t, []entity.WalletAddress{testWallet}, snap.invalidated)
	assert.Equal(t, DefaultDays, fetch.days)
	assert.Equal(t, []entity.FormattedTransaction{}, d.Transactions)
	assert.Equal(t, []entity.BalancePoint{{Timestamp: fixedNow.Unix(), Balance: 0}}, d.Wallet.BalanceHistory)
}

func TestGetWalletDashboardDegradedPrice(t *testing.T) {
	snap := &fakeSnapshotter{snapshot: entity.WalletSnapshot{SOLBalance: 1, SOLPriceUSD: ptr(110.0), Degraded: true}}

	d := newTestWalletService(snap, &fakeFetcher{}, nil).GetWalletDashboard(context.Background(), testWallet, port.DashboardOptions{})

	assert.True(t, d.Wallet.PriceDegraded)
	assert.Equal(t, 110.0, d.Wallet.TotalValueUSD)
}

type failingFormatter struct {
	bad string
}

func (f failingFormatter) Format(tx entity.EnhancedTransaction, wallet entity.WalletAddress) (entity.FormattedTransaction, error) {
	if tx.Signature == f.bad {
		return entity.FormattedTransaction{}, errors.New("malformed")
	}
	return NewTransactionFormatter().Format(tx, wallet)
}

func TestGetWalletDashboardSkipsUnformattableRecords(t *testing.T) {
	fetch := &fakeFetcher{txs: []entity.EnhancedTransaction{
		{Signature: "good", Timestamp: 2},
		{Signature: "bad", Timestamp: 1},
	}}

	d := newTestWalletService(&fakeSnapshotter{}, fetch, failingFormatter{bad: "bad"}).
		GetWalletDashboard(context.Background(), testWallet, port.DashboardOptions{})

	require.Len(t, d.Transactions, 1)
	assert.Equal(t, "good", d.Transactions[0].Signature)
	assert.Empty(t, d.Errors)
}
