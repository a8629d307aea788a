package service

import (
	"sort"
	"time"

	"wallet_dashboard/internal/domain/entity"

	"github.com/shopspring/decimal"
)

var lamportsPerSOL = decimal.New(1, entity.NativeDecimals)

// Reconstruct replays native transfers backward from currentBalance and returns the
// balance series in ascending time order. Only the first native transfer of each
// transaction is considered; token transfers and swaps are not reflected.
//
// The series always ends with a point at the earliest transaction timestamp, or at now
// when there are no transactions.
func Reconstruct(txs []entity.EnhancedTransaction, currentBalance float64, wallet entity.WalletAddress, now time.Time) []entity.BalancePoint {
	sorted := make([]entity.EnhancedTransaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp > sorted[j].Timestamp
	})

	address := wallet.String()
	running := decimal.NewFromFloat(currentBalance)
	points := make([]entity.BalancePoint, 0, len(sorted)+1)

	for _, tx := range sorted {
		if len(tx.NativeTransfers) == 0 {
			continue
		}
		transfer := tx.NativeTransfers[0]
		lamports, err := transfer.Amount.Decimal()
		if err != nil {
			continue
		}
		amount := lamports.Div(lamportsPerSOL)

		switch address {
		case transfer.FromUserAccount:
			running = running.Add(amount).Add(feeSOL(tx))
		case transfer.ToUserAccount:
			running = running.Sub(amount)
		default:
			continue
		}
		points = append(points, entity.BalancePoint{Timestamp: tx.Timestamp, Balance: running.InexactFloat64()})
	}

	final := now.Unix()
	if len(sorted) > 0 {
		final = sorted[len(sorted)-1].Timestamp
	}
	points = append(points, entity.BalancePoint{Timestamp: final, Balance: running.InexactFloat64()})

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp < points[j].Timestamp
	})
	return points
}

func feeSOL(tx entity.EnhancedTransaction) decimal.Decimal {
	if tx.Fee == nil {
		return decimal.Zero
	}
	fee, err := tx.Fee.Decimal()
	if err != nil {
		return decimal.Zero
	}
	return fee.Div(lamportsPerSOL)
}
