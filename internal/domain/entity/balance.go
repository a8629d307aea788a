package entity

import "time"

// LedgerSnapshot is the unpriced ledger view of a wallet. It is the only per-wallet state
// that may be cached; prices are attached on every request.
type LedgerSnapshot struct {
	Address       WalletAddress
	Lamports      uint64
	TokenAccounts []TokenAccount
	TakenAt       time.Time
}

// WalletSnapshot is the current state of a wallet: native balance plus priced token holdings.
type WalletSnapshot struct {
	Address     WalletAddress
	Lamports    uint64
	SOLBalance  float64
	SOLPriceUSD *float64
	Tokens      []TokenHolding
	// PriceOutcome describes how much of the requested price set was resolved.
	PriceOutcome Outcome
	// Degraded is set when the SOL price is the configured fallback rather than a live quote.
	Degraded bool
	TakenAt  time.Time
}

// SOLValueUSD returns the USD value of the native balance when a SOL price is known.
func (s WalletSnapshot) SOLValueUSD() (float64, bool) {
	if s.SOLPriceUSD == nil {
		return 0, false
	}
	return s.SOLBalance * *s.SOLPriceUSD, true
}

// TokensValueUSD sums value_usd of every holding.
func (s WalletSnapshot) TokensValueUSD() float64 {
	var total float64
	for _, t := range s.Tokens {
		total += t.ValueUSD
	}
	return total
}

// BalancePoint is one sample of the reconstructed native balance series.
type BalancePoint struct {
	Timestamp int64   `json:"timestamp"`
	Balance   float64 `json:"balance"`
}
