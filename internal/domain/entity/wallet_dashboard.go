package entity

// WalletDashboard is the aggregate payload served for one wallet.
type WalletDashboard struct {
	Wallet       WalletSummary          `json:"wallet"`
	Transactions []FormattedTransaction `json:"transactions"`
	Errors       []string               `json:"errors"`
}

// WalletSummary holds current holdings and the reconstructed balance history.
type WalletSummary struct {
	Address        string         `json:"address"`
	SOLBalance     *float64       `json:"sol_balance"`
	SOLValueUSD    *float64       `json:"sol_usd_value"`
	TotalValueUSD  float64        `json:"total_usd_value"`
	PriceDegraded  bool           `json:"price_degraded"`
	Tokens         []TokenHolding `json:"tokens"`
	BalanceHistory []BalancePoint `json:"balance_history"`
}

// NewWalletDashboard returns an empty payload with non-nil collections so they encode as [].
func NewWalletDashboard(address string) WalletDashboard {
	return WalletDashboard{
		Wallet: WalletSummary{
			Address:        address,
			Tokens:         []TokenHolding{},
			BalanceHistory: []BalancePoint{},
		},
		Errors: []string{},
	}
}

// AddError appends a section level failure message.
func (d *WalletDashboard) AddError(msg string) {
	d.Errors = append(d.Errors, msg)
}
