package entity

// TokenAccount is the parsed view of an SPL token account returned by the ledger.
type TokenAccount struct {
	Pubkey         string
	Mint           string
	RawAmount      string
	Decimals       uint8
	UIAmountString string
}

// TokenHolding is a non-zero fungible token position with its USD valuation.
type TokenHolding struct {
	Mint     string  `json:"mint"`
	Amount   float64 `json:"amount"`
	Decimals uint8   `json:"decimals"`
	PriceUSD float64 `json:"price_usd"`
	ValueUSD float64 `json:"value_usd"`
}
