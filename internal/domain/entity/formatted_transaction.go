package entity

// Transaction types assigned by the formatter.
const (
	TxTypeUnknown       = "UNKNOWN"
	TxTypeTransfer      = "TRANSFER"
	TxTypeTokenTransfer = "TOKEN_TRANSFER"
	TxTypeNFT           = "NFT_TRANSACTION"
	TxTypeSwap          = "SWAP"
)

// Transfer directions relative to the requested wallet.
const (
	DirectionIn      = "in"
	DirectionOut     = "out"
	DirectionSwap    = "swap"
	DirectionUnknown = "unknown"
)

// FormattedTransaction is the dashboard projection of an enhanced transaction.
type FormattedTransaction struct {
	Signature   string   `json:"signature"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Fee         *float64 `json:"fee"`
	BlockTime   int64    `json:"block_time"`
	From        *string  `json:"from"`
	To          *string  `json:"to"`
	Amount      *float64 `json:"amount"`
	Source      *string  `json:"source"`
	Status      string   `json:"status"`
	Error       *string  `json:"error"`
	Program     string   `json:"program"`
	Direction   string   `json:"direction"`

	// native and token transfers
	TokenType   string  `json:"token_type,omitempty"`
	TokenSymbol string  `json:"token_symbol,omitempty"`
	Mint        *string `json:"mint,omitempty"`
	Decimals    *int    `json:"decimals,omitempty"`

	// nft
	Collection  *string `json:"collection,omitempty"`
	Name        *string `json:"name,omitempty"`
	Image       *string `json:"image,omitempty"`
	Marketplace *string `json:"marketplace,omitempty"`

	// swap
	Input       *SwapLeg `json:"input,omitempty"`
	Output      *SwapLeg `json:"output,omitempty"`
	Dex         *string  `json:"dex,omitempty"`
	PriceImpact any      `json:"price_impact,omitempty"`
}

// SwapLeg is one side of a formatted swap.
type SwapLeg struct {
	Amount   float64  `json:"amount"`
	Token    string   `json:"token"`
	ValueUSD *float64 `json:"value_usd"`
}
