package entity

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// SignatureInfo is one entry of a getSignaturesForAddress response.
type SignatureInfo struct {
	Signature string
	Slot      uint64
	BlockTime *int64
	Err       any
}

// EnhancedTransaction is a Helius enhanced transaction record.
type EnhancedTransaction struct {
	Signature        string            `json:"signature"`
	Type             string            `json:"type"`
	Description      string            `json:"description"`
	Source           string            `json:"source"`
	Status           string            `json:"status"`
	Fee              *FlexNumber       `json:"fee"`
	FeePayer         string            `json:"feePayer"`
	Slot             int64             `json:"slot"`
	Timestamp        int64             `json:"timestamp"`
	TransactionError any               `json:"transactionError"`
	NativeTransfers  []NativeTransfer  `json:"nativeTransfers"`
	TokenTransfers   []TokenTransfer   `json:"tokenTransfers"`
	Events           TransactionEvents `json:"events"`
}

// NativeTransfer is a SOL movement in lamports.
type NativeTransfer struct {
	FromUserAccount string     `json:"fromUserAccount"`
	ToUserAccount   string     `json:"toUserAccount"`
	Amount          FlexNumber `json:"amount"`
}

// TokenTransfer is an SPL token movement; TokenAmount is already in display units.
type TokenTransfer struct {
	FromUserAccount  string     `json:"fromUserAccount"`
	ToUserAccount    string     `json:"toUserAccount"`
	FromTokenAccount string     `json:"fromTokenAccount"`
	ToTokenAccount   string     `json:"toTokenAccount"`
	TokenAmount      FlexNumber `json:"tokenAmount"`
	Mint             string     `json:"mint"`
	Symbol           *string    `json:"symbol"`
	Decimals         *int       `json:"decimals"`
}

// TransactionEvents holds the decoded high level events of a record.
type TransactionEvents struct {
	NFT  *NFTEvent  `json:"nft"`
	Swap *SwapEvent `json:"swap"`
}

// NFTEvent describes an NFT sale, listing, mint and similar actions.
type NFTEvent struct {
	Type        string      `json:"type"`
	Description *string     `json:"description"`
	Source      *string     `json:"source"`
	Amount      *FlexNumber `json:"amount"`
	Seller      string      `json:"seller"`
	Buyer       string      `json:"buyer"`
	Authority   string      `json:"authority"`
	Collection  *string     `json:"collection"`
	Name        *string     `json:"name"`
	Image       *string     `json:"image"`
}

// SwapEvent describes a DEX swap with its native and token legs.
type SwapEvent struct {
	NativeInput  *NativeSwapLeg `json:"nativeInput"`
	NativeOutput *NativeSwapLeg `json:"nativeOutput"`
	TokenInputs  []TokenSwapLeg `json:"tokenInputs"`
	TokenOutputs []TokenSwapLeg `json:"tokenOutputs"`
	Source       *string        `json:"source"`
	PriceImpact  any            `json:"priceImpact"`
}

// NativeSwapLeg is a SOL leg of a swap, amount in lamports.
type NativeSwapLeg struct {
	Account  string     `json:"account"`
	Amount   FlexNumber `json:"amount"`
	USDValue FlexNumber `json:"usdValue"`
}

// TokenSwapLeg is a token leg of a swap, amount in display units.
type TokenSwapLeg struct {
	UserAccount string     `json:"userAccount"`
	Mint        string     `json:"mint"`
	Symbol      *string    `json:"symbol"`
	Amount      FlexNumber `json:"amount"`
	USDValue    FlexNumber `json:"usdValue"`
}

// FlexNumber accepts a JSON number or a numeric string. Parsing is deferred so a
// malformed value only fails the record that reads it.
type FlexNumber struct {
	raw   string
	valid bool
}

// NewFlexNumber builds a FlexNumber from its textual form.
func NewFlexNumber(raw string) FlexNumber {
	return FlexNumber{raw: raw, valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = FlexNumber{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		unquoted, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("invalid quoted number %s: %w", data, err)
		}
		*n = FlexNumber{raw: unquoted, valid: true}
		return nil
	}
	*n = FlexNumber{raw: string(data), valid: true}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n FlexNumber) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(n.raw)), nil
}

// IsSet reports whether a non-null value was present.
func (n FlexNumber) IsSet() bool {
	return n.valid
}

// Float64 parses the value; an absent value is zero.
func (n FlexNumber) Float64() (float64, error) {
	if !n.valid {
		return 0, nil
	}
	f, err := strconv.ParseFloat(n.raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", n.raw, err)
	}
	return f, nil
}

// Decimal parses the value as an exact decimal; an absent value is zero.
func (n FlexNumber) Decimal() (decimal.Decimal, error) {
	if !n.valid {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(n.raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q: %w", n.raw, err)
	}
	return d, nil
}
