package utils

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

var lamportsPerSOL = decimal.New(1, 9)

// LamportsToSOL converts base units of the native asset to SOL.
func LamportsToSOL(lamports uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), 0).Div(lamportsPerSOL)
}

// FromBaseUnits converts an integer amount string to display units using decimals.
// Example: amount="1234500", decimals=6 => 1.2345
func FromBaseUnits(amount string, decimals uint8) (decimal.Decimal, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return decimal.Zero, nil
	}
	raw, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid base unit amount %q: %w", amount, err)
	}
	return raw.Shift(-int32(decimals)), nil
}

// GetEnv returns the environment variable key or fallback when unset or empty.
func GetEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
