package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// NativeAssetID is the asset identifier used for SOL across price sources.
const NativeAssetID = "SOL"

// NativeDecimals is the number of decimals of the native asset (lamports per SOL = 1e9).
const NativeDecimals = 9

// ErrInvalidWalletAddress is returned when a wallet identifier is not a 32-byte base58 key.
var ErrInvalidWalletAddress = errors.New("invalid wallet address")

// WalletAddress is a validated base58 encoded Solana public key.
type WalletAddress string

// ParseWalletAddress validates that raw decodes to exactly 32 bytes.
func ParseWalletAddress(raw string) (WalletAddress, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidWalletAddress
	}
	if _, err := solana.PublicKeyFromBase58(trimmed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidWalletAddress, err)
	}
	return WalletAddress(trimmed), nil
}

// PublicKey returns the decoded key. The address must come from ParseWalletAddress.
func (w WalletAddress) PublicKey() solana.PublicKey {
	return solana.MustPublicKeyFromBase58(string(w))
}

func (w WalletAddress) String() string {
	return string(w)
}
