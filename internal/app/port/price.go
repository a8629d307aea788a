package port

import (
	"context"

	"wallet_dashboard/internal/domain/entity"
)

// BatchPriceSource returns USD prices for many asset ids in one call.
// Ids missing from the returned map were not priced.
type BatchPriceSource interface {
	GetPrices(ctx context.Context, assetIDs []string) (map[string]float64, error)
}

// TokenPriceSource returns the USD price of a single mint.
// found is false when the source has no usable market for the mint.
type TokenPriceSource interface {
	GetTokenPrice(ctx context.Context, mint string) (price float64, found bool, err error)
}

// NativePriceSource returns the USD price of SOL.
type NativePriceSource interface {
	GetNativePrice(ctx context.Context) (float64, error)
}

// PriceResolver resolves USD prices across all configured sources.
type PriceResolver interface {
	Resolve(ctx context.Context, assetIDs []string) entity.PriceResolution
}
