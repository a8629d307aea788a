package entity

// Outcome classifies a multi-part result.
type Outcome string

const (
	OutcomeComplete Outcome = "complete"
	OutcomePartial  Outcome = "partial"
	OutcomeFailed   Outcome = "failed"
)

// Price source labels.
const (
	PriceSourceJupiter     = "jupiter"
	PriceSourceDEXScreener = "dexscreener"
	PriceSourceCoinGecko   = "coingecko"
	PriceSourceFallback    = "fallback"
)

// PriceQuote is a USD unit price for one asset.
type PriceQuote struct {
	AssetID  string  `json:"asset_id"`
	PriceUSD float64 `json:"price_usd"`
	Source   string  `json:"source"`
	Degraded bool    `json:"degraded"`
}

// PriceResolution is the result of one resolution call across all price sources.
type PriceResolution struct {
	Quotes   map[string]PriceQuote
	Outcome  Outcome
	Degraded bool
}

// Price returns the quote for assetID if one was resolved.
func (r PriceResolution) Price(assetID string) (PriceQuote, bool) {
	q, ok := r.Quotes[assetID]
	return q, ok
}

// OutcomeOf derives the outcome for resolved out of requested items.
func OutcomeOf(resolved, requested int) Outcome {
	switch {
	case requested == 0 || resolved >= requested:
		return OutcomeComplete
	case resolved == 0:
		return OutcomeFailed
	default:
		return OutcomePartial
	}
}
