package service

import (
	"context"
	"sync"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/metrics"
	"wallet_dashboard/internal/pkg/utils"

	"golang.org/x/sync/errgroup"
)

// PriceSources are the ordered collaborators consulted by the price resolver. Any of
// them may be nil, in which case that step is skipped.
type PriceSources struct {
	Primary   port.BatchPriceSource  // all assets in one call
	Secondary port.TokenPriceSource  // per mint, never SOL
	Tertiary  port.NativePriceSource // SOL only
}

// priceResolverImpl implements port.PriceResolver.
type priceResolverImpl struct {
	sources          PriceSources
	fallbackSOLPrice float64
	maxConcurrent    int
	logger           port.Logger
}

// NewPriceResolver creates a resolver that tries sources in order and serves
// fallbackSOLPrice, flagged as degraded, when no source prices SOL.
func NewPriceResolver(sources PriceSources, fallbackSOLPrice float64, maxConcurrent int, l port.Logger) port.PriceResolver {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &priceResolverImpl{
		sources:          sources,
		fallbackSOLPrice: fallbackSOLPrice,
		maxConcurrent:    maxConcurrent,
		logger:           l,
	}
}

// Resolve implements port.PriceResolver. SOL is always resolved in addition to
// assetIDs. Assets priced by an earlier source are never queried again.
func (r *priceResolverImpl) Resolve(ctx context.Context, assetIDs []string) entity.PriceResolution {
	requested := utils.UniqueStrings(assetIDs)
	query := utils.UniqueStrings(append([]string{entity.NativeAssetID}, requested...))
	quotes := make(map[string]entity.PriceQuote, len(query))

	r.resolvePrimary(ctx, query, quotes)
	r.resolveSecondary(ctx, query, quotes)
	r.resolveTertiary(ctx, quotes)

	degraded := false
	if _, ok := quotes[entity.NativeAssetID]; !ok {
		degraded = true
		quotes[entity.NativeAssetID] = entity.PriceQuote{
			AssetID:  entity.NativeAssetID,
			PriceUSD: r.fallbackSOLPrice,
			Source:   entity.PriceSourceFallback,
			Degraded: true,
		}
		metrics.DegradedPricesTotal.Inc()
		r.logger.Warn("All price sources failed for SOL, serving fallback price", "price_usd", r.fallbackSOLPrice)
	}

	live := 0
	for _, id := range requested {
		if q, ok := quotes[id]; ok && !q.Degraded {
			live++
		}
	}
	outcome := entity.OutcomeOf(live, len(requested))
	r.logger.Debug("Prices resolved", "requested", len(requested), "resolved", live, "outcome", outcome, "degraded", degraded)

	return entity.PriceResolution{
		Quotes:   quotes,
		Outcome:  outcome,
		Degraded: degraded,
	}
}

func (r *priceResolverImpl) resolvePrimary(ctx context.Context, query []string, quotes map[string]entity.PriceQuote) {
	if r.sources.Primary == nil {
		return
	}
	prices, err := r.sources.Primary.GetPrices(ctx, query)
	if err != nil {
		r.logger.Warn("Primary price source failed", "source", entity.PriceSourceJupiter, "error", err)
	}
	for _, id := range query {
		if price, ok := prices[id]; ok && price > 0 {
			quotes[id] = newQuote(id, price, entity.PriceSourceJupiter)
		}
	}
}

func (r *priceResolverImpl) resolveSecondary(ctx context.Context, query []string, quotes map[string]entity.PriceQuote) {
	if r.sources.Secondary == nil {
		return
	}
	var pending []string
	for _, id := range query {
		if id == entity.NativeAssetID {
			continue
		}
		if _, ok := quotes[id]; !ok {
			pending = append(pending, id)
		}
	}
	if len(pending) == 0 {
		return
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrent)
	for _, mint := range pending {
		g.Go(func() error {
			price, found, err := r.sources.Secondary.GetTokenPrice(gctx, mint)
			if err != nil {
				r.logger.Warn("Secondary price source failed", "source", entity.PriceSourceDEXScreener, "mint", mint, "error", err)
				return nil
			}
			if !found || price <= 0 {
				return nil
			}
			mu.Lock()
			quotes[mint] = newQuote(mint, price, entity.PriceSourceDEXScreener)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
}

func (r *priceResolverImpl) resolveTertiary(ctx context.Context, quotes map[string]entity.PriceQuote) {
	if r.sources.Tertiary == nil {
		return
	}
	if _, ok := quotes[entity.NativeAssetID]; ok {
		return
	}
	price, err := r.sources.Tertiary.GetNativePrice(ctx)
	if err != nil {
		r.logger.Warn("Tertiary price source failed", "source", entity.PriceSourceCoinGecko, "error", err)
		return
	}
	if price > 0 {
		quotes[entity.NativeAssetID] = newQuote(entity.NativeAssetID, price, entity.PriceSourceCoinGecko)
	}
}

func newQuote(id string, price float64, source string) entity.PriceQuote {
	metrics.PricesResolvedTotal.WithLabelValues(source).Inc()
	return entity.PriceQuote{AssetID: id, PriceUSD: price, Source: source}
}
