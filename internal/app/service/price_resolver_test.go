package service

import (
	"context"
	"errors"
	"testing"

	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/logger"
	"wallet_dashboard/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrimaryCoversEverything(t *testing.T) {
	primary := &fakeBatchSource{prices: map[string]float64{"SOL": 150, "mintA": 2}}
	secondary := &fakeTokenSource{}
	tertiary := &fakeNativeSource{}
	r := NewPriceResolver(PriceSources{primary, secondary, tertiary}, 110, 2, logger.NewNop())

	res := r.Resolve(context.Background(), []string{"mintA", "SOL"})

	assert.Equal(t, entity.OutcomeComplete, res.Outcome)
	assert.False(t, res.Degraded)
	q, ok := res.Price("mintA")
	require.True(t, ok)
	assert.Equal(t, entity.PriceQuote{AssetID: "mintA", PriceUSD: 2, Source: entity.PriceSourceJupiter}, q)
	assert.Empty(t, secondary.calls)
	assert.Zero(t, tertiary.calls)
	require.Len(t, primary.calls, 1)
	assert.ElementsMatch(t, []string{"SOL", "mintA"}, primary.calls[0])
}

func TestResolveFallbackOrdering(t *testing.T) {
	primary := &fakeBatchSource{prices: map[string]float64{"mintA": 1.25}, err: errors.New("partial outage")}
	secondary := &fakeTokenSource{
		prices: map[string]float64{"mintB": 0.5},
		errs:   map[string]error{"mintC": errors.New("rate limited")},
	}
	tertiary := &fakeNativeSource{price: 140}
	r := NewPriceResolver(PriceSources{primary, secondary, tertiary}, 110, 3, logger.NewNop())

	res := r.Resolve(context.Background(), []string{"SOL", "mintA", "mintB", "mintC"})

	// resolved assets are never queried again and SOL never goes to the token source
	assert.ElementsMatch(t, []string{"mintB", "mintC"}, secondary.calls)
	assert.Equal(t, 1, tertiary.calls)

	sol, ok := res.Price("SOL")
	require.True(t, ok)
	assert.Equal(t, entity.PriceSourceCoinGecko, sol.Source)
	assert.Equal(t, 140.0, sol.PriceUSD)

	b, ok := res.Price("mintB")
	require.True(t, ok)
	assert.Equal(t, entity.PriceSourceDEXScreener, b.Source)

	_, ok = res.Price("mintC")
	assert.False(t, ok)
	assert.Equal(t, entity.OutcomePartial, res.Outcome)
	assert.False(t, res.Degraded)
}

func TestResolveAllSourcesFail(t *testing.T) {
	before := testutil.ToFloat64(metrics.DegradedPricesTotal)

	primary := &fakeBatchSource{err: errors.New("down")}
	secondary := &fakeTokenSource{errs: map[string]error{"mintA": errors.New("down")}}
	tertiary := &fakeNativeSource{err: errors.New("down")}
	r := NewPriceResolver(PriceSources{primary, secondary, tertiary}, 99.5, 1, logger.NewNop())

	res := r.Resolve(context.Background(), []string{"SOL", "mintA"})

	sol, ok := res.Price("SOL")
	require.True(t, ok)
	assert.Equal(t, 99.5, sol.PriceUSD)
	assert.Equal(t, entity.PriceSourceFallback, sol.Source)
	assert.True(t, sol.Degraded)
	assert.True(t, res.Degraded)
	assert.Equal(t, entity.OutcomeFailed, res.Outcome)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.DegradedPricesTotal))
}

func TestResolveWithoutSources(t *testing.T) {
	r := NewPriceResolver(PriceSources{}, 110, 0, logger.NewNop())

	res := r.Resolve(context.Background(), nil)

	sol, ok := res.Price(entity.NativeAssetID)
	require.True(t, ok)
	assert.Equal(t, 110.0, sol.PriceUSD)
	assert.True(t, res.Degraded)
	assert.Equal(t, entity.OutcomeComplete, res.Outcome)
}
