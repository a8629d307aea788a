package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	domain "wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/entity"
	"wallet_dashboard/internal/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DEXScreenerClient implements port.TokenPriceSource against the DEX Screener API.
type DEXScreenerClient struct {
	getter       *httpGetter
	baseURL      string
	chainID      string
	quoteSymbols map[string]struct{}
	limiter      *rate.Limiter
	logger       *zap.Logger
}

// DEXScreenerConfig configures a DEXScreenerClient.
type DEXScreenerConfig struct {
	BaseURL      string
	ChainID      string // pairs of other chains are ignored when set
	Timeout      time.Duration
	RateLimit    float64 // requests per second, 0 disables limiting
	RateBurst    int
	QuoteSymbols []string
}

// NewDEXScreenerClient creates a new instance of DEXScreenerClient.
func NewDEXScreenerClient(cfg DEXScreenerConfig, logger *zap.Logger) *DEXScreenerClient {
	named := logger.Named("DEXScreenerClient")
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 1
	}
	quotes := make(map[string]struct{}, len(cfg.QuoteSymbols))
	for _, s := range cfg.QuoteSymbols {
		quotes[strings.ToUpper(s)] = struct{}{}
	}
	return &DEXScreenerClient{
		getter:       newHTTPGetter(cfg.Timeout, named),
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		chainID:      cfg.ChainID,
		quoteSymbols: quotes,
		limiter:      rate.NewLimiter(limit, cfg.RateBurst),
		logger:       named,
	}
}

// GetTokenPrice implements port.TokenPriceSource. The USD price of the first pair quoted
// in one of the configured stablecoins is returned.
func (c *DEXScreenerClient) GetTokenPrice(ctx context.Context, mint string) (price float64, found bool, err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, false, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	started := time.Now()
	defer func() { metrics.ObserveUpstream(domain.PriceSourceDEXScreener, "tokens", started, err) }()

	requestURL := fmt.Sprintf("%s/latest/dex/tokens/%s", c.baseURL, mint)
	c.logger.Debug("Requesting token pairs from DEX Screener", zap.String("url", requestURL))

	body, err := c.getter.get(ctx, requestURL, nil)
	if err != nil {
		return 0, false, err
	}

	var resp entity.DEXTokenPair
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Warn("Failed to unmarshal DEX Screener response", zap.String("mint", mint), zap.Error(err))
		return 0, false, fmt.Errorf("failed to unmarshal DEX Screener response for %s: %w", mint, err)
	}

	for _, pair := range resp.Pairs {
		if c.chainID != "" && pair.ChainID != "" && pair.ChainID != c.chainID {
			continue
		}
		if _, ok := c.quoteSymbols[strings.ToUpper(pair.QuoteToken.Symbol)]; !ok {
			continue
		}
		p, err := strconv.ParseFloat(pair.PriceUsd, 64)
		if err != nil || p <= 0 {
			c.logger.Debug("Skipping pair without usable priceUsd",
				zap.String("mint", mint),
				zap.String("pair", pair.PairAddress),
				zap.String("priceUsd", pair.PriceUsd))
			continue
		}
		return p, true, nil
	}

	c.logger.Debug("No stablecoin pair found on DEX Screener", zap.String("mint", mint), zap.Int("pairCount", len(resp.Pairs)))
	return 0, false, nil
}
