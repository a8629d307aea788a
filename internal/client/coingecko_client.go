package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	domain "wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/entity"
	"wallet_dashboard/internal/pkg/metrics"

	"go.uber.org/zap"
)

// CoinGeckoClient implements port.NativePriceSource with the CoinGecko simple price API.
type CoinGeckoClient struct {
	getter     *httpGetter
	baseURL    string
	apiKey     string
	coinID     string
	vsCurrency string
	logger     *zap.Logger
}

// NewCoinGeckoClient creates a new CoinGecko client for the given coin id.
func NewCoinGeckoClient(baseURL, apiKey, coinID, vsCurrency string, timeout time.Duration, logger *zap.Logger) *CoinGeckoClient {
	named := logger.Named("CoinGeckoClient")
	return &CoinGeckoClient{
		getter:     newHTTPGetter(timeout, named),
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		coinID:     coinID,
		vsCurrency: vsCurrency,
		logger:     named,
	}
}

// GetNativePrice implements port.NativePriceSource.
func (c *CoinGeckoClient) GetNativePrice(ctx context.Context) (price float64, err error) {
	started := time.Now()
	defer func() { metrics.ObserveUpstream(domain.PriceSourceCoinGecko, "simple_price", started, err) }()

	q := url.Values{}
	q.Set("ids", c.coinID)
	q.Set("vs_currencies", c.vsCurrency)
	requestURL := c.baseURL + "/simple/price?" + q.Encode()

	var headers map[string]string
	if c.apiKey != "" {
		headers = map[string]string{"x-cg-demo-api-key": c.apiKey}
	}

	body, err := c.getter.get(ctx, requestURL, headers)
	if err != nil {
		return 0, err
	}

	var resp entity.CoinGeckoSimplePrice
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("failed to unmarshal CoinGecko response: %w", err)
	}
	price, ok := resp[c.coinID][c.vsCurrency]
	if !ok || price <= 0 {
		return 0, fmt.Errorf("coingecko returned no %s price for %s", c.vsCurrency, c.coinID)
	}
	return price, nil
}
