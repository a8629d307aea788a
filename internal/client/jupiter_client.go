package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	domain "wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/entity"
	"wallet_dashboard/internal/pkg/metrics"
	"wallet_dashboard/internal/pkg/utils"

	"go.uber.org/zap"
)

// JupiterClient implements port.BatchPriceSource against the Jupiter price API.
type JupiterClient struct {
	getter           *httpGetter
	baseURL          string
	maxIDsPerRequest int
	logger           *zap.Logger
}

// NewJupiterClient creates a new Jupiter price client.
func NewJupiterClient(baseURL string, timeout time.Duration, maxIDsPerRequest int, logger *zap.Logger) *JupiterClient {
	named := logger.Named("JupiterClient")
	return &JupiterClient{
		getter:           newHTTPGetter(timeout, named),
		baseURL:          strings.TrimRight(baseURL, "/"),
		maxIDsPerRequest: maxIDsPerRequest,
		logger:           named,
	}
}

// GetPrices implements port.BatchPriceSource. Ids are requested in batches of at most
// maxIDsPerRequest; prices of successful batches are returned even when another batch fails.
func (c *JupiterClient) GetPrices(ctx context.Context, assetIDs []string) (map[string]float64, error) {
	prices := make(map[string]float64, len(assetIDs))
	ids := utils.UniqueStrings(assetIDs)
	if len(ids) == 0 {
		return prices, nil
	}

	var errs []error
	for _, batch := range utils.BatchStrings(ids, c.maxIDsPerRequest) {
		if err := c.fetchBatch(ctx, batch, prices); err != nil {
			errs = append(errs, err)
		}
	}

	c.logger.Debug("Jupiter prices fetched",
		zap.Int("requested", len(ids)),
		zap.Int("priced", len(prices)))
	return prices, errors.Join(errs...)
}

func (c *JupiterClient) fetchBatch(ctx context.Context, ids []string, into map[string]float64) (err error) {
	started := time.Now()
	defer func() { metrics.ObserveUpstream(domain.PriceSourceJupiter, "price", started, err) }()

	requestURL := fmt.Sprintf("%s/v4/price?ids=%s", c.baseURL, url.QueryEscape(strings.Join(ids, ",")))
	body, err := c.getter.get(ctx, requestURL, nil)
	if err != nil {
		return err
	}

	var resp entity.JupiterPriceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Warn("Failed to unmarshal Jupiter response", zap.ByteString("responseBody", body), zap.Error(err))
		return fmt.Errorf("failed to unmarshal Jupiter response: %w", err)
	}

	for _, id := range ids {
		entry, ok := resp.Data[id]
		if !ok || entry == nil || entry.Price <= 0 {
			continue
		}
		into[id] = entry.Price
	}
	return nil
}
