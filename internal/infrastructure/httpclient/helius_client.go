package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/metrics"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"resty.dev/v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrEmptyResponse is returned when the indexer answers 200 with no body.
var ErrEmptyResponse = errors.New("empty response body")

const (
	metricsSource         = "helius"
	defaultHeliusTimeout  = 30 * time.Second
	defaultHeliusMaxBatch = 100
)

// HeliusClientConfig configures the enhanced transactions client.
type HeliusClientConfig struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	MaxBatchSize int
	RateLimit    float64 // requests per second
	RateBurst    int
}

// HeliusClient implements port.TransactionIndexer against the Helius REST API.
type HeliusClient struct {
	client   *resty.Client
	baseURL  string
	apiKey   string
	maxBatch int
	logger   *zap.Logger
}

type enhancedTransactionsRequest struct {
	Transactions []string `json:"transactions"`
}

// NewHeliusClient creates a rate limited Helius client. Requests are never retried.
func NewHeliusClient(cfg HeliusClientConfig, logger *zap.Logger) *HeliusClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultHeliusTimeout
	}
	if cfg.MaxBatchSize <= 0 || cfg.MaxBatchSize > defaultHeliusMaxBatch {
		cfg.MaxBatchSize = defaultHeliusMaxBatch
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 1
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	limiter := rate.NewLimiter(limit, cfg.RateBurst)
	named := logger.Named("HeliusClient")

	restyClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		AddRequestMiddleware(func(_ *resty.Client, r *resty.Request) error {
			if err := limiter.Wait(r.Context()); err != nil {
				named.Warn("Rate limiter wait failed", zap.Error(err))
				return err
			}
			return nil
		})

	return &HeliusClient{
		client:   restyClient,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		maxBatch: cfg.MaxBatchSize,
		logger:   named,
	}
}

// GetEnhancedTransactions implements port.TransactionIndexer. Only the first
// MaxBatchSize signatures are requested. Records that fail to decode are skipped.
func (c *HeliusClient) GetEnhancedTransactions(ctx context.Context, signatures []string) (txs []entity.EnhancedTransaction, err error) {
	if len(signatures) == 0 {
		return []entity.EnhancedTransaction{}, nil
	}
	if len(signatures) > c.maxBatch {
		c.logger.Debug("Truncating signature batch",
			zap.Int("requested", len(signatures)),
			zap.Int("maxBatch", c.maxBatch))
		signatures = signatures[:c.maxBatch]
	}

	started := time.Now()
	defer func() { metrics.ObserveUpstream(metricsSource, "transactions", started, err) }()

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("api-key", c.apiKey).
		SetBody(enhancedTransactionsRequest{Transactions: signatures}).
		Post(c.baseURL + "/v0/transactions")
	if err != nil {
		c.logger.Error("Helius request failed", zap.Int("signatures", len(signatures)), zap.Error(err))
		return nil, fmt.Errorf("failed to request enhanced transactions: %w", err)
	}

	body := resp.String()
	if resp.StatusCode() != http.StatusOK {
		c.logger.Error("Helius API request failed",
			zap.Int("statusCode", resp.StatusCode()),
			zap.String("responseBody", truncate(body, 512)))
		return nil, fmt.Errorf("helius API request failed with status %d", resp.StatusCode())
	}
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("failed to read enhanced transactions: %w", ErrEmptyResponse)
	}

	var raw []jsoniter.RawMessage
	if err := json.UnmarshalFromString(body, &raw); err != nil {
		c.logger.Error("Failed to unmarshal Helius response", zap.String("responseBody", truncate(body, 512)), zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal enhanced transactions: %w", err)
	}

	txs = make([]entity.EnhancedTransaction, 0, len(raw))
	for i, record := range raw {
		var tx entity.EnhancedTransaction
		if err := json.Unmarshal(record, &tx); err != nil {
			c.logger.Warn("Skipping malformed enhanced transaction", zap.Int("index", i), zap.Error(err))
			continue
		}
		if tx.Signature == "" {
			c.logger.Warn("Skipping enhanced transaction without signature", zap.Int("index", i))
			continue
		}
		txs = append(txs, tx)
	}
	c.logger.Debug("Fetched enhanced transactions",
		zap.Int("requested", len(signatures)),
		zap.Int("decoded", len(txs)))
	return txs, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
