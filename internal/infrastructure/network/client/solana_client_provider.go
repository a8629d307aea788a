package client

import (
	"fmt"
	"sync"
	"time"

	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/infrastructure/network/rotation"
	"wallet_dashboard/internal/pkg/metrics"

	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

const defaultRPCCallTimeout = 10 * time.Second

// solanaClientProvider hands out one rpc.Client per endpoint URL, created lazily.
type solanaClientProvider struct {
	clients map[string]*rpc.Client
	mu      sync.Mutex
	logger  *zap.Logger
}

func newSolanaClientProvider(logger *zap.Logger) *solanaClientProvider {
	return &solanaClientProvider{
		clients: make(map[string]*rpc.Client),
		logger:  logger,
	}
}

// GetClient returns the cached client for endpoint, creating it on first use.
func (p *solanaClientProvider) GetClient(endpoint string) *rpc.Client {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, exists := p.clients[endpoint]; exists {
		return c
	}
	p.logger.Debug("Creating new Solana RPC client", zap.String("endpoint", rotation.Redact(endpoint)))
	c := rpc.New(endpoint)
	p.clients[endpoint] = c
	return c
}

// NewSolanaClientForNetwork builds a ledger client that rotates over the network's
// primary and fallback RPC URLs. Every rotation is logged and counted.
func NewSolanaClientForNetwork(netDef entity.NetworkDefinition, tokenProgramID string, rpcCallTimeout time.Duration, logger *zap.Logger) (*SolanaClient, error) {
	named := logger.Named("SolanaClient")
	rotator, err := rotation.NewEndpointRotator(netDef.RPCURLs(), rotation.WithOnRotate(func(from, to string) {
		failed := rotation.Redact(from)
		metrics.EndpointRotationsTotal.WithLabelValues(failed).Inc()
		named.Warn("Rotating Solana RPC endpoint",
			zap.String("network", netDef.Identifier),
			zap.String("failed", failed),
			zap.String("next", rotation.Redact(to)))
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create endpoint rotator for %s: %w", netDef.Name, err)
	}
	return NewSolanaClient(rotator, tokenProgramID, rpcCallTimeout, logger)
}
