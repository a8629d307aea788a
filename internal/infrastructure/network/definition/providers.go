package networkdefinition

import (
	"fmt"
	"sort"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"
)

// NetworkDefinitionProvider resolves the active Solana cluster and its RPC endpoints.
type NetworkDefinitionProvider struct {
	logger         port.Logger
	allNetworkDefs map[string]entity.NetworkDefinition
	active         entity.NetworkDefinition
}

// Predefined cluster definitions
var ( //nolint:gochecknoglobals // Global for definitions
	MainnetBeta = entity.NetworkDefinition{
		Name:               "Solana Mainnet Beta",
		Identifier:         "mainnet-beta",
		NativeSymbol:       entity.NativeAssetID,
		Decimals:           entity.NativeDecimals,
		PrimaryRPCURL:      "https://api.mainnet-beta.solana.com",
		FallbackRPCURLs:    []string{"https://solana-rpc.publicnode.com", "https://rpc.ankr.com/solana"},
		BlockExplorerURL:   "https://explorer.solana.com",
		DEXScreenerChainID: "solana",
	}
	Devnet = entity.NetworkDefinition{
		Name:               "Solana Devnet",
		Identifier:         "devnet",
		NativeSymbol:       entity.NativeAssetID,
		Decimals:           entity.NativeDecimals,
		PrimaryRPCURL:      "https://api.devnet.solana.com",
		FallbackRPCURLs:    []string{"https://rpc.ankr.com/solana_devnet"},
		BlockExplorerURL:   "https://explorer.solana.com/?cluster=devnet",
		DEXScreenerChainID: "solana",
	}
	Testnet = entity.NetworkDefinition{
		Name:               "Solana Testnet",
		Identifier:         "testnet",
		NativeSymbol:       entity.NativeAssetID,
		Decimals:           entity.NativeDecimals,
		PrimaryRPCURL:      "https://api.testnet.solana.com",
		FallbackRPCURLs:    []string{},
		BlockExplorerURL:   "https://explorer.solana.com/?cluster=testnet",
		DEXScreenerChainID: "solana",
	}
)

var allKnownDefinitions = map[string]entity.NetworkDefinition{
	MainnetBeta.Identifier: MainnetBeta,
	Devnet.Identifier:      Devnet,
	Testnet.Identifier:     Testnet,
}

// NewNetworkDefinitionProvider activates the cluster with the given identifier. When
// overrideEndpoints is non-empty it replaces the cluster's primary and fallback URLs.
func NewNetworkDefinitionProvider(log port.Logger, cluster string, overrideEndpoints []string) (*NetworkDefinitionProvider, error) {
	def, ok := allKnownDefinitions[cluster]
	if !ok {
		return nil, fmt.Errorf("unknown solana cluster %q (known: %v)", cluster, knownIdentifiers())
	}

	if len(overrideEndpoints) > 0 {
		def.PrimaryRPCURL = overrideEndpoints[0]
		def.FallbackRPCURLs = append([]string(nil), overrideEndpoints[1:]...)
		log.Info(fmt.Sprintf("Using %d configured RPC endpoint(s) for cluster '%s'", len(overrideEndpoints), def.Identifier))
	}

	p := &NetworkDefinitionProvider{
		logger:         log,
		allNetworkDefs: allKnownDefinitions,
		active:         def,
	}
	p.logger.Info(fmt.Sprintf("NetworkDefinitionProvider initialized. Active cluster: %s", def.Name),
		"endpoints", len(def.RPCURLs()))
	return p, nil
}

// Active returns the definition of the configured cluster.
func (p *NetworkDefinitionProvider) Active() entity.NetworkDefinition {
	def := p.active
	def.FallbackRPCURLs = append([]string(nil), p.active.FallbackRPCURLs...)
	return def
}

// GetNetworkDefinitionByName returns a known cluster definition by its identifier.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool) {
	def, ok := p.allNetworkDefs[identifier]
	return def, ok
}

func knownIdentifiers() []string {
	ids := make([]string, 0, len(allKnownDefinitions))
	for id := range allKnownDefinitions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
