package configloader

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. DASHBOARD_HELIUS_API_KEY.
const EnvPrefix = "DASHBOARD"

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port                   string   `yaml:"port"`
	ReadTimeoutSeconds     int      `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds    int      `yaml:"writeTimeoutSeconds"`
	IdleTimeoutSeconds     int      `yaml:"idleTimeoutSeconds"`
	ShutdownTimeoutSeconds int      `yaml:"shutdownTimeoutSeconds"`
	AllowedOrigins         []string `yaml:"allowedOrigins"`
	EnablePprof            bool     `yaml:"enablePprof"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// SolanaConfig holds ledger RPC configuration.
type SolanaConfig struct {
	Cluster          string   `yaml:"cluster"`      // e.g. "mainnet-beta"
	RPCEndpoints     []string `yaml:"rpcEndpoints"` // overrides the cluster endpoints when set
	RPCTimeoutMillis int64    `yaml:"rpcTimeoutMillis"`
	TokenProgramID   string   `yaml:"tokenProgramID"`
	SignatureLimit   int      `yaml:"signatureLimit"`
}

// HeliusConfig holds the enhanced transactions API configuration.
type HeliusConfig struct {
	BaseURL              string  `yaml:"baseURL"`
	APIKey               string  `yaml:"apiKey"`
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	MaxBatchSize         int     `yaml:"maxBatchSize"`
	RateLimitPerSecond   float64 `yaml:"rateLimitPerSecond"`
	RateLimitBurst       int     `yaml:"rateLimitBurst"`
}

// JupiterConfig holds the Jupiter price API configuration.
type JupiterConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	MaxIDsPerRequest     int    `yaml:"maxIdsPerRequest"`
}

// DEXScreenerConfig holds DEXScreener API specific configurations.
type DEXScreenerConfig struct {
	BaseURL              string   `yaml:"baseURL"`
	RequestTimeoutMillis int64    `yaml:"requestTimeoutMillis"`
	RateLimitPerSecond   float64  `yaml:"rateLimitPerSecond"`
	RateLimitBurst       int      `yaml:"rateLimitBurst"`
	QuoteSymbols         []string `yaml:"quoteSymbols"`
}

// CoinGeckoConfig holds CoinGecko API specific configurations.
type CoinGeckoConfig struct {
	APIKey               string `yaml:"apiKey"`
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	NativeCoinID         string `yaml:"nativeCoinID"`
	VsCurrency           string `yaml:"vsCurrency"`
}

// PriceResolverConfig holds configuration for the price resolver.
type PriceResolverConfig struct {
	FallbackSOLPriceUSD  float64 `yaml:"fallbackSolPriceUsd"`
	MaxConcurrentLookups int     `yaml:"maxConcurrentLookups"`
}

// CacheConfig holds configuration for the snapshot cache.
type CacheConfig struct {
	SnapshotTTLSeconds     int `yaml:"snapshotTtlSeconds"`
	CleanupIntervalSeconds int `yaml:"cleanupIntervalSeconds"`
	MaxEntries             int `yaml:"maxEntries"`
}

// WarmupConfig lists wallets whose snapshots are loaded at start-up.
type WarmupConfig struct {
	WalletsFile    string `yaml:"walletsFile"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// SwaggerConfig holds configuration for Swagger UI.
type SwaggerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	SpecFile string `yaml:"specFile"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Logging       LoggingConfig       `yaml:"logging"`
	Solana        SolanaConfig        `yaml:"solana"`
	Helius        HeliusConfig        `yaml:"helius"`
	Jupiter       JupiterConfig       `yaml:"jupiter"`
	DEXScreener   DEXScreenerConfig   `yaml:"dexScreener"`
	CoinGecko     CoinGeckoConfig     `yaml:"coingecko"`
	PriceResolver PriceResolverConfig `yaml:"priceResolver"`
	Cache         CacheConfig         `yaml:"cache"`
	Warmup        WarmupConfig        `yaml:"warmup"`
	Swagger       SwaggerConfig       `yaml:"swagger"`
}

// envOverrides are deploy-time values read from the environment.
type envOverrides struct {
	Port            string   `envconfig:"PORT"`
	LogLevel        string   `envconfig:"LOG_LEVEL"`
	HeliusAPIKey    string   `envconfig:"HELIUS_API_KEY"`
	CoinGeckoAPIKey string   `envconfig:"COINGECKO_API_KEY"`
	RPCEndpoints    []string `envconfig:"SOLANA_RPC_ENDPOINTS"`
	SolanaCluster   string   `envconfig:"SOLANA_CLUSTER"`
}

// Load reads the YAML configuration file from the given path, applies environment
// overrides and fills defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to process environment overrides: %w", err)
	}
	if env.Port != "" {
		cfg.Server.Port = env.Port
	}
	if env.LogLevel != "" {
		cfg.Logging.Level = env.LogLevel
	}
	if env.HeliusAPIKey != "" {
		cfg.Helius.APIKey = env.HeliusAPIKey
	}
	if env.CoinGeckoAPIKey != "" {
		cfg.CoinGecko.APIKey = env.CoinGeckoAPIKey
	}
	if len(env.RPCEndpoints) > 0 {
		cfg.Solana.RPCEndpoints = env.RPCEndpoints
	}
	if env.SolanaCluster != "" {
		cfg.Solana.Cluster = env.SolanaCluster
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8000"
	}
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	// the slowest upstream (Helius, 30s) has to fit into one response
	if cfg.Server.WriteTimeoutSeconds <= 0 {
		cfg.Server.WriteTimeoutSeconds = 60
	}
	if cfg.Server.IdleTimeoutSeconds <= 0 {
		cfg.Server.IdleTimeoutSeconds = 120
	}
	if cfg.Server.ShutdownTimeoutSeconds <= 0 {
		cfg.Server.ShutdownTimeoutSeconds = 5
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.MaxSizeMB <= 0 {
		cfg.Logging.MaxSizeMB = 100
	}
	if cfg.Logging.MaxBackups <= 0 {
		cfg.Logging.MaxBackups = 7
	}
	if cfg.Logging.MaxAgeDays <= 0 {
		cfg.Logging.MaxAgeDays = 7
	}

	if cfg.Solana.Cluster == "" {
		cfg.Solana.Cluster = "mainnet-beta"
	}
	if cfg.Solana.RPCTimeoutMillis <= 0 {
		cfg.Solana.RPCTimeoutMillis = 10000
	}
	if cfg.Solana.TokenProgramID == "" {
		cfg.Solana.TokenProgramID = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	}
	if cfg.Solana.SignatureLimit <= 0 {
		cfg.Solana.SignatureLimit = 1000
	}

	if cfg.Helius.BaseURL == "" {
		cfg.Helius.BaseURL = "https://api.helius.xyz"
	}
	if cfg.Helius.RequestTimeoutMillis <= 0 {
		cfg.Helius.RequestTimeoutMillis = 30000
	}
	if cfg.Helius.MaxBatchSize <= 0 {
		cfg.Helius.MaxBatchSize = 100
	}
	if cfg.Helius.RateLimitPerSecond <= 0 {
		cfg.Helius.RateLimitPerSecond = 10
	}
	if cfg.Helius.RateLimitBurst <= 0 {
		cfg.Helius.RateLimitBurst = 1
	}

	if cfg.Jupiter.BaseURL == "" {
		cfg.Jupiter.BaseURL = "https://price.jup.ag"
	}
	if cfg.Jupiter.RequestTimeoutMillis <= 0 {
		cfg.Jupiter.RequestTimeoutMillis = 10000
	}
	if cfg.Jupiter.MaxIDsPerRequest <= 0 {
		cfg.Jupiter.MaxIDsPerRequest = 100
	}

	if cfg.DEXScreener.BaseURL == "" {
		cfg.DEXScreener.BaseURL = "https://api.dexscreener.com"
	}
	if cfg.DEXScreener.RequestTimeoutMillis <= 0 {
		cfg.DEXScreener.RequestTimeoutMillis = 10000
	}
	if cfg.DEXScreener.RateLimitPerSecond <= 0 {
		cfg.DEXScreener.RateLimitPerSecond = 5 // public limit is 300 requests per minute
	}
	if cfg.DEXScreener.RateLimitBurst <= 0 {
		cfg.DEXScreener.RateLimitBurst = 5
	}
	if len(cfg.DEXScreener.QuoteSymbols) == 0 {
		cfg.DEXScreener.QuoteSymbols = []string{"USDC", "USDT"}
	}

	if cfg.CoinGecko.BaseURL == "" {
		cfg.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.CoinGecko.RequestTimeoutMillis <= 0 {
		cfg.CoinGecko.RequestTimeoutMillis = 10000
	}
	if cfg.CoinGecko.NativeCoinID == "" {
		cfg.CoinGecko.NativeCoinID = "solana"
	}
	if cfg.CoinGecko.VsCurrency == "" {
		cfg.CoinGecko.VsCurrency = "usd"
	}

	if cfg.PriceResolver.FallbackSOLPriceUSD <= 0 {
		cfg.PriceResolver.FallbackSOLPriceUSD = 110.0
	}
	if cfg.PriceResolver.MaxConcurrentLookups <= 0 {
		cfg.PriceResolver.MaxConcurrentLookups = 5
	}

	if cfg.Cache.SnapshotTTLSeconds <= 0 {
		cfg.Cache.SnapshotTTLSeconds = 300
	}
	if cfg.Cache.CleanupIntervalSeconds <= 0 {
		cfg.Cache.CleanupIntervalSeconds = 600
	}
	if cfg.Cache.MaxEntries <= 0 {
		cfg.Cache.MaxEntries = 100
	}

	if cfg.Warmup.TimeoutSeconds <= 0 {
		cfg.Warmup.TimeoutSeconds = 120
	}

	if cfg.Swagger.SpecFile == "" {
		cfg.Swagger.SpecFile = "./docs/swagger.yaml"
	}
}

func validate(cfg *Config) error {
	for _, endpoint := range cfg.Solana.RPCEndpoints {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			return fmt.Errorf("solana rpc endpoint %q must be an http(s) URL", endpoint)
		}
	}
	if cfg.Helius.MaxBatchSize > 100 {
		return fmt.Errorf("helius maxBatchSize %d exceeds the API limit of 100", cfg.Helius.MaxBatchSize)
	}
	return nil
}
