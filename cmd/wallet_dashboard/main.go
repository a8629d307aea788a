package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/app/service"
	"wallet_dashboard/internal/client"
	"wallet_dashboard/internal/infrastructure/cache"
	"wallet_dashboard/internal/infrastructure/configloader"
	"wallet_dashboard/internal/infrastructure/httpclient"
	networkclient "wallet_dashboard/internal/infrastructure/network/client"
	networkdefinition "wallet_dashboard/internal/infrastructure/network/definition"
	"wallet_dashboard/internal/infrastructure/restapi"
	"wallet_dashboard/internal/infrastructure/walletloader"
	"wallet_dashboard/internal/pkg/logger"
	"wallet_dashboard/internal/pkg/metrics"
	"wallet_dashboard/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func millis(v int64) time.Duration {
	return time.Duration(v) * time.Millisecond
}

func seconds(v int) time.Duration {
	return time.Duration(v) * time.Second
}

func main() {
	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yml")
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration from %s: %v\n", cfgPath, err)
		os.Exit(1)
	}

	zapLogger := logger.Init(logger.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	defer func() { _ = zapLogger.Sync() }()
	appLogger := logger.NewSlogAdapter("service", "wallet_dashboard")
	appLogger.Info("Configuration loaded", "path", cfgPath, "cluster", cfg.Solana.Cluster)

	metrics.MustRegisterMetrics(prometheus.DefaultRegisterer)

	netProvider, err := networkdefinition.NewNetworkDefinitionProvider(appLogger, cfg.Solana.Cluster, cfg.Solana.RPCEndpoints)
	if err != nil {
		logger.Fatal("Failed to resolve Solana cluster", "cluster", cfg.Solana.Cluster, "error", err)
	}
	network := netProvider.Active()

	solanaClient, err := networkclient.NewSolanaClientForNetwork(network, cfg.Solana.TokenProgramID, millis(cfg.Solana.RPCTimeoutMillis), zapLogger)
	if err != nil {
		logger.Fatal("Failed to create Solana RPC client", "error", err)
	}

	if cfg.Helius.APIKey == "" {
		appLogger.Warn("Helius API key is empty; transaction detail requests will be rejected upstream")
	}
	heliusClient := httpclient.NewHeliusClient(httpclient.HeliusClientConfig{
		BaseURL:      cfg.Helius.BaseURL,
		APIKey:       cfg.Helius.APIKey,
		Timeout:      millis(cfg.Helius.RequestTimeoutMillis),
		MaxBatchSize: cfg.Helius.MaxBatchSize,
		RateLimit:    cfg.Helius.RateLimitPerSecond,
		RateBurst:    cfg.Helius.RateLimitBurst,
	}, zapLogger)

	jupiterClient := client.NewJupiterClient(cfg.Jupiter.BaseURL, millis(cfg.Jupiter.RequestTimeoutMillis), cfg.Jupiter.MaxIDsPerRequest, zapLogger)
	dexScreenerClient := client.NewDEXScreenerClient(client.DEXScreenerConfig{
		BaseURL:      cfg.DEXScreener.BaseURL,
		ChainID:      network.DEXScreenerChainID,
		Timeout:      millis(cfg.DEXScreener.RequestTimeoutMillis),
		RateLimit:    cfg.DEXScreener.RateLimitPerSecond,
		RateBurst:    cfg.DEXScreener.RateLimitBurst,
		QuoteSymbols: cfg.DEXScreener.QuoteSymbols,
	}, zapLogger)
	coinGeckoClient := client.NewCoinGeckoClient(
		cfg.CoinGecko.BaseURL,
		cfg.CoinGecko.APIKey,
		cfg.CoinGecko.NativeCoinID,
		cfg.CoinGecko.VsCurrency,
		millis(cfg.CoinGecko.RequestTimeoutMillis),
		zapLogger,
	)

	priceResolver := service.NewPriceResolver(service.PriceSources{
		Primary:   jupiterClient,
		Secondary: dexScreenerClient,
		Tertiary:  coinGeckoClient,
	}, cfg.PriceResolver.FallbackSOLPriceUSD, cfg.PriceResolver.MaxConcurrentLookups, appLogger)

	var snapshotCache port.SnapshotCache = cache.NopCache{}
	if cfg.Cache.SnapshotTTLSeconds > 0 {
		snapshotCache = cache.NewSnapshotCache(seconds(cfg.Cache.SnapshotTTLSeconds), seconds(cfg.Cache.CleanupIntervalSeconds), cfg.Cache.MaxEntries)
	}

	snapshotter := service.NewBalanceSnapshotter(solanaClient, priceResolver, snapshotCache, appLogger)
	fetcher := service.NewTransactionFetcher(solanaClient, heliusClient, cfg.Solana.SignatureLimit, cfg.Helius.MaxBatchSize, appLogger)
	walletService := service.NewWalletService(snapshotter, fetcher, service.NewTransactionFormatter(), appLogger)

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Warmup.WalletsFile != "" {
		warmer := service.NewSnapshotWarmer(
			walletloader.NewWalletFileLoader(cfg.Warmup.WalletsFile, appLogger),
			snapshotter,
			cfg.PriceResolver.MaxConcurrentLookups,
			appLogger,
		)
		go func() {
			ctx, cancelWarmup := context.WithTimeout(appCtx, seconds(cfg.Warmup.TimeoutSeconds))
			defer cancelWarmup()
			if _, err := warmer.Warm(ctx); err != nil {
				appLogger.Error("Snapshot cache warm-up failed", "error", err)
			}
		}()
	}

	gin.SetMode(gin.ReleaseMode)
	routerOpts := restapi.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		EnablePprof:    cfg.Server.EnablePprof,
	}
	if cfg.Swagger.Enabled {
		routerOpts.SwaggerSpecFile = cfg.Swagger.SpecFile
	}
	router := restapi.SetupRouter(restapi.NewWalletHandler(walletService, zapLogger), routerOpts, zapLogger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  seconds(cfg.Server.ReadTimeoutSeconds),
		WriteTimeout: seconds(cfg.Server.WriteTimeoutSeconds),
		IdleTimeout:  seconds(cfg.Server.IdleTimeoutSeconds),
	}

	go func() {
		zapLogger.Info("HTTP server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), seconds(cfg.Server.ShutdownTimeoutSeconds))
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting")
}
