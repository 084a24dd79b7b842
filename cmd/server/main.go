package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	rediscache "github.com/simaogato/advisory-backend/internal/adapter/cache/redis"
	grpcadapter "github.com/simaogato/advisory-backend/internal/adapter/grpc"
	httpadapter "github.com/simaogato/advisory-backend/internal/adapter/http"
	"github.com/simaogato/advisory-backend/internal/adapter/quote"
	"github.com/simaogato/advisory-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/advisory-backend/internal/config"
	"github.com/simaogato/advisory-backend/internal/domain"
	"github.com/simaogato/advisory-backend/internal/instrumentation"
	applogger "github.com/simaogato/advisory-backend/internal/logger"
	"github.com/simaogato/advisory-backend/internal/usecase/allocation"
	"github.com/simaogato/advisory-backend/internal/usecase/asset"
	"github.com/simaogato/advisory-backend/internal/usecase/audit"
	"github.com/simaogato/advisory-backend/internal/usecase/client"
	"github.com/simaogato/advisory-backend/internal/usecase/dashboard"
	"github.com/simaogato/advisory-backend/internal/usecase/export"
	"github.com/simaogato/advisory-backend/internal/usecase/health"
	"github.com/simaogato/advisory-backend/internal/usecase/market"
	"github.com/simaogato/advisory-backend/internal/usecase/movement"
	"github.com/simaogato/advisory-backend/internal/usecase/seeder"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := applogger.Init("info", "console")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	logger = applogger.Init(cfg.LogLevel, cfg.LogFormat)
	logger.Info().Str("level", cfg.LogLevel).Msg("logger initialized")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Setup Database
	db, err := postgres.NewDB(ctx, cfg.DSN(), cfg.DBMaxOpenConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("apply schema")
		}
		logger.Info().Msg("schema applied")
	}

	// 2. Setup Cache (optional at runtime: failures degrade to recomputation)
	cache, err := rediscache.New(cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		logger.Fatal().Err(err).Msg("init redis client")
	}
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		logger.Warn().Err(err).Msg("redis unreachable, serving without cache until it recovers")
	}

	// 3. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := instrumentation.NewMetrics(registry)

	// 4. Initialize Repositories (Postgres)
	clientRepo := postgres.NewClientRepository(db)
	assetRepo := postgres.NewAssetRepository(db)
	allocationRepo := postgres.NewAllocationRepository(db)
	movementRepo := postgres.NewMovementRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	// 5. Initialize Services (Use Cases)
	providers, err := buildQuoteProviders(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("init quote providers")
	}
	marketService := market.NewMarketService(providers, cache, cfg.MarketCacheTTL, metrics, logger)

	metricsService := dashboard.NewMetricsService(
		clientRepo, assetRepo, allocationRepo, movementRepo,
		cache, cfg.DashboardCacheTTL, metrics, logger,
	)
	clientService := client.NewClientService(clientRepo, metricsService)
	assetService := asset.NewAssetService(assetRepo, marketService, metricsService, logger)
	allocationService := allocation.NewAllocationService(allocationRepo, clientRepo, assetRepo, metricsService)
	movementService := movement.NewMovementService(movementRepo, clientRepo, metricsService)
	auditService := audit.NewAuditService(auditRepo)
	exportService := export.NewExportService(clientRepo, allocationRepo, movementRepo, metricsService, logger)
	checker := health.NewChecker(db.PingContext, cache.Ping, 2*time.Second)

	if cfg.SeedSampleData {
		sampleSeeder := seeder.NewSampleSeeder(clientRepo, assetRepo, allocationRepo, movementRepo, metricsService, logger)
		if err := sampleSeeder.Seed(ctx); err != nil {
			logger.Fatal().Err(err).Msg("seed sample data")
		}
	}

	// 6. Admin gRPC server
	var adminServer *grpcadapter.AdminServer
	if cfg.GRPCEnabled {
		adminServer = grpcadapter.NewAdminServer(cfg.APIToken, checker, logger)
	}

	// 7. Scheduler
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal().Err(err).Msg("init scheduler")
	}
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("scheduler shutdown error")
		}
	}()

	if cfg.CacheWarmInterval > 0 {
		_, err = scheduler.NewJob(
			gocron.DurationJob(cfg.CacheWarmInterval),
			gocron.NewTask(func(ctx context.Context) {
				if err := metricsService.Warm(ctx); err != nil {
					logger.Error().Err(err).Msg("dashboard cache warm failed")
					return
				}
				logger.Debug().Msg("dashboard cache warmed")
			}),
			gocron.WithStartAt(gocron.WithStartImmediately()),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("schedule cache warm job")
		}
	}

	if adminServer != nil {
		_, err = scheduler.NewJob(
			gocron.DurationJob(cfg.HealthCheckInterval),
			gocron.NewTask(func(ctx context.Context) {
				adminServer.RefreshHealth(ctx)
			}),
			gocron.WithStartAt(gocron.WithStartImmediately()),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("schedule health job")
		}
	}
	scheduler.Start()

	// 8. Start servers
	router := httpadapter.NewRouter(httpadapter.Services{
		Clients:     clientService,
		Assets:      assetService,
		Allocations: allocationService,
		Movements:   movementService,
		Dashboard:   metricsService,
		Exports:     exportService,
		Audit:       auditService,
		Health:      checker,
	}, cfg.APIToken, metrics, registry, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 2)
	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("http server: %w", err)
		}
	}()

	if adminServer != nil {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
		if err != nil {
			logger.Fatal().Err(err).Int("port", cfg.GRPCPort).Msg("listen grpc")
		}
		go func() {
			if err := adminServer.Serve(lis); err != nil {
				serverErr <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	// Graceful shutdown
	select {
	case err := <-serverErr:
		logger.Error().Err(err).Msg("server error, shutting down")
	case <-ctx.Done():
		logger.Info().Msg("received signal, shutting down")
	}
	shutdown(httpServer, adminServer, logger)
}

// shutdown drains the HTTP server and the gRPC server
func shutdown(httpServer *http.Server, adminServer *grpcadapter.AdminServer, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown error")
	}
	if adminServer != nil {
		adminServer.GracefulStop()
	}
	logger.Info().Msg("servers stopped")
}

// buildQuoteProviders creates the configured providers in priority order.
// They share one rate limiter.
func buildQuoteProviders(cfg *config.Config) ([]domain.QuoteProvider, error) {
	burst := max(int(cfg.QuoteRateLimit), 1)
	limiter := rate.NewLimiter(rate.Limit(cfg.QuoteRateLimit), burst)
	opts := []func(*resty.Client){
		quote.WithTimeout(cfg.QuoteTimeout),
		quote.WithRateLimit(limiter),
	}

	providers := make([]domain.QuoteProvider, 0, len(cfg.QuoteProviders))
	for _, name := range cfg.QuoteProviders {
		switch name {
		case config.ProviderYahoo:
			p, err := quote.NewYahooProvider(cfg.YahooBaseURL, "", opts...)
			if err != nil {
				return nil, fmt.Errorf("yahoo provider: %w", err)
			}
			providers = append(providers, p)
		case config.ProviderBrapi:
			p, err := quote.NewBrapiProvider(cfg.BrapiBaseURL, cfg.BrapiToken, opts...)
			if err != nil {
				return nil, fmt.Errorf("brapi provider: %w", err)
			}
			providers = append(providers, p)
		default:
			return nil, fmt.Errorf("unknown quote provider %q", name)
		}
	}
	return providers, nil
}
