package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tara-ride/dispatch/internal/pkg/config"
	"github.com/tara-ride/dispatch/internal/pkg/health"
	"github.com/tara-ride/dispatch/internal/pkg/logger"
	"github.com/tara-ride/dispatch/internal/pkg/metrics"
	"github.com/tara-ride/dispatch/internal/pkg/middleware"
	nrpkg "github.com/tara-ride/dispatch/internal/pkg/newrelic"
	"github.com/tara-ride/dispatch/internal/pkg/server"
	billingHandler "github.com/tara-ride/dispatch/services/billing/handler"
	billingUC "github.com/tara-ride/dispatch/services/billing/usecase"
	driversHandler "github.com/tara-ride/dispatch/services/drivers/handler"
	driversUC "github.com/tara-ride/dispatch/services/drivers/usecase"
	matchUC "github.com/tara-ride/dispatch/services/match/usecase"
	pricingHandler "github.com/tara-ride/dispatch/services/pricing/handler"
	pricingUC "github.com/tara-ride/dispatch/services/pricing/usecase"
	ridesHandler "github.com/tara-ride/dispatch/services/rides/handler"
	ridesUC "github.com/tara-ride/dispatch/services/rides/usecase"
)

const driverServiceName = "driver-service"

func main() {
	configPath := config.GetEnv("CONFIG_PATH", "config/dispatch.env")
	configs := config.InitConfig(configPath)
	appName := configs.App.Name

	// Initialize New Relic and Zap logger
	nrApp := nrpkg.InitNewRelic(configs)

	zapLogger, err := logger.InitZapLoggerFromConfig(configs, nrApp)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}

	// Set global logger for application-wide access
	logger.SetGlobalLogger(zapLogger)

	logger.Info("Starting application",
		logger.String("app", appName),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment),
		logger.String("store_backend", configs.Store.Backend),
		logger.String("directory_backend", configs.Store.DirectoryBackend),
		logger.String("events_backend", configs.Events.Backend),
	)

	fareTable, err := config.LoadFareTable(configs.Pricing.FareTablePath)
	if err != nil {
		zapLogger.Fatal("Failed to load fare table", logger.Err(err))
	}

	healthService := health.NewService()
	infra := newInfrastructure(configs, healthService)

	store, err := infra.rideStore()
	if err != nil {
		zapLogger.Fatal("Failed to initialize ride store", logger.Err(err))
	}
	directory, err := infra.driverDirectory()
	if err != nil {
		zapLogger.Fatal("Failed to initialize driver directory", logger.Err(err))
	}
	gateway, err := infra.eventGateway()
	if err != nil {
		zapLogger.Fatal("Failed to initialize event gateway", logger.Err(err))
	}

	collector := metrics.NewCollector()

	// Initialize usecases
	fares := pricingUC.NewFareEngine(fareTable, configs.Rides)
	matcher := matchUC.NewMatchUC(directory, fares)
	rideUC := ridesUC.NewRideUC(configs, store, directory, matcher, fares, gateway, collector)
	driverUC := driversUC.NewDriverUC(directory)
	earningsUC := billingUC.NewEarningsUC(store, fares.Currency())

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	e.Use(nrpkg.Middleware(nrApp))
	e.Use(middleware.RequestID())
	e.Use(logger.ZapEchoMiddleware(zapLogger))
	e.Use(middleware.PanicRecovery(zapLogger))

	health.RegisterEndpoints(e, appName, configs.App.Version, healthService)
	if configs.Metrics.Enabled {
		e.GET(configs.Metrics.Path, echo.WrapHandler(collector.Handler()))
	}

	if configs.APIKey.DriverService == "" {
		logger.Warn("DRIVER_SERVICE_API_KEY is empty, driver management routes will reject every call")
	}
	auth := middleware.ValidateAPIKey(map[string]string{
		driverServiceName: configs.APIKey.DriverService,
	}, driverServiceName)

	limiter := middleware.NewRateLimiter(configs.Server.RateLimitPerMin, configs.Server.RateLimitBurst)
	stopCleanup := make(chan struct{})
	go limiter.RunCleanup(time.Minute, stopCleanup)

	// Register service routes
	api := e.Group("/api/v1", limiter.Middleware())
	ridesHandler.NewHandler(rideUC).RegisterRoutes(api)
	driversHandler.NewHandler(driverUC).RegisterRoutes(api, auth)
	billingHandler.NewHandler(earningsUC).RegisterRoutes(api)
	pricingHandler.NewHandler(fares).RegisterRoutes(api)

	srv := server.NewGracefulServer(e, zapLogger, configs.Server)
	srv.OnShutdown(infra.close)
	srv.OnShutdown(func(ctx context.Context) error {
		close(stopCleanup)
		if nrApp != nil {
			logger.Info("Shutting down New Relic...")
			nrApp.Shutdown(10 * time.Second)
		}
		logger.Info("Server exiting gracefully")
		return zapLogger.Close()
	})

	if err := srv.Start(); err != nil {
		zapLogger.Fatal("HTTP server stopped unexpectedly",
			logger.String("app", appName),
			logger.Err(err))
	}
}
