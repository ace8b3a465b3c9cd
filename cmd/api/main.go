package main

// @title Network Coverage API
// @version 1.0.0
// @description Resolves which mobile operators (Orange, SFR, Bouygues, Free) provide 2G/3G/4G coverage near a batch of French postal addresses. Addresses are geocoded through the Base Adresse Nationale, then matched against the transmitter-site inventory within a 30 km radius.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/RustySU/network-coverage/docs"
	"github.com/RustySU/network-coverage/internal/config"
	httpDelivery "github.com/RustySU/network-coverage/internal/delivery/http"
	"github.com/RustySU/network-coverage/internal/delivery/http/handler"
	"github.com/RustySU/network-coverage/internal/infrastructure/ban"
	"github.com/RustySU/network-coverage/internal/pkg/logger"
	"github.com/RustySU/network-coverage/internal/pkg/metrics"
	"github.com/RustySU/network-coverage/internal/repository/postgres"
	"github.com/RustySU/network-coverage/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Network Coverage API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.Float64("search_radius_m", cfg.Coverage.SearchRadiusMeters),
		zap.Float64("geocoder_min_score", cfg.Geocoder.MinScore),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Health check
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}
	log.Info("PostgreSQL healthy")

	// 5. Initialize metrics
	m := metrics.New()

	// 6. Initialize repositories and the geocoding client
	siteRepo := postgres.NewSiteRepository(db)
	geocoder := ban.NewClient(&cfg.Geocoder, log)

	// 7. Initialize use cases
	geocodingUC := usecase.NewGeocodingUseCase(geocoder, log, m, cfg.Geocoder.MinScore)
	coverageUC := usecase.NewCoverageUseCase(geocodingUC, siteRepo, log, m, cfg.Coverage.SearchRadiusMeters)
	statsUC := usecase.NewStatsUseCase(siteRepo, log)

	// 8. Initialize HTTP handlers and server
	coverageHandler := handler.NewCoverageHandler(coverageUC, log)
	statsHandler := handler.NewStatsHandler(statsUC, log)

	server := httpDelivery.NewServer(cfg, log, coverageHandler, statsHandler)

	// 9. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 10. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
