// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/samhanlabs/gmvboard/internal/api"
	"github.com/samhanlabs/gmvboard/internal/cache"
	"github.com/samhanlabs/gmvboard/internal/config"
	"github.com/samhanlabs/gmvboard/internal/ingest"
	"github.com/samhanlabs/gmvboard/internal/repository/postgres"
	"github.com/samhanlabs/gmvboard/internal/service"
	"github.com/samhanlabs/gmvboard/internal/storage"
	"github.com/samhanlabs/gmvboard/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Dashboard cache falls back to a no-op when Redis is unavailable
	// so that a cache outage never takes the API down.
	dashboardCache := cache.NewNoopDashboardCache()
	if cfg.Cache.Enabled {
		c, err := cache.NewDashboardCache(cfg.Cache)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Redis unavailable, dashboard cache disabled")
		} else {
			dashboardCache = c
		}
	}

	// Workbook archive is optional and best-effort.
	var archive storage.ObjectStorage
	if cfg.Archive.Enabled {
		client, err := storage.NewMinioClient(cfg.Archive)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Object storage unavailable, workbook archiving disabled")
		} else {
			archive = client
		}
	}

	voc := ingest.DefaultVocabulary()
	if cfg.Ingest.DefaultCurrency != "" {
		voc.DefaultCurrency = cfg.Ingest.DefaultCurrency
	}

	// Initialize repositories and services
	campaignRepo := postgres.NewCampaignRepository(db)
	oplogRepo := postgres.NewOperationLogRepository(db)
	contactRepo := postgres.NewContactRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)

	services := &api.Services{
		IngestService:    service.NewIngestService(voc, campaignRepo, oplogRepo, dashboardCache, archive),
		DashboardService: service.NewDashboardService(campaignRepo, dashboardCache),
		ContactService:   service.NewContactService(contactRepo),
		TicketService:    service.NewTicketService(ticketRepo),
		AuditService:     service.NewAuditService(oplogRepo),
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
