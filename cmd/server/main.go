package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/procurehq/lpoflow/internal/api"
	"github.com/procurehq/lpoflow/internal/auth"
	"github.com/procurehq/lpoflow/internal/cache"
	"github.com/procurehq/lpoflow/internal/config"
	"github.com/procurehq/lpoflow/internal/mailer"
	"github.com/procurehq/lpoflow/internal/repository/postgres"
	"github.com/procurehq/lpoflow/internal/service"
	"github.com/procurehq/lpoflow/internal/storage"
	"github.com/procurehq/lpoflow/internal/wizard"
	"github.com/procurehq/lpoflow/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.Setup(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Redis backs both the dashboard cache and the wizard draft store; when
	// disabled the server falls back to in-process equivalents.
	summaryCache := cache.NewNoopDashboardCache()
	draftStore := wizard.NewMemoryDraftStore()
	if cfg.Cache.Enabled {
		client, err := cache.NewClient(cfg.Cache)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Redis unavailable, using in-process cache and draft store")
		} else {
			summaryCache = cache.NewDashboardCache(client, time.Duration(cfg.Cache.DashboardTTLSeconds)*time.Second)
			draftStore = wizard.NewRedisDraftStore(client, time.Duration(cfg.Cache.DraftTTLHours)*time.Hour)
		}
	}

	authProvider, err := auth.NewStaticProvider(cfg.Auth)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize auth provider")
	}

	sender := mailer.NewLogSender()
	if cfg.Mail.Enabled {
		gmailSender, err := mailer.NewGmailSender(cfg.Mail.CredentialsJSON, cfg.Mail.From)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize Gmail sender")
		}
		sender = gmailSender
	}

	var objectStore storage.ObjectStorage
	if cfg.Storage.Enabled {
		minioClient, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
		if err := minioClient.EnsureBucket(context.Background()); err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to ensure export bucket")
		}
		objectStore = minioClient
	}

	vendorRepo := postgres.NewVendorRepository(db)
	lpoRepo := postgres.NewLpoRepository(db)
	reminderRepo := postgres.NewReminderRepository(db)
	reportRepo := postgres.NewReportRepository(db)

	services := &api.Services{
		Auth:             authProvider,
		VendorService:    service.NewVendorService(vendorRepo),
		LpoService:       service.NewLpoService(lpoRepo, vendorRepo, draftStore, summaryCache),
		DashboardService: service.NewDashboardService(lpoRepo, summaryCache),
		ReminderService:  service.NewReminderService(reminderRepo),
		ReportService:    service.NewReportService(reportRepo, sender),
		ExportService:    service.NewExportService(lpoRepo, objectStore),
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

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
