package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/procurehq/lpoflow/internal/cache"
	"github.com/procurehq/lpoflow/internal/config"
	"github.com/procurehq/lpoflow/internal/mailer"
	"github.com/procurehq/lpoflow/internal/notify"
	"github.com/procurehq/lpoflow/internal/repository/postgres"
	"github.com/procurehq/lpoflow/internal/service"
	"github.com/procurehq/lpoflow/pkg/logger"
)

// The notifier keeps the dashboard cache honest: it subscribes to the LPO
// change channel and drops the cached summary whenever any writer commits
// a change, including writers that bypass the API server.
func main() {
	cfg := config.Load()
	logger.Setup(cfg.Server.Mode)

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	summaryCache := cache.NewNoopDashboardCache()
	if cfg.Cache.Enabled {
		client, err := cache.NewClient(cfg.Cache)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Redis unavailable, nothing to invalidate")
		}
		summaryCache = cache.NewDashboardCache(client, time.Duration(cfg.Cache.DashboardTTLSeconds)*time.Second)
	}

	dashboardService := service.NewDashboardService(postgres.NewLpoRepository(db), summaryCache)

	var (
		mu        sync.Mutex
		lastEvent *notify.Event
		lastSeen  time.Time
		seen      int64
	)

	listener := notify.NewListener(&cfg.Database, func(ctx context.Context, ev notify.Event) {
		mu.Lock()
		lastEvent = &ev
		lastSeen = time.Now().UTC()
		seen++
		mu.Unlock()

		if err := dashboardService.Invalidate(ctx); err != nil {
			logger.Log.Warn().Err(err).Str("op", ev.Op).Msg("failed to invalidate dashboard cache")
			return
		}
		logger.Log.Info().Str("op", ev.Op).Str("lpo_id", ev.LpoID).Msg("dashboard cache invalidated")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := listener.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Log.Fatal().Err(err).Msg("change listener stopped")
		}
	}()

	// Optional hourly digest summarizing change activity.
	if recipient := os.Getenv("NOTIFIER_DIGEST_RECIPIENT"); recipient != "" && cfg.Mail.Enabled {
		sender, err := mailer.NewGmailSender(cfg.Mail.CredentialsJSON, cfg.Mail.From)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize digest sender")
		}
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			var reported int64
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
				mu.Lock()
				delta := seen - reported
				reported = seen
				mu.Unlock()
				if delta == 0 {
					continue
				}
				body := fmt.Sprintf("%d LPO change(s) in the last hour.", delta)
				if err := sender.Send(ctx, []string{recipient}, "LPO change digest", body); err != nil {
					logger.Log.Warn().Err(err).Msg("failed to send change digest")
				}
			}
		}()
	}

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	r.HandleFunc("/status", func(w http.ResponseWriter, req *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"channel":    notify.Channel,
			"events":     seen,
			"last_event": lastEvent,
			"last_seen":  lastSeen,
		})
	}).Methods("GET")

	// Manual escape hatch for operators: force-drop the cached summary.
	r.HandleFunc("/invalidate", func(w http.ResponseWriter, req *http.Request) {
		if err := dashboardService.Invalidate(req.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalidation failed"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"message": "cache invalidated"})
	}).Methods("POST")

	port := os.Getenv("NOTIFIER_PORT")
	if port == "" {
		port = "8090"
	}
	srv := &http.Server{Addr: fmt.Sprintf(":%s", port), Handler: r}

	go func() {
		logger.Log.Info().Str("port", port).Msg("Starting notifier")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start notifier")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Notifier forced to shutdown")
	}
	logger.Log.Info().Msg("Notifier exiting")
}
