package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pickteum-api/internal/api"
	"github.com/pickteum-api/internal/cache"
	"github.com/pickteum-api/internal/config"
	"github.com/pickteum-api/internal/database"
	"github.com/pickteum-api/internal/repository"
	"github.com/pickteum-api/internal/service"
	"github.com/pickteum-api/internal/storage"
	"github.com/pickteum-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log := logger.New("info", "json")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting Pickteum API server...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// "server migrate-down" rolls back the newest migration and exits
	if len(os.Args) > 1 && os.Args[1] == "migrate-down" {
		if err := db.MigrateDown(cfg.Server.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to roll back migration")
		}
		return
	}

	// Run migrations
	if err := db.RunMigrations(cfg.Server.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Sessions and the category cache live in redis; fall back to process memory
	var kv cache.Store
	if redisStore, err := cache.NewRedisStore(&cfg.Redis); err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, using in-memory cache; sessions will not survive restarts")
		kv = cache.NewMemoryStore()
	} else {
		kv = redisStore
	}
	defer kv.Close()

	// Media object storage
	objects, err := storage.NewS3Store(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure object storage")
	}

	// Initialize repositories and services
	repos := repository.New(db)
	services := service.NewServices(repos, kv, objects, cfg, log)
	services.Database = db

	if n, err := services.Category.SeedDefaults(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to seed default categories")
	} else if n > 0 {
		log.Info().Int("count", n).Msg("Seeded default categories")
	}

	// Start background workers
	if cfg.Scheduler.Enabled {
		if err := services.Scheduler.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}
	go services.Autosave.StartProcessor(ctx)

	// Initialize router
	router := api.NewRouter(services, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := shutdown(shutdownCtx, srv, services); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	cancel()

	log.Info().Msg("Server exited gracefully")
}

// shutdown stops the scheduler, drains in-flight requests, then stops autosave.
// Drafts staged by the drained requests are written by the final flush.
func shutdown(ctx context.Context, srv *http.Server, services *service.Services) error {
	services.Scheduler.Stop()
	err := srv.Shutdown(ctx)
	services.Autosave.StopProcessor()
	return err
}
