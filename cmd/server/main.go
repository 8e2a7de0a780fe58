package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/walidcherhane/star-buster-api/internal/api"
	"github.com/walidcherhane/star-buster-api/internal/config"
	"github.com/walidcherhane/star-buster-api/internal/db"
	"github.com/walidcherhane/star-buster-api/internal/github"
	"github.com/walidcherhane/star-buster-api/internal/models"

	_ "github.com/walidcherhane/star-buster-api/docs"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	logger.SetOutput(os.Stdout)

	// Load configuration with defaults
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.DBConnectionString == "" {
		logger.Fatal("Missing required configuration (DB_CONNECTION_STRING must be set)")
	}
	if cfg.GitHubToken == "" {
		logger.Warn("GITHUB_TOKEN not set; running against the unauthenticated API quota")
	}

	// Initialize database
	store, err := db.NewPostgresStore(cfg.DBConnectionString)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}

	// Run migrations with retry logic
	if err := retry(3, 5*time.Second, func() error {
		return store.Migrate()
	}); err != nil {
		logger.Fatalf("Failed to run migrations after retries: %v", err)
	}

	// Periodically sweep expired analyses
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	go cleanupExpired(cleanupCtx, store, cfg.CacheTTL, logger)

	// Initialize services
	client := github.NewClient(cfg.GitHubToken, logger,
		github.WithRetryConfig(cfg.GitHub.RateLimit),
		github.WithDelays(cfg.Analysis.PageDelay, cfg.Analysis.UserDelay),
	)
	service := github.NewService(client, store, cfg.CacheTTL, logger)

	defaults := models.AnalysisOptions{
		Deep:     true,
		MaxStars: cfg.Analysis.MaxStars,
		MaxUsers: cfg.Analysis.MaxUsers,
	}
	handler := api.NewHandler(service, defaults, logger)
	router := api.SetupRouter(handler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cleanupCancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	if err := store.Close(); err != nil {
		logger.Errorf("Database close failed: %v", err)
	}
	logger.Info("Server exited properly")
}

// cleanupExpired deletes expired analysis rows on a fixed interval until
// ctx is cancelled. The sweep interval tracks the cache TTL but never
// runs more than once an hour.
func cleanupExpired(ctx context.Context, store db.Store, ttl time.Duration, logger *logrus.Logger) {
	interval := ttl / 2
	if interval < time.Hour {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := store.DeleteExpired(ctx)
			if err != nil {
				logger.WithError(err).Error("Failed to delete expired analyses")
				continue
			}
			if deleted > 0 {
				logger.WithField("deleted", deleted).Info("Removed expired analyses")
			}
		}
	}
}

// retry retries a function up to a certain number of attempts with a delay between attempts
func retry(attempts int, sleep time.Duration, fn func() error) error {
	if err := fn(); err != nil {
		if attempts--; attempts > 0 {
			time.Sleep(sleep)
			return retry(attempts, sleep, fn)
		}
		return err
	}
	return nil
}
