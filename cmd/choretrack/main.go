package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/choretrack/internal/backup"
	"github.com/dukerupert/choretrack/internal/database"
	"github.com/dukerupert/choretrack/internal/logging"
	"github.com/dukerupert/choretrack/internal/secure"
	"github.com/dukerupert/choretrack/internal/server"
	"github.com/dukerupert/choretrack/internal/store"
)

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := logging.Setup(os.Getenv("CHORETRACK_LOG_LEVEL"))
	audit := logging.NewAudit(os.Stdout)

	port := envDefault("CHORETRACK_PORT", "8080")
	dbPath := envDefault("CHORETRACK_DB_PATH", "choretrack.db")

	// Dev fallbacks keep local setup to a single command; set real values
	// in production.
	tokenSecret := envDefault("CHORETRACK_TOKEN_SECRET", "dev-token-secret")
	apiKey := envDefault("CHORETRACK_API_KEY", "dev-api-key")
	passphrase := envDefault("CHORETRACK_ENCRYPTION_PASSPHRASE", "dev-encryption-passphrase")

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	box, err := secure.NewBox(passphrase)
	if err != nil {
		logger.Error("failed to initialize field encryption", "error", err)
		os.Exit(1)
	}

	srv := server.New(db, box, server.Config{
		APIKey:      apiKey,
		TokenSecret: tokenSecret,
	}, logger, audit)

	backupInterval := 24 * time.Hour
	if raw := os.Getenv("CHORETRACK_BACKUP_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			backupInterval = d
		} else {
			logger.Warn("invalid CHORETRACK_BACKUP_INTERVAL, using default", "value", raw)
		}
	}

	backupMgr := backup.NewManager(backup.Config{
		S3: backup.S3Config{
			Endpoint:  os.Getenv("CHORETRACK_S3_ENDPOINT"),
			Bucket:    os.Getenv("CHORETRACK_S3_BUCKET"),
			Region:    envDefault("CHORETRACK_S3_REGION", "us-east-1"),
			AccessKey: os.Getenv("CHORETRACK_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("CHORETRACK_S3_SECRET_KEY"),
		},
		Interval:   backupInterval,
		Passphrase: passphrase,
	}, db, store.NewBackupStore(db), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backupMgr.Start(ctx)
	defer backupMgr.Stop()

	// Drop expired rate-limit windows periodically
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("choretrack listening", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
