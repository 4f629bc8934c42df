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

	"github.com/halvarsson/hemma/internal/ai"
	"github.com/halvarsson/hemma/internal/database"
	"github.com/halvarsson/hemma/internal/logging"
	"github.com/halvarsson/hemma/internal/push"
	"github.com/halvarsson/hemma/internal/server"
	"github.com/halvarsson/hemma/internal/storage"
)

func main() {
	// A missing .env is fine; the environment may be set another way.
	_ = godotenv.Load()

	logger := logging.Setup(os.Getenv("HEMMA_LOG_LEVEL"), os.Getenv("HEMMA_LOG_FORMAT"))

	port := envOr("HEMMA_PORT", "8080")
	dbPath := envOr("HEMMA_DB_PATH", "hemma.db")

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	vapidPublic := os.Getenv("HEMMA_VAPID_PUBLIC_KEY")
	vapidPrivate := os.Getenv("HEMMA_VAPID_PRIVATE_KEY")
	if vapidPublic == "" || vapidPrivate == "" {
		// Ephemeral keys keep push working in dev; browsers re-subscribe
		// after every restart. Set the env vars in production.
		vapidPublic, vapidPrivate, err = push.GenerateVAPIDKeys()
		if err != nil {
			log.Fatalf("failed to generate VAPID keys: %v", err)
		}
		logger.Warn("using ephemeral VAPID keys, set HEMMA_VAPID_PUBLIC_KEY and HEMMA_VAPID_PRIVATE_KEY")
	}

	cfg := server.Config{
		SecureCookies:   os.Getenv("HEMMA_SECURE_COOKIES") == "true",
		VAPIDPublicKey:  vapidPublic,
		VAPIDPrivateKey: vapidPrivate,
		PushSubscriber:  os.Getenv("HEMMA_PUSH_SUBSCRIBER"),
		Storage: storage.Config{
			Endpoint:  os.Getenv("HEMMA_S3_ENDPOINT"),
			Bucket:    os.Getenv("HEMMA_S3_BUCKET"),
			Region:    envOr("HEMMA_S3_REGION", "auto"),
			AccessKey: os.Getenv("HEMMA_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("HEMMA_S3_SECRET_KEY"),
		},
		AI: ai.Config{
			URL:    os.Getenv("HEMMA_AI_URL"),
			APIKey: os.Getenv("HEMMA_AI_API_KEY"),
			Model:  os.Getenv("HEMMA_AI_MODEL"),
		},
	}

	srv := server.New(db, cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv.Sweeper().Start(ctx)
	defer srv.Sweeper().Stop()

	srv.ThemeResolver().Start(ctx, time.Hour)
	defer srv.ThemeResolver().Stop()

	// Hourly cleanup of expired sessions and stale rate-limit windows.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					logger.Error("session cleanup failed", "error", err)
				} else if n > 0 {
					logger.Info("expired sessions removed", "count", n)
				}
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("hemma listening", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
