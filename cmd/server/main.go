package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"knowyourplate/config"
	"knowyourplate/internal/database"
	"knowyourplate/internal/logger"
	"knowyourplate/internal/metrics"
	"knowyourplate/internal/middleware"
	"knowyourplate/internal/router"
	"knowyourplate/internal/ws"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	log := logger.New("knowyourplate", cfg.Log.Level)
	if err := cfg.Validate(); err != nil {
		log.Entry().WithError(err).Fatal("config")
	}

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Entry().WithError(err).Fatal("database")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Entry().WithError(err).Fatal("migrate")
	}

	ctx := context.Background()
	if err := database.SeedAdmin(ctx, db, &cfg.Admin, log); err != nil {
		log.Entry().WithError(err).Fatal("seed admin")
	}
	if cfg.Survey.SeedQuestions {
		n, err := database.SeedQuestions(ctx, db)
		if err != nil {
			log.Entry().WithError(err).Fatal("seed questions")
		}
		if n > 0 {
			log.Entry().WithField("count", n).Info("seeded default questions")
		}
	}

	limiter, closeLimiter := newLimiter(ctx, cfg, log)
	defer closeLimiter()

	engine := router.Setup(cfg, db, router.Deps{
		Log:     log,
		Metrics: metrics.New(),
		Limiter: limiter,
		Hub:     ws.NewHub(),
	})
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Entry().WithField("port", cfg.Server.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Entry().WithError(err).Fatal("listen")
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Entry().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Entry().WithError(err).Error("server shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Entry().Info("server stopped")
}

// newLimiter prefers the shared Redis limiter and falls back to the
// per-process one when Redis is not configured or unreachable.
func newLimiter(ctx context.Context, cfg *config.Config, log *logger.Logger) (middleware.Limiter, func()) {
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Entry().WithError(err).Warn("invalid REDIS_URL, using in-memory rate limiter")
		} else {
			client := redis.NewClient(opts)
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err = client.Ping(pingCtx).Err()
			cancel()
			if err == nil {
				log.Entry().Info("rate limiter backed by redis")
				return middleware.NewRedisRateLimiter(client, cfg.RateLimit.Requests, cfg.RateLimit.Window), func() { _ = client.Close() }
			}
			log.Entry().WithError(err).Warn("redis unreachable, using in-memory rate limiter")
			_ = client.Close()
		}
	}
	l := middleware.NewInMemoryRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	return l, l.Close
}
