package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/loandesk/dashboard/internal/cache"
	"github.com/loandesk/dashboard/internal/client"
	"github.com/loandesk/dashboard/internal/config"
	"github.com/loandesk/dashboard/internal/service"
)

// The refresher keeps the loan-list cache warm so the grid serves from cache
// between user actions. Entries are replaced wholesale on every run.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	httpClient := &http.Client{Timeout: cfg.GetAPITimeout()}
	queryClient := client.NewQueryClient(cfg.API.BaseURL, httpClient)
	paymentClient := client.NewPaymentClient(cfg.API.BaseURL, httpClient)
	queryCache := cache.NewQueryCache(redisClient, cfg.GetCacheTTL())

	dashboardService := service.NewDashboardService(
		queryClient,
		paymentClient,
		queryCache,
		logger,
		cfg.View.DefaultPageSize,
	)

	c := cron.New(cron.WithSeconds())

	_, err = c.AddFunc(cfg.Refresher.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.GetAPITimeout())
		defer cancel()

		if err := dashboardService.RefreshLoans(ctx); err != nil {
			logger.Error("loan list refresh failed", "error", err)
		}
	})
	if err != nil {
		logger.Error("invalid refresh schedule", "schedule", cfg.Refresher.Schedule, "error", err)
		os.Exit(1)
	}

	c.Start()
	logger.Info("refresher started", "schedule", cfg.Refresher.Schedule)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down refresher")
	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(10 * time.Second):
	}
	logger.Info("refresher stopped")
}
