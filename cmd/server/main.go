package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/loandesk/dashboard/internal/cache"
	"github.com/loandesk/dashboard/internal/client"
	"github.com/loandesk/dashboard/internal/config"
	"github.com/loandesk/dashboard/internal/handler"
	"github.com/loandesk/dashboard/internal/service"
	"github.com/loandesk/dashboard/internal/view"
	"github.com/loandesk/dashboard/pkg/response"
)

func main() {
	// .env is optional; config falls back to real environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	httpClient := &http.Client{Timeout: cfg.GetAPITimeout()}

	// External collaborators
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

	notices := view.NewNotificationCenter(cfg.GetNotificationTTL())
	listController := view.NewListController(dashboardService, dashboardService, notices, logger)
	historyController := view.NewHistoryController(dashboardService)

	dashboardHandler := handler.NewDashboardHandler(dashboardService, listController, historyController, logger)
	healthHandler := handler.NewHealthHandler(redisClient, cfg.API.BaseURL, httpClient)

	router := setupRoutes(dashboardHandler, healthHandler, logger)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr, "api_base_url", cfg.API.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Logging.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(dashboardHandler *handler.DashboardHandler, healthHandler *handler.HealthHandler, logger *slog.Logger) *mux.Router {
	router := mux.NewRouter()

	router.Use(response.RequestIDMiddleware)
	router.Use(response.CORSMiddleware)
	router.Use(response.LoggingMiddleware(logger))

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/loans", dashboardHandler.ListLoans).Methods("GET")
	api.HandleFunc("/loans/{loanId}/payments", dashboardHandler.GetPayments).Methods("GET")
	api.HandleFunc("/loans/{loanId}/payment", dashboardHandler.MakePayment).Methods("POST")
	api.HandleFunc("/view", dashboardHandler.GetViewState).Methods("GET")
	api.HandleFunc("/view/panel/close", dashboardHandler.CloseDetailPanel).Methods("POST")
	api.HandleFunc("/view/prompt/close", dashboardHandler.ClosePaymentPrompt).Methods("POST")

	return router
}
