package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/olives-green/fieldops-bff-go/internal/config"
	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/handler"
	"github.com/olives-green/fieldops-bff-go/internal/infra/cache"
	"github.com/olives-green/fieldops-bff-go/internal/infra/client"
	"github.com/olives-green/fieldops-bff-go/internal/infra/observability"
	"github.com/olives-green/fieldops-bff-go/internal/infra/resilience"
	"github.com/olives-green/fieldops-bff-go/internal/infra/stripepay"
	"github.com/olives-green/fieldops-bff-go/internal/service"
	"github.com/olives-green/fieldops-bff-go/internal/session"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("gateway_url", cfg.GatewayURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Int("upload_concurrency", cfg.UploadConcurrency),
	)
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, session tokens are decoded without signature verification")
	}

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "fieldops-bff")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	pageCache := cache.New[[]domain.ServicePage](cfg.CacheTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.UploadConcurrency,
	}

	// One breaker per upstream so a job-service outage does not take the
	// content pages down with it.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	token := client.TokenSource(session.TokenFromContext)

	jobClient := client.NewJobServiceClient(httpClient, cfg.GatewayURL, token,
		resilience.NewCircuitBreaker("job-service"), resilienceCfg)
	customerClient := client.NewCustomerServiceClient(httpClient, cfg.GatewayURL, token,
		resilience.NewCircuitBreaker("customer-service"), resilienceCfg)
	userClient := client.NewUserServiceClient(httpClient, cfg.GatewayURL, token,
		resilience.NewCircuitBreaker("user-service"), resilienceCfg)
	contentClient := client.NewContentServiceClient(httpClient, cfg.GatewayURL, token,
		resilience.NewCircuitBreaker("content-service"), resilienceCfg)
	invoiceClient := client.NewInvoiceServiceClient(httpClient, cfg.GatewayURL, token,
		resilience.NewCircuitBreaker("invoice-service"), resilienceCfg)
	storageClient := client.NewStorageClient(httpClient, cfg.GatewayURL, token,
		resilience.NewCircuitBreaker("storage"), resilienceCfg, cfg.UploadConcurrency)

	confirmer := stripepay.NewConfirmer(cfg.StripeAPIKey)

	// --- Services ---
	// The content service wraps the page cache; estimates and jobs read
	// the classifier taxonomy through it, not the raw client.
	contentSvc := service.NewContent(contentClient, pageCache, metrics, logger)
	intakeSvc := service.NewIntake(customerClient, jobClient, metrics, logger)
	estimatesSvc := service.NewEstimates(jobClient, contentSvc, metrics, logger)
	approvalsSvc := service.NewApprovals(jobClient, invoiceClient, confirmer, metrics, logger)
	jobsSvc := service.NewJobs(jobClient, userClient, contentSvc, metrics, logger)
	usersSvc := service.NewUsers(userClient, logger)
	dashboardSvc := service.NewDashboard(jobClient, jobClient, userClient, metrics, logger)
	mediaSvc := service.NewMedia(storageClient, logger)

	// --- Router ---
	router := handler.NewRouter(handler.Deps{
		Intake:     intakeSvc,
		Estimates:  estimatesSvc,
		Approvals:  approvalsSvc,
		Jobs:       jobsSvc,
		Users:      usersSvc,
		Content:    contentSvc,
		Dashboard:  dashboardSvc,
		Media:      mediaSvc,
		Guard:      session.NewGuard(cfg.JWTSecret),
		Metrics:    metrics,
		Logger:     logger,
		CORSOrigin: cfg.AllowedOrigins,
	})

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
