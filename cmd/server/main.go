package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/oikos/disc-backend/internal/bootstrap"
	"github.com/oikos/disc-backend/internal/config"
	"github.com/oikos/disc-backend/internal/database"
	"github.com/oikos/disc-backend/internal/disc"
	"github.com/oikos/disc-backend/internal/handler"
	"github.com/oikos/disc-backend/internal/logger"
	"github.com/oikos/disc-backend/internal/metrics"
	"github.com/oikos/disc-backend/internal/middleware"
	"github.com/oikos/disc-backend/internal/repository"
	"github.com/oikos/disc-backend/internal/router"
	"github.com/oikos/disc-backend/internal/service"
	"github.com/oikos/disc-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("store", cfg.StoreDriver).
		Str("log_level", cfg.LogLevel).
		Msg("Starting DISC Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	// ─── Load Questionnaire Catalog ────────────────────────────────────
	catalog, err := disc.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.CatalogFile).Msg("Failed to load catalog")
	}
	log.Info().
		Int("questions", catalog.QuestionCount()).
		Int("profiles", len(catalog.Profiles)).
		Msg("Catalog loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to the result store ───────────────────────────────────
	stores, err := bootstrap.OpenStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer stores.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Metrics ───────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(registry)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register metrics")
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	stateRepo := repository.NewFlowStateRepository(rdb, cfg.SessionTTL)
	publisher := repository.NewResultPublisher(rdb)

	// ─── Initialize Services ──────────────────────────────────────────
	presenter := service.NewPresenter(catalog)
	authService := service.NewAuthService(cfg, service.NewEmailAllowlist(cfg.AdminEmails))
	resultService := service.NewResultService(stores.Results, stores.Dashboard, log)
	flowService := service.NewFlowService(presenter, stores.Users, resultService, stateRepo, publisher, m, log)
	exportService := service.NewExportService(cfg.PDFFontPath, m, log)

	if _, err := os.Stat(cfg.PDFFontPath); err != nil {
		log.Warn().Str("font", cfg.PDFFontPath).Msg("PDF font not found, result PDF export will fail")
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:          handler.NewAuthHandler(authService, flowService, log),
		Flow:          handler.NewFlowHandler(flowService, exportService, log),
		Admin:         handler.NewAdminHandler(resultService, exportService, log),
		Questionnaire: handler.NewQuestionnaireHandler(presenter),
		WS:            handler.NewWSHandler(publisher, resultService, m, log, cfg.AllowedOrigins),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(router.Deps{
		Auth:        authService,
		Sessions:    flowService,
		LoginLimit:  middleware.NewRateLimiter(rdb, cfg.LoginRateLimit, time.Minute, log),
		Metrics:     m,
		MetricsFrom: registry,
	}, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// Stop accepting new HTTP requests (5s timeout). Open result streams end
	// with their request contexts.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
