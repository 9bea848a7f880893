package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/adapters/datasource"
	_ "github.com/chaiyo-ai/chaiyo-engine/pkg/adapters/datasource/mssql"
	_ "github.com/chaiyo-ai/chaiyo-engine/pkg/adapters/datasource/postgres"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/config"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/database"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/handlers"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/intent"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/llm"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/middleware"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/repositories"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/services"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/tenant"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load("config.yaml", Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := buildLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model),
		zap.Int("tenants", len(cfg.Tenants)),
		zap.Bool("engine_store", cfg.EngineStore.Enabled()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Engine store is optional; without it history endpoints are off.
	var history repositories.QueryHistoryRepository
	if cfg.EngineStore.Enabled() {
		migrationDB, err := sql.Open("pgx", cfg.EngineStore.ConnectionString())
		if err != nil {
			logger.Fatal("Failed to open engine store for migration", zap.Error(err))
		}
		if err := database.RunMigrations(migrationDB, cfg.EngineStore.MigrationsPath, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		_ = migrationDB.Close()

		store, err := database.NewConnection(ctx, &database.Config{
			URL:            cfg.EngineStore.ConnectionString(),
			MaxConnections: cfg.EngineStore.MaxConnections,
		})
		if err != nil {
			logger.Fatal("Failed to connect to engine store", zap.Error(err))
		}
		defer store.Close()
		history = repositories.NewQueryHistoryRepository(store)
	}

	llmClient, err := llm.NewClient(&llm.Config{
		Provider: cfg.LLM.Provider,
		Endpoint: cfg.LLM.Endpoint,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	connTTL := time.Duration(cfg.Pipeline.ConnectionTTLMinutes) * time.Minute
	connMgr := datasource.NewConnectionManager(connTTL, logger)
	executors := datasource.NewAdapterFactory(connMgr, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	stats := services.NewStatsService(registry)

	stageTimeout := time.Duration(cfg.Pipeline.StageTimeoutSeconds) * time.Second
	pipeline := services.NewPipelineService(
		intent.NewDetector(),
		services.NewSQLGenerator(llmClient, cfg.LLM.SQLTemperature, logger),
		services.NewResultCleaner(),
		services.NewAnswerComposer(llmClient, cfg.LLM.AnswerTemperature, logger),
		tenant.NewRegistry(cfg),
		executors,
		stats,
		history,
		stageTimeout,
		logger,
	)
	defer pipeline.Shutdown()

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAskHandler(pipeline, logger).RegisterRoutes(mux)
	handlers.NewStatsHandler(stats, logger).RegisterRoutes(mux)
	handlers.NewHistoryHandler(history, logger).RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              cfg.BindAddr + ":" + cfg.Port,
		Handler:           middleware.RequestLogger(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting chaiyo-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Graceful shutdown incomplete", zap.Error(err))
	}
}

// buildLogger returns a production JSON logger everywhere except local
// development.
func buildLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
