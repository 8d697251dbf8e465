package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/consult-assistant/internal/api"
	assistantapi "github.com/futig/consult-assistant/internal/api/assistant"
	documentapi "github.com/futig/consult-assistant/internal/api/document"
	"github.com/futig/consult-assistant/internal/config"
	"github.com/futig/consult-assistant/internal/guardrail"
	"github.com/futig/consult-assistant/internal/integration/embedding"
	"github.com/futig/consult-assistant/internal/integration/llm"
	"github.com/futig/consult-assistant/internal/kv"
	"github.com/futig/consult-assistant/internal/pkg/validator"
	"github.com/futig/consult-assistant/internal/repository"
	"github.com/futig/consult-assistant/internal/retrieval"
	"github.com/futig/consult-assistant/internal/theme"
	"github.com/futig/consult-assistant/internal/usecase/assistant"
	"github.com/futig/consult-assistant/internal/usecase/ingest"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

const mockEmbeddingDimension = 1024

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
		zap.Bool("mocks", cfg.EnableMocks),
	)

	app := &App{logger: logger}

	// Setup storage
	var (
		vectorRepo   repository.VectorRepository
		documentRepo repository.DocumentRepository
	)
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL is not set, using in-memory knowledge base")
		memory := repository.NewVectorMemory()
		vectorRepo, documentRepo = memory, memory
	} else {
		pool, err := setupDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}
		app.db = pool

		logger.Info("Running database migrations")
		if err := repository.RunMigrations(cfg.MigrationsPath, cfg.DatabaseURL); err != nil {
			app.close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("Database migrations completed successfully")

		sqlDB := stdlib.OpenDBFromPool(pool)
		app.sqlDB = sqlDB
		vectorRepo = repository.NewVectorPostgres(sqlDB)
		documentRepo = repository.NewDocumentPostgres(sqlDB)
	}
	logger.Info("Repositories initialized")

	store, redisClient, err := setupKV(ctx, cfg.CacheCfg, logger)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("setup key-value store: %w", err)
	}
	app.redis = redisClient

	// Initialize external service connectors (with mock support)
	var (
		embedder     retrieval.Embedder
		llmConnector assistant.LLMConnector
	)
	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		embedder = embedding.NewMockConnector(mockEmbeddingDimension, logger)
		llmConnector = llm.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		embedder = embedding.NewConnector(cfg.EmbeddingCfg, logger)
		llmConnector = llm.NewConnector(cfg.LLMCfg, logger)
	}

	// Initialize pipeline components
	retriever := retrieval.NewRetriever(embedder, vectorRepo,
		retrieval.WithCache(kv.NewCache(store), cfg.AssistantCfg.RetrievalCacheTTL),
	)
	classifier := theme.NewClassifier()
	tracker := theme.NewTracker(classifier, cfg.AssistantCfg.ThemeDebounce, logger)
	app.themes = tracker

	// Initialize use cases
	assistantUC := assistant.NewUsecase(
		cfg.AssistantCfg,
		kv.NewRateLimiter(store),
		retriever,
		llmConnector,
		guardrail.NewValidator(),
		tracker,
		classifier,
		logger,
	)
	ingestUC := ingest.NewUsecase(
		documentRepo,
		embedder,
		cfg.ChunkingCfg,
		cfg.EmbeddingCfg.BatchSize,
		logger,
	)
	logger.Info("Use cases initialized")

	// Setup API handlers
	requestValidator := validator.NewValidator(cfg.AssistantCfg)
	assistantHandler := assistantapi.NewHandler(assistantUC, requestValidator)
	documentHandler := documentapi.NewHandler(ingestUC, requestValidator)

	router := api.SetupRouter(api.RouterConfig{
		RequestTimeout: cfg.RequestTimeout,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}, assistantHandler, documentHandler, logger)
	logger.Info("HTTP router configured")

	app.server = &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return app, nil
}
