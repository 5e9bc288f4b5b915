package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cardifyhq/cardify-backend/internal/api"
	cardapi "github.com/cardifyhq/cardify-backend/internal/api/card"
	sessionapi "github.com/cardifyhq/cardify-backend/internal/api/session"
	userapi "github.com/cardifyhq/cardify-backend/internal/api/user"
	"github.com/cardifyhq/cardify-backend/internal/config"
	"github.com/cardifyhq/cardify-backend/internal/integration/download"
	"github.com/cardifyhq/cardify-backend/internal/integration/embedding"
	"github.com/cardifyhq/cardify-backend/internal/integration/generation"
	"github.com/cardifyhq/cardify-backend/internal/integration/parseservice"
	"github.com/cardifyhq/cardify-backend/internal/pipeline"
	"github.com/cardifyhq/cardify-backend/internal/pipeline/coercer"
	"github.com/cardifyhq/cardify-backend/internal/pipeline/fetcher"
	"github.com/cardifyhq/cardify-backend/internal/pipeline/index"
	"github.com/cardifyhq/cardify-backend/internal/pipeline/nodeparser"
	"github.com/cardifyhq/cardify-backend/internal/pkg/auth"
	"github.com/cardifyhq/cardify-backend/internal/pkg/formatter"
	"github.com/cardifyhq/cardify-backend/internal/pkg/validator"
	"github.com/cardifyhq/cardify-backend/internal/repository"
	"github.com/cardifyhq/cardify-backend/internal/usecase/card"
	"github.com/cardifyhq/cardify-backend/internal/usecase/session"
	"github.com/cardifyhq/cardify-backend/internal/usecase/user"
)

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
	)

	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	userRepo := repository.NewUserPostgres(db)
	sessionRepo := repository.NewSessionPostgres(db)
	cardRepo := repository.NewCardPostgres(db)
	logger.Info("Repositories initialized")

	// External service connectors (with mock support)
	var downloadConn fetcher.Downloader
	var parseConn fetcher.ParseConnector
	var embedConn index.Embedder
	var generationConn generationConnector

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		downloadConn = download.NewMockConnector(logger)
		parseConn = parseservice.NewMockConnector(logger)
		embedConn = embedding.NewMockConnector(logger)
		generationConn = generation.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		downloadConn = download.NewConnector(cfg.FetcherCfg.DownloadTimeout, logger)
		parseConn = parseservice.NewConnector(cfg.ParseConnectorCfg, logger)
		embedConn = embedding.NewConnector(cfg.EmbeddingConnectorCfg, logger)
		generationConn = generation.NewConnector(cfg.GenerationConnectorCfg, logger)
	}

	store, err := fetcher.NewFSStore(cfg.FetcherCfg.CacheDir)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init document store: %w", err)
	}

	docFetcher := fetcher.NewFetcher(downloadConn, parseConn, store, cfg.FetcherCfg.MemoTTL, logger)

	builderOpts := []index.BuilderOption{
		index.WithWorkers(cfg.PipelineCfg.EmbedWorkers),
	}
	if cfg.PipelineCfg.EnableRerank {
		builderOpts = append(builderOpts, index.WithReranker(generationConn, cfg.PipelineCfg.RerankTopN))
	}
	indexBuilder := index.NewBuilder(embedConn, logger, builderOpts...)

	cardPipeline := pipeline.New(
		docFetcher,
		nodeparser.NewParser(),
		indexBuilder,
		generationConn,
		coercer.NewCoercer(generationConn, logger),
		pipeline.Config{
			TopK:       cfg.PipelineCfg.TopK,
			RunTimeout: cfg.PipelineCfg.RunTimeout,
		},
		logger,
	)
	logger.Info("Generation pipeline initialized")

	v := validator.NewValidator()
	tokens := auth.NewManager(cfg.AuthCfg.JWTSecret, cfg.AuthCfg.TokenTTL)
	formatters := formatter.NewFactory()

	userUC := user.NewUsecase(userRepo, v, tokens, logger)
	sessionUC := session.NewUsecase(sessionRepo, cardRepo, v, cardPipeline, formatters, logger)
	cardUC := card.NewUsecase(cardRepo, sessionRepo, v, logger)
	logger.Info("Use cases initialized")

	userHandler := userapi.NewHandler(userUC)
	sessionHandler := sessionapi.NewHandler(sessionUC)
	cardHandler := cardapi.NewHandler(cardUC)
	logger.Info("API handlers initialized")

	// Requests that run the pipeline need headroom beyond its deadline.
	requestTimeout := cfg.PipelineCfg.RunTimeout + 30*time.Second

	router := api.SetupRouter(userHandler, sessionHandler, cardHandler, tokens, requestTimeout, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}

// generationConnector is the full surface of the generation service:
// free-form synthesis, structured output and reranking.
type generationConnector interface {
	index.Synthesizer
	index.Reranker
	coercer.StructuredGenerator
}
