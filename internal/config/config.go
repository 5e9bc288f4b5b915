package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/cardifyhq/cardify-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	ParseConnectorCfg      ParseConnectorConfig      `envPrefix:"PARSE_"`
	EmbeddingConnectorCfg  EmbeddingConnectorConfig  `envPrefix:"EMBEDDING_"`
	GenerationConnectorCfg GenerationConnectorConfig `envPrefix:"GENERATION_"`

	// Pipeline configuration
	FetcherCfg  FetcherConfig  `envPrefix:"FETCHER_"`
	PipelineCfg PipelineConfig `envPrefix:"PIPELINE_"`

	// Auth configuration
	AuthCfg AuthConfig `envPrefix:"AUTH_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type ParseConnectorConfig struct {
	HTTPClientConfig
	ParseEndpoint string               `env:"PARSE_ENDPOINT,notEmpty"`
	Retry         pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type EmbeddingConnectorConfig struct {
	HTTPClientConfig
	EmbedEndpoint string               `env:"EMBED_ENDPOINT,notEmpty"`
	Retry         pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type GenerationConnectorConfig struct {
	HTTPClientConfig
	SynthesizeEndpoint string               `env:"SYNTHESIZE_ENDPOINT,notEmpty"`
	StructuredEndpoint string               `env:"STRUCTURED_ENDPOINT,notEmpty"`
	RerankEndpoint     string               `env:"RERANK_ENDPOINT,notEmpty"`
	Retry              pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT,notEmpty"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT,notEmpty"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE,notEmpty"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT,notEmpty"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT,notEmpty"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL,notEmpty"`
}

// FetcherConfig holds document fetcher settings
type FetcherConfig struct {
	CacheDir        string        `env:"CACHE_DIR" envDefault:"data/documents"`
	DownloadTimeout time.Duration `env:"DOWNLOAD_TIMEOUT" envDefault:"2m"`
	MemoTTL         time.Duration `env:"MEMO_TTL" envDefault:"15m"`
}

// PipelineConfig holds generation pipeline settings
type PipelineConfig struct {
	TopK         int           `env:"TOP_K" envDefault:"15"`
	EnableRerank bool          `env:"ENABLE_RERANK" envDefault:"false"`
	RerankTopN   int           `env:"RERANK_TOP_N" envDefault:"8"`
	EmbedWorkers int           `env:"EMBED_WORKERS" envDefault:"8"`
	RunTimeout   time.Duration `env:"RUN_TIMEOUT" envDefault:"5m"`
}

// AuthConfig holds token-auth settings
type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET,notEmpty"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if cfg.PipelineCfg.TopK < 1 || cfg.PipelineCfg.TopK > 100 {
		errors = append(errors, fmt.Sprintf("PIPELINE_TOP_K must be between 1 and 100, got %d", cfg.PipelineCfg.TopK))
	}

	if cfg.PipelineCfg.EnableRerank && cfg.PipelineCfg.RerankTopN < 1 {
		errors = append(errors, fmt.Sprintf("PIPELINE_RERANK_TOP_N must be positive when reranking is enabled, got %d", cfg.PipelineCfg.RerankTopN))
	}

	if cfg.PipelineCfg.EmbedWorkers < 1 || cfg.PipelineCfg.EmbedWorkers > 64 {
		errors = append(errors, fmt.Sprintf("PIPELINE_EMBED_WORKERS must be between 1 and 64, got %d", cfg.PipelineCfg.EmbedWorkers))
	}

	if len(cfg.AuthCfg.JWTSecret) < 16 {
		errors = append(errors, "AUTH_JWT_SECRET must be at least 16 characters")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
