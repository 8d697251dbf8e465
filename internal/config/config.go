package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/futig/consult-assistant/internal/entity"
	pkgRetry "github.com/futig/consult-assistant/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr         string        `env:"SERVER_ADDR" envDefault:":8080"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
	MigrationsPath      string        `env:"MIGRATIONS_PATH" envDefault:"file://internal/repository/migrations"`

	// External service configurations
	EmbeddingCfg EmbeddingConnectorConfig `envPrefix:"EMBEDDING_"`
	LLMCfg       LLMConnectorConfig       `envPrefix:"LLM_"`
	CacheCfg     CacheConfig              `envPrefix:"CACHE_"`

	AssistantCfg AssistantConfig `envPrefix:"ASSISTANT_"`
	ChunkingCfg  ChunkingConfig  `envPrefix:"CHUNK_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type EmbeddingConnectorConfig struct {
	HTTPClientConfig
	Model      string               `env:"MODEL" envDefault:"embed-multilingual-v3.0"`
	Endpoint   string               `env:"ENDPOINT" envDefault:"/v2/embed"`
	ClientName string               `env:"CLIENT_NAME" envDefault:"consult-assistant"`
	BatchSize  int                  `env:"BATCH_SIZE" envDefault:"96"`
	Retry      pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type LLMConnectorConfig struct {
	Token       string        `env:"TOKEN"`
	BaseURL     string        `env:"BASE_URL"`
	Model       string        `env:"MODEL" envDefault:"gpt-4o-mini"`
	MaxTokens   int           `env:"MAX_TOKENS" envDefault:"800"`
	Temperature float64       `env:"TEMPERATURE" envDefault:"0.3"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"60s"`
}

type CacheConfig struct {
	URL      string `env:"URL"`
	Password string `env:"PASSWORD"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"15s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"5s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"10s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL" envDefault:"https://api.cohere.com"`
}

// AssistantConfig tunes the grounding-and-safety pipeline.
type AssistantConfig struct {
	RateLimit          int           `env:"RATE_LIMIT" envDefault:"20"`
	RateLimitWindow    time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	RetrievalLimit     int           `env:"RETRIEVAL_LIMIT" envDefault:"5"`
	RetrievalCacheTTL  time.Duration `env:"RETRIEVAL_CACHE_TTL" envDefault:"1h"`
	MaxContextChars    int           `env:"MAX_CONTEXT_CHARS" envDefault:"6000"`
	MaxHistoryMessages int           `env:"MAX_HISTORY_MESSAGES" envDefault:"10"`
	MaxMessageChars    int           `env:"MAX_MESSAGE_CHARS" envDefault:"4000"`
	ThemeDebounce      time.Duration `env:"THEME_DEBOUNCE" envDefault:"500ms"`
	BrandTerms         []string      `env:"BRAND_TERMS" envSeparator:"," envDefault:"Calendly,WhatsApp,LinkedIn"`
}

type ChunkingConfig struct {
	Size    int `env:"SIZE" envDefault:"500"`
	Overlap int `env:"OVERLAP" envDefault:"50"`
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

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment and validates it.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	// Credentials are required unless every provider is mocked.
	if !cfg.EnableMocks {
		required := []struct {
			key   string
			value string
		}{
			{"DATABASE_URL", cfg.DatabaseURL},
			{"EMBEDDING_TOKEN", cfg.EmbeddingCfg.Token},
			{"LLM_TOKEN", cfg.LLMCfg.Token},
			{"CACHE_URL", cfg.CacheCfg.URL},
		}
		for _, r := range required {
			if r.value == "" {
				return &entity.ConfigurationError{Key: r.key}
			}
		}
	}

	var errs []error

	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errs = append(errs, fmt.Errorf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errs = append(errs, fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if cfg.EmbeddingCfg.Retry.Attempts < 1 {
		errs = append(errs, fmt.Errorf("EMBEDDING_RETRY_ATTEMPTS must be at least 1, got %d", cfg.EmbeddingCfg.Retry.Attempts))
	}

	if cfg.EmbeddingCfg.BatchSize < 1 || cfg.EmbeddingCfg.BatchSize > 96 {
		errs = append(errs, fmt.Errorf("EMBEDDING_BATCH_SIZE must be between 1 and 96, got %d", cfg.EmbeddingCfg.BatchSize))
	}

	if cfg.AssistantCfg.RateLimit < 1 {
		errs = append(errs, fmt.Errorf("ASSISTANT_RATE_LIMIT must be positive, got %d", cfg.AssistantCfg.RateLimit))
	}

	if cfg.AssistantCfg.RateLimitWindow < time.Second {
		errs = append(errs, fmt.Errorf("ASSISTANT_RATE_LIMIT_WINDOW must be at least 1s, got %s", cfg.AssistantCfg.RateLimitWindow))
	}

	if cfg.AssistantCfg.RetrievalLimit < 1 {
		errs = append(errs, fmt.Errorf("ASSISTANT_RETRIEVAL_LIMIT must be positive, got %d", cfg.AssistantCfg.RetrievalLimit))
	}

	if cfg.ChunkingCfg.Size < 1 {
		errs = append(errs, fmt.Errorf("CHUNK_SIZE must be positive, got %d", cfg.ChunkingCfg.Size))
	}

	if cfg.ChunkingCfg.Overlap < 0 {
		errs = append(errs, fmt.Errorf("CHUNK_OVERLAP must not be negative, got %d", cfg.ChunkingCfg.Overlap))
	}

	return errors.Join(errs...)
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
