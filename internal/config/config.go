package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/practice-analyzer/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr         string        `env:"SERVER_ADDR" envDefault:":5000"`
	ServerReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	ServerWriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"120s"`
	ServerIdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	HandlerTimeout     time.Duration `env:"HANDLER_TIMEOUT" envDefault:"90s"`

	// Database configuration, history is disabled when DatabaseURL is empty
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"1"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	OpenRouterCfg OpenRouterConfig `envPrefix:"OPENROUTER_"`
	LocalModelCfg LocalModelConfig `envPrefix:"LOCAL_REFERENCE_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Identical uploads are answered from memory for this long, 0 disables
	AnalysisCacheTTL time.Duration `env:"ANALYSIS_CACHE_TTL" envDefault:"0s"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken        string        `env:"BOT_TOKEN"`
	UpdateTimeout   int           `env:"UPDATE_TIMEOUT" envDefault:"60"`
	BufferTTL       time.Duration `env:"BUFFER_TTL" envDefault:"30m"`
	ShutdownTimeout int           `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
	DownloadTimeout time.Duration `env:"DOWNLOAD_TIMEOUT" envDefault:"60s"`

	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	RateLimitBurst     int `env:"RATE_LIMIT_BURST" envDefault:"5"`
}

type OpenRouterConfig struct {
	HTTPClientConfig
	APIKey       string               `env:"API_KEY"`
	BaseURL      string               `env:"BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	ChatEndpoint string               `env:"CHAT_ENDPOINT" envDefault:"/chat/completions"`
	Model        string               `env:"MODEL" envDefault:"mistralai/mistral-small-3.1-24b-instruct:free"`
	AppURL       string               `env:"APP_URL"`
	AppTitle     string               `env:"APP_TITLE" envDefault:"Practice Analyzer"`
	Retry        pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type LocalModelConfig struct {
	BaseURL          string               `env:"URL" envDefault:"http://localhost:11434"`
	GenerateEndpoint string               `env:"GENERATE_ENDPOINT" envDefault:"/api/generate"`
	Model            string               `env:"MODEL" envDefault:"mistralai/Mistral-7B-Instruct-v0.3"`
	Adapter          string               `env:"ADAPTER"`
	MaxNewTokens     int                  `env:"MAX_NEW_TOKENS" envDefault:"2800"`
	Temperature      float64              `env:"TEMPERATURE" envDefault:"0.2"`
	TopP             float64              `env:"TOP_P" envDefault:"0.95"`
	Timeout          time.Duration        `env:"TIMEOUT" envDefault:"10m"`
	Retry            pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// ServedModel is the model name the local server is asked for. A configured
// adapter is served under its own name.
func (c LocalModelConfig) ServedModel() string {
	if a := strings.TrimSpace(c.Adapter); a != "" {
		return a
	}
	return strings.TrimSpace(c.Model)
}

// HTTPClientConfig returns client settings sized for long generations.
func (c LocalModelConfig) HTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		RequestTimeout:        c.Timeout,
		ConnTimeout:           10 * time.Second,
		KeepAlive:             30 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: c.Timeout,
	}
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"30s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileCount         int      `env:"MAX_FILE_COUNT" envDefault:"20"`
	MaxCharsPerFile      int      `env:"MAX_CHARS_PER_FILE" envDefault:"12000"`
	MaxTotalChars        int      `env:"MAX_TOTAL_CHARS" envDefault:"90000"`
	MaxImageBytesPerFile int64    `env:"MAX_IMAGE_BYTES_PER_FILE" envDefault:"8388608"` // 8 MiB
	MaxTotalImageBytes   int64    `env:"MAX_TOTAL_IMAGE_BYTES" envDefault:"25165824"`   // 24 MiB
	MaxUploadMemory      int64    `env:"MAX_UPLOAD_MEMORY" envDefault:"33554432"`       // 32 MiB
	MaxRequestSize       int64    `env:"MAX_REQUEST_SIZE" envDefault:"134217728"`       // 128 MiB
	AllowedExtensions    []string `env:"ALLOWED_EXTENSIONS" envSeparator:"," envDefault:".txt,.md,.csv,.rtf,.pdf,.png,.jpg,.jpeg"`
}

// ToolsConfig configures the offline training tools.
type ToolsConfig struct {
	LogLevel      string           `env:"LOG_LEVEL" envDefault:"info"`
	LocalModelCfg LocalModelConfig `envPrefix:"LOCAL_REFERENCE_"`
	// TrainerCommand receives the adapter job manifest path as its last argument.
	TrainerCommand []string `env:"TRAINER_COMMAND" envSeparator:" " envDefault:"python -m training.run_adapter_job"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	loadEnvFile(*envFlag)

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment only.
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

// LoadToolsConfig loads the configuration of the offline tools for the
// given environment name.
func LoadToolsConfig(environment string) (*ToolsConfig, error) {
	loadEnvFile(environment)

	cfg := &ToolsConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if errs := validateLocalModel(cfg.LocalModelCfg); len(errs) > 0 {
		return nil, fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

func loadEnvFile(environment string) {
	envFile := getEnvFile(environment)
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}
}

func validateConfig(cfg *Config) error {
	var errors []string

	up := cfg.FileUploadCfg
	if up.MaxFileCount < 1 {
		errors = append(errors, fmt.Sprintf("FILE_UPLOAD_MAX_FILE_COUNT must be positive, got %d", up.MaxFileCount))
	}
	if up.MaxCharsPerFile < 1 || up.MaxTotalChars < up.MaxCharsPerFile {
		errors = append(errors, fmt.Sprintf("FILE_UPLOAD_MAX_TOTAL_CHARS(%d) must be at least FILE_UPLOAD_MAX_CHARS_PER_FILE(%d) > 0", up.MaxTotalChars, up.MaxCharsPerFile))
	}
	if up.MaxImageBytesPerFile < 1 || up.MaxTotalImageBytes < up.MaxImageBytesPerFile {
		errors = append(errors, fmt.Sprintf("FILE_UPLOAD_MAX_TOTAL_IMAGE_BYTES(%d) must be at least FILE_UPLOAD_MAX_IMAGE_BYTES_PER_FILE(%d) > 0", up.MaxTotalImageBytes, up.MaxImageBytesPerFile))
	}
	if len(up.AllowedExtensions) == 0 {
		errors = append(errors, "FILE_UPLOAD_ALLOWED_EXTENSIONS must not be empty")
	}
	for _, ext := range up.AllowedExtensions {
		if !strings.HasPrefix(ext, ".") {
			errors = append(errors, fmt.Sprintf("FILE_UPLOAD_ALLOWED_EXTENSIONS entry %q must start with a dot", ext))
		}
	}

	if cfg.OpenRouterCfg.Model == "" {
		errors = append(errors, "OPENROUTER_MODEL must not be empty")
	}
	if cfg.OpenRouterCfg.Retry.Attempts < 1 {
		errors = append(errors, fmt.Sprintf("OPENROUTER_RETRY_ATTEMPTS must be at least 1, got %d", cfg.OpenRouterCfg.Retry.Attempts))
	}
	errors = append(errors, validateLocalModel(cfg.LocalModelCfg)...)

	if cfg.AnalysisCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("ANALYSIS_CACHE_TTL must not be negative, got %s", cfg.AnalysisCacheTTL))
	}

	// Validate Database configuration
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}
	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout))
	}

	if cfg.TelegramCfg.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be positive, got %d", cfg.TelegramCfg.RateLimitPerMinute))
	}
	if cfg.TelegramCfg.RateLimitBurst < 1 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be positive, got %d", cfg.TelegramCfg.RateLimitBurst))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func validateLocalModel(cfg LocalModelConfig) []string {
	var errors []string
	if cfg.ServedModel() == "" {
		errors = append(errors, "LOCAL_REFERENCE_MODEL must not be empty")
	}
	if cfg.MaxNewTokens < 1 {
		errors = append(errors, fmt.Sprintf("LOCAL_REFERENCE_MAX_NEW_TOKENS must be positive, got %d", cfg.MaxNewTokens))
	}
	if cfg.TopP <= 0 || cfg.TopP > 1 {
		errors = append(errors, fmt.Sprintf("LOCAL_REFERENCE_TOP_P must be in (0, 1], got %g", cfg.TopP))
	}
	if cfg.Temperature < 0 {
		errors = append(errors, fmt.Sprintf("LOCAL_REFERENCE_TEMPERATURE must not be negative, got %g", cfg.Temperature))
	}
	if cfg.Retry.Attempts < 1 {
		errors = append(errors, fmt.Sprintf("LOCAL_REFERENCE_RETRY_ATTEMPTS must be at least 1, got %d", cfg.Retry.Attempts))
	}
	return errors
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
