package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.ServerAddr)
	assert.Equal(t, "mistralai/mistral-small-3.1-24b-instruct:free", cfg.OpenRouterCfg.Model)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.OpenRouterCfg.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.OpenRouterCfg.RequestTimeout)
	assert.Equal(t, uint(1), cfg.OpenRouterCfg.Retry.Attempts)

	up := cfg.FileUploadCfg
	assert.Equal(t, 20, up.MaxFileCount)
	assert.Equal(t, 12000, up.MaxCharsPerFile)
	assert.Equal(t, 90000, up.MaxTotalChars)
	assert.Equal(t, int64(8<<20), up.MaxImageBytesPerFile)
	assert.Equal(t, int64(24<<20), up.MaxTotalImageBytes)
	assert.Equal(t, []string{".txt", ".md", ".csv", ".rtf", ".pdf", ".png", ".jpg", ".jpeg"}, up.AllowedExtensions)

	assert.Equal(t, "mistralai/Mistral-7B-Instruct-v0.3", cfg.LocalModelCfg.ServedModel())
	assert.Equal(t, 30, cfg.TelegramCfg.RateLimitPerMinute)
	assert.Equal(t, 5, cfg.TelegramCfg.RateLimitBurst)
	assert.Zero(t, cfg.AnalysisCacheTTL)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("OPENROUTER_MODEL", "vendor/model")
	t.Setenv("FILE_UPLOAD_MAX_FILE_COUNT", "3")
	t.Setenv("LOCAL_REFERENCE_ADAPTER", "practice-sheet-lora")
	t.Setenv("ANALYSIS_CACHE_TTL", "5m")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "vendor/model", cfg.OpenRouterCfg.Model)
	assert.Equal(t, 3, cfg.FileUploadCfg.MaxFileCount)
	assert.Equal(t, "practice-sheet-lora", cfg.LocalModelCfg.ServedModel())
	assert.Equal(t, 5*time.Minute, cfg.AnalysisCacheTTL)
}

func TestParseCollectsValidationErrors(t *testing.T) {
	t.Setenv("FILE_UPLOAD_MAX_FILE_COUNT", "0")
	t.Setenv("FILE_UPLOAD_ALLOWED_EXTENSIONS", "txt")
	t.Setenv("LOCAL_REFERENCE_TOP_P", "2")
	t.Setenv("TELEGRAM_RATE_LIMIT_BURST", "0")

	_, err := Parse()
	require.Error(t, err)
	assert.ErrorContains(t, err, "FILE_UPLOAD_MAX_FILE_COUNT")
	assert.ErrorContains(t, err, `"txt" must start with a dot`)
	assert.ErrorContains(t, err, "LOCAL_REFERENCE_TOP_P")
	assert.ErrorContains(t, err, "TELEGRAM_RATE_LIMIT_BURST")
}

func TestGetEnvFile(t *testing.T) {
	assert.Equal(t, ".env.local", getEnvFile("local"))
	assert.Equal(t, ".env.prod", getEnvFile("production"))
	assert.Equal(t, ".env.staging", getEnvFile("staging"))
}
