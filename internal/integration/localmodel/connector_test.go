package localmodel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/futig/practice-analyzer/internal/config"
	"github.com/futig/practice-analyzer/internal/entity"
	pkgRetry "github.com/futig/practice-analyzer/internal/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(url string) config.LocalModelConfig {
	return config.LocalModelConfig{
		BaseURL:          url,
		GenerateEndpoint: "/api/generate",
		Model:            "mistralai/Mistral-7B-Instruct-v0.3",
		MaxNewTokens:     2800,
		Temperature:      0.2,
		TopP:             0.95,
		Timeout:          5 * time.Second,
		Retry:            pkgRetry.RetryConfig{Attempts: 1},
	}
}

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req entity.LocalGenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sheet-adapter", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, 2800, req.Options.NumPredict)
		assert.InDelta(t, 0.95, req.Options.TopP, 1e-9)
		assert.Equal(t, "Analysis to transform:\nOptics", req.Prompt)

		_, _ = w.Write([]byte(`{"response":"  TOPIC MAP\n- optics  ","done":true}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Adapter = "sheet-adapter"

	gen, err := NewConnector(cfg, zap.NewNop()).Generate(context.Background(), "Analysis to transform:\nOptics")
	require.NoError(t, err)
	assert.Equal(t, "TOPIC MAP\n- optics", gen.Text)
	assert.Equal(t, "local:sheet-adapter", gen.ModelUsed)
}

func TestGenerateEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":"   "}`))
	}))
	defer srv.Close()

	c := NewConnector(testConfig(srv.URL), zap.NewNop())
	assert.Equal(t, "local:mistralai/Mistral-7B-Instruct-v0.3", c.ModelUsed())

	_, err := c.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, entity.ErrEmptyGeneration)
}

func TestGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewConnector(testConfig(srv.URL), zap.NewNop()).Generate(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")
}
