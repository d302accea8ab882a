package localmodel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/futig/practice-analyzer/internal/config"
	"github.com/futig/practice-analyzer/internal/entity"
	"github.com/futig/practice-analyzer/internal/integration/common"
	pkghttp "github.com/futig/practice-analyzer/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector talks to a locally hosted text-generation server that serves the
// base model or a fine-tuned adapter.
type Connector struct {
	config    config.LocalModelConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(cfg config.LocalModelConfig, logger *zap.Logger) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(strings.TrimRight(cfg.BaseURL, "/"), cfg.HTTPClientConfig(), logger),
		config:    cfg,
		logger:    logger,
	}
}

// ModelUsed labels generations with the adapter when one is configured.
func (c *Connector) ModelUsed() string {
	return "local:" + c.config.ServedModel()
}

// Generate completes prompt with sampling settings from the configuration.
func (c *Connector) Generate(ctx context.Context, prompt string) (*entity.Generation, error) {
	ctxzap.Debug(ctx, "generating with local model", zap.String("model", c.config.ServedModel()))

	req := entity.LocalGenerateRequest{
		Model:  c.config.ServedModel(),
		Prompt: prompt,
		Stream: false,
		Options: entity.LocalGenerateOptions{
			NumPredict:  c.config.MaxNewTokens,
			Temperature: c.config.Temperature,
			TopP:        c.config.TopP,
		},
	}

	var resp entity.LocalGenerateResponse
	err := retry.Do(
		func() error {
			resp = entity.LocalGenerateResponse{}
			return c.connector.DoRequest(ctx, http.MethodPost, c.config.GenerateEndpoint, req, &resp)
		},
		append(c.config.Retry.ToRetryOptions(ctx),
			retry.RetryIf(func(err error) bool {
				var netErr *pkghttp.NetworkError
				var httpErr *pkghttp.HTTPError
				return errors.As(err, &netErr) || (errors.As(err, &httpErr) && httpErr.StatusCode >= 500)
			}),
		)...,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrLocalModel, err)
	}

	text := strings.TrimSpace(resp.Response)
	if text == "" {
		return nil, entity.ErrEmptyGeneration
	}

	return &entity.Generation{Text: text, ModelUsed: c.ModelUsed()}, nil
}
