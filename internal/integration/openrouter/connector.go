package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/avast/retry-go/v4"
	"github.com/futig/practice-analyzer/internal/config"
	"github.com/futig/practice-analyzer/internal/entity"
	"github.com/futig/practice-analyzer/internal/integration/common"
	pkghttp "github.com/futig/practice-analyzer/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// maxDetailsChars bounds non-JSON error bodies echoed back to clients.
const maxDetailsChars = 500

type Connector struct {
	config    config.OpenRouterConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.OpenRouterConfig,
	logger *zap.Logger,
) *Connector {
	base := common.NewBaseConnector(
		strings.TrimRight(cfg.BaseURL, "/"),
		cfg.HTTPClientConfig,
		logger,
		pkghttp.WithAuthToken(strings.TrimSpace(cfg.APIKey)),
		pkghttp.WithStaticHeaders(map[string]string{
			"HTTP-Referer": cfg.AppURL,
			"X-Title":      cfg.AppTitle,
		}),
	)

	return &Connector{
		connector: base,
		config:    cfg,
		logger:    logger,
	}
}

func (c *Connector) Model() string {
	return c.config.Model
}

// CheckCredentials reports whether an API key is configured.
func (c *Connector) CheckCredentials() error {
	if strings.TrimSpace(c.config.APIKey) == "" {
		return entity.NewUploadError(entity.ErrMissingAPIKey, "Missing OPENROUTER_API_KEY in environment.")
	}
	return nil
}

// Complete sends one chat-completion request and returns the text of the first choice.
// Failures are returned as *entity.UpstreamError.
func (c *Connector) Complete(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	ctxzap.Info(ctx, "requesting chat completion", zap.String("model", c.config.Model), zap.Int("messages", len(messages)))

	req := entity.ChatCompletionRequest{
		Model:    c.config.Model,
		Messages: messages,
	}

	var body json.RawMessage
	err := retry.Do(
		func() error {
			body = nil
			return c.connector.DoRequest(ctx, http.MethodPost, c.config.ChatEndpoint, req, &body)
		},
		append(c.config.Retry.ToRetryOptions(ctx),
			retry.RetryIf(isRetryable),
			retry.OnRetry(func(n uint, err error) {
				ctxzap.Warn(ctx, "chat completion attempt failed, retrying", zap.Uint("attempt", n+1), zap.Error(err))
			}),
		)...,
	)
	if err != nil {
		return "", c.mapError(err)
	}

	var resp entity.ChatCompletionResponse
	text := ""
	if err := json.Unmarshal(body, &resp); err == nil {
		text = resp.Text()
	}
	if text == "" {
		var raw any
		_ = json.Unmarshal(body, &raw)
		return "", &entity.UpstreamError{Err: entity.ErrEmptyCompletion, Model: c.config.Model, Raw: raw}
	}

	ctxzap.Info(ctx, "chat completion received", zap.Int("result_length", len(text)))

	return text, nil
}

func (c *Connector) mapError(err error) error {
	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		upErr := &entity.UpstreamError{
			Err:        entity.ErrUpstreamStatus,
			StatusCode: httpErr.StatusCode,
			Details:    errorDetails(httpErr.Body),
		}
		if httpErr.StatusCode == http.StatusNotFound {
			upErr.Err = entity.ErrModelNotFound
			upErr.Model = c.config.Model
		}
		return upErr
	}

	var netErr *pkghttp.NetworkError
	if errors.As(err, &netErr) {
		return &entity.UpstreamError{Err: entity.ErrUpstreamNetwork, Cause: netErr.Err}
	}

	// body was not JSON or the request could not be built
	return &entity.UpstreamError{Err: entity.ErrUpstreamNetwork, Cause: err}
}

// errorDetails returns the decoded JSON body, or the body text cut to 500 characters.
func errorDetails(body []byte) any {
	var details any
	if err := json.Unmarshal(body, &details); err == nil {
		return details
	}
	text := strings.ToValidUTF8(string(body), "�")
	if utf8.RuneCountInString(text) > maxDetailsChars {
		text = string([]rune(text)[:maxDetailsChars])
	}
	return text
}

func isRetryable(err error) bool {
	var netErr *pkghttp.NetworkError
	if errors.As(err, &netErr) {
		return !errors.Is(err, context.Canceled)
	}
	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}
	return false
}
