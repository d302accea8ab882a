package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// ErrBodyTooLarge is returned by Download when the body exceeds the limit.
var ErrBodyTooLarge = errors.New("response body exceeds limit")

type Connector struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type ConnectorConfig struct {
	BaseURL string
	Logger  *zap.Logger
}

func NewConnector(config *ConnectorConfig, options ...HttpOpts) *Connector {
	return &Connector{
		baseURL:    config.BaseURL,
		httpClient: newClient(options...),
		logger:     config.Logger,
	}
}

type RequestOpt func(*requestConfig)

type requestConfig struct {
	headers     map[string]string
	overrideURL string
}

func WithHeader(key, value string) RequestOpt {
	return func(c *requestConfig) {
		if c.headers == nil {
			c.headers = make(map[string]string)
		}
		c.headers[key] = value
	}
}

func WithURL(url string) RequestOpt {
	return func(c *requestConfig) {
		c.overrideURL = url
	}
}

func (c *Connector) resolveURL(endpoint string, cfg *requestConfig) string {
	if cfg.overrideURL != "" {
		return cfg.overrideURL
	}
	return c.baseURL + endpoint
}

// DoRequest sends reqBody as JSON and decodes a 2xx body into respBody.
// Non-2xx responses are returned as *HTTPError carrying the raw body.
func (c *Connector) DoRequest(ctx context.Context, method, endpoint string, reqBody, respBody any, opts ...RequestOpt) error {
	cfg := &requestConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
		// Attach payload to context for logging transport
		ctx = context.WithValue(ctx, payloadContextKey{}, jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolveURL(endpoint, cfg), bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	for key, value := range cfg.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       bodyBytes,
		}
	}

	if respBody != nil && len(bodyBytes) > 0 {
		if err := json.Unmarshal(bodyBytes, respBody); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// Download fetches url with GET and returns at most limit bytes of body.
func (c *Connector) Download(ctx context.Context, url string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: body}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("read response body: %w", err)}
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %d bytes", ErrBodyTooLarge, limit)
	}

	return data, nil
}

// HTTPError represents an HTTP error response
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, truncate(e.Body, 200))
}

// NetworkError represents a network-level error (connection, timeout, etc.)
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
