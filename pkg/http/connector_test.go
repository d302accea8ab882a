package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConnector(baseURL string, opts ...HttpOpts) *Connector {
	return NewConnector(&ConnectorConfig{BaseURL: baseURL, Logger: zap.NewNop()}, opts...)
}

func TestDoRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "practice", r.Header.Get("X-Title"))
		assert.Empty(t, r.Header.Values("HTTP-Referer"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "yes", r.Header.Get("X-Extra"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"model":"m"}`, string(body))

		_, _ = w.Write([]byte(`{"answer":42}`))
	}))
	defer srv.Close()

	c := newTestConnector(srv.URL,
		WithAuthToken("secret"),
		WithStaticHeaders(map[string]string{"X-Title": "practice", "HTTP-Referer": ""}),
		WithRequestLogging(),
	)

	var resp struct {
		Answer int `json:"answer"`
	}
	err := c.DoRequest(context.Background(), http.MethodPost, "/chat", map[string]string{"model": "m"}, &resp, WithHeader("X-Extra", "yes"))
	require.NoError(t, err)
	assert.Equal(t, 42, resp.Answer)
}

func TestDoRequestHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"slow down"}`))
	}))
	defer srv.Close()

	err := newTestConnector(srv.URL).DoRequest(context.Background(), http.MethodGet, "/", nil, nil)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
	assert.Equal(t, `{"error":"slow down"}`, string(httpErr.Body))
}

func TestDoRequestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := newTestConnector(url).DoRequest(context.Background(), http.MethodGet, "/", nil, nil)

	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr))
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(strings.Repeat("a", 10)))
	}))
	defer srv.Close()

	c := newTestConnector("")

	data, err := c.Download(context.Background(), srv.URL+"/file", 10)
	require.NoError(t, err)
	assert.Len(t, data, 10)

	_, err = c.Download(context.Background(), srv.URL+"/file", 9)
	assert.ErrorIs(t, err, ErrBodyTooLarge)

	_, err = c.Download(context.Background(), srv.URL+"/missing", 10)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

func TestWithURLOverridesBase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/other", r.URL.Path)
	}))
	defer srv.Close()

	err := newTestConnector("http://127.0.0.1:1").DoRequest(context.Background(), http.MethodGet, "/ignored", nil, nil, WithURL(srv.URL+"/other"))
	assert.NoError(t, err)
}
