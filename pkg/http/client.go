package http

import (
	"net"
	"net/http"
	"time"
)

// TransportFunc wraps a RoundTripper; later options wrap earlier ones.
type TransportFunc func(http.RoundTripper) http.RoundTripper

type HttpOpts func(*httpConfig)

type httpConfig struct {
	connTimeout           time.Duration
	requestTimeout        time.Duration
	keepAlive             time.Duration
	responseHeaderTimeout time.Duration
	idleConnTimeout       time.Duration
	transports            []TransportFunc
}

// Long model generations need generous request and header timeouts.
func defaultHTTPConfig() *httpConfig {
	return &httpConfig{
		connTimeout:           10 * time.Second,
		requestTimeout:        60 * time.Second,
		keepAlive:             30 * time.Second,
		responseHeaderTimeout: 60 * time.Second,
		idleConnTimeout:       90 * time.Second,
	}
}

func WithConnClientTimeout(timeout time.Duration) HttpOpts {
	return func(c *httpConfig) {
		c.connTimeout = timeout
	}
}

func WithRequestTimeout(timeout time.Duration) HttpOpts {
	return func(c *httpConfig) {
		c.requestTimeout = timeout
	}
}

func WithClientKeepAlive(keepAlive time.Duration) HttpOpts {
	return func(c *httpConfig) {
		c.keepAlive = keepAlive
	}
}

func WithResponseHeaderTimeout(timeout time.Duration) HttpOpts {
	return func(c *httpConfig) {
		c.responseHeaderTimeout = timeout
	}
}

func WithIdleConnTimeout(timeout time.Duration) HttpOpts {
	return func(c *httpConfig) {
		c.idleConnTimeout = timeout
	}
}

func WithTransport(transport TransportFunc) HttpOpts {
	return func(c *httpConfig) {
		c.transports = append(c.transports, transport)
	}
}

func newClient(opts ...HttpOpts) *http.Client {
	cfg := defaultHTTPConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	dialer := &net.Dialer{
		Timeout:   cfg.connTimeout,
		KeepAlive: cfg.keepAlive,
	}

	var transport http.RoundTripper = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.responseHeaderTimeout,
		IdleConnTimeout:       cfg.idleConnTimeout,
	}
	for _, wrap := range cfg.transports {
		transport = wrap(transport)
	}

	return &http.Client{
		Timeout:   cfg.requestTimeout,
		Transport: transport,
	}
}
