package common

import (
	"github.com/futig/practice-analyzer/internal/config"
	pkgHTTP "github.com/futig/practice-analyzer/pkg/http"
	"go.uber.org/zap"
)

// NewBaseConnector builds a logged connector for baseURL. Extra options are
// applied after the defaults, so they wrap the logging transport.
func NewBaseConnector(baseURL string, cfg config.HTTPClientConfig, logger *zap.Logger, opts ...pkgHTTP.HttpOpts) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: baseURL,
	}

	options := []pkgHTTP.HttpOpts{
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
	}

	return pkgHTTP.NewConnector(connCfg, append(options, opts...)...)
}
