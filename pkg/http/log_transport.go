package http

import (
	"net/http"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// maxLoggedPayload bounds the logged request body; image data URIs are large.
const maxLoggedPayload = 2048

// context keys for attaching request metadata
type payloadContextKey struct{}

type logTransport struct {
	transport http.RoundTripper
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
	}

	if payload, ok := ctx.Value(payloadContextKey{}).([]byte); ok && len(payload) > 0 {
		fields = append(fields,
			zap.Int("payload_size", len(payload)),
			zap.String("payload", truncate(payload, maxLoggedPayload)),
		)
	}

	ctxzap.Debug(ctx, "HTTP outbound request", fields...)

	start := time.Now()
	resp, err := t.transport.RoundTrip(req)
	if err != nil {
		ctxzap.Debug(ctx, "HTTP outbound request failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return nil, err
	}

	ctxzap.Debug(ctx, "HTTP outbound response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	return resp, nil
}

// WithRequestLogging wraps the HTTP transport with debug logging of outbound calls.
// Authorization headers are never logged.
func WithRequestLogging() HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &logTransport{
			transport: rt,
		}
	})
}
