package http

import (
	"net/http"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// context keys for attaching request metadata
type payloadContextKey struct{}

type logTransport struct {
	transport http.RoundTripper
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	}

	// Payload contents are never logged, only their size.
	if payload, ok := ctx.Value(payloadContextKey{}).([]byte); ok {
		fields = append(fields, zap.Int("payload_bytes", len(payload)))
	}

	start := time.Now()
	resp, err := t.transport.RoundTrip(req)
	fields = append(fields, zap.Duration("duration", time.Since(start)))

	if err != nil {
		ctxzap.Debug(ctx, "HTTP outbound request failed", append(fields, zap.Error(err))...)
		return nil, err
	}

	ctxzap.Debug(ctx, "HTTP outbound request", append(fields, zap.Int("status", resp.StatusCode))...)
	return resp, nil
}

// WithRequestLogging wraps the HTTP transport with debug logging of method, URL, status and timing.
func WithRequestLogging() HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &logTransport{
			transport: rt,
		}
	})
}
