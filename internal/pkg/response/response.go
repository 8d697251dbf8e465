package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futig/consult-assistant/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		// Headers are already sent, nothing to recover here.
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Error logs err and writes an ErrorResponse. Client errors are logged at warn level.
func Error(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	fields := []zap.Field{zap.Int("status", status)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, fields...)
	} else {
		ctxzap.Warn(ctx, message, fields...)
	}

	JSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// UsecaseError maps domain errors to HTTP statuses
func UsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		cfgErr       *entity.ConfigurationError
		retrievalErr *entity.RetrievalError
		providerErr  *entity.ProviderError
	)

	switch {
	case errors.Is(err, entity.ErrInvalidParameter), errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrInvalidFormat), errors.Is(err, entity.ErrEmptyInput):
		Error(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	case errors.Is(err, entity.ErrRateLimited):
		Error(ctx, w, http.StatusTooManyRequests, "rate limit exceeded, try again later", err)
	case errors.As(err, &cfgErr):
		Error(ctx, w, http.StatusServiceUnavailable, "service is not configured", err)
	case errors.As(err, &retrievalErr):
		Error(ctx, w, http.StatusServiceUnavailable, "knowledge base unavailable", err)
	case errors.As(err, &providerErr):
		Error(ctx, w, http.StatusBadGateway, "upstream provider failed", err)
	case errors.Is(err, context.DeadlineExceeded):
		Error(ctx, w, http.StatusGatewayTimeout, "request timed out", err)
	default:
		Error(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
