package api

import (
	"net/http"
	"time"

	assistantapi "github.com/futig/consult-assistant/internal/api/assistant"
	"github.com/futig/consult-assistant/internal/api/docs"
	documentapi "github.com/futig/consult-assistant/internal/api/document"
	"github.com/futig/consult-assistant/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RouterConfig holds the HTTP-level settings of the router
type RouterConfig struct {
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	cfg RouterConfig,
	assistantHandler *assistantapi.Handler,
	documentHandler *documentapi.Handler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	docs.RegisterRoutes(r)

	assistantapi.RegisterRoutes(r, assistantHandler)
	documentapi.RegisterRoutes(r, documentHandler)

	return r
}
