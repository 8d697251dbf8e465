package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/futig/consult-assistant/internal/api/middleware"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxzap.Info(r.Context(), "inside handler")
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestCORS(t *testing.T) {
	t.Run("wildcard", func(t *testing.T) {
		rec := httptest.NewRecorder()
		middleware.CORS([]string{"*"})(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("listed origin is echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://studio.example")
		rec := httptest.NewRecorder()
		middleware.CORS([]string{"https://studio.example"})(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, "https://studio.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unlisted origin gets no grant", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		middleware.CORS([]string{"https://studio.example"})(okHandler()).ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		rec := httptest.NewRecorder()
		middleware.CORS([]string{"*"})(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	rec := httptest.NewRecorder()

	middleware.Logger(zap.New(core))(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/assistant/chat", nil))

	entries := logs.AllUntimed()
	assert.Len(t, entries, 3)
	assert.Equal(t, "inside handler", entries[1].Message)
	assert.Equal(t, "/assistant/chat", entries[1].ContextMap()["path"])

	finish := entries[2].ContextMap()
	assert.Equal(t, int64(http.StatusTeapot), finish["status"])
}
