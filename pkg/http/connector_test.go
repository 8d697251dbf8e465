package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pkghttp "github.com/futig/consult-assistant/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type echoRequest struct {
	Value string `json:"value"`
}

func newConnector(url string, opts ...pkghttp.HttpOpts) *pkghttp.Connector {
	return pkghttp.NewConnector(&pkghttp.ConnectorConfig{BaseURL: url, Logger: zap.NewNop()}, opts...)
}

func TestConnector_DoRequest(t *testing.T) {
	t.Run("sends json with auth and decodes response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v2/echo", r.URL.Path)
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			assert.Equal(t, "consult-assistant", r.Header.Get("X-Client-Name"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req echoRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			_ = json.NewEncoder(w).Encode(echoRequest{Value: strings.ToUpper(req.Value)})
		}))
		defer srv.Close()

		c := newConnector(srv.URL,
			pkghttp.WithAuthToken("secret"),
			pkghttp.WithHeaders(map[string]string{"X-Client-Name": "consult-assistant"}),
			pkghttp.WithRequestLogging(),
		)

		var resp echoRequest
		err := c.DoRequest(context.Background(), http.MethodPost, "/v2/echo", echoRequest{Value: "hi"}, &resp)

		require.NoError(t, err)
		assert.Equal(t, "HI", resp.Value)
	})

	t.Run("empty token sends no authorization", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		err := newConnector(srv.URL, pkghttp.WithAuthToken("")).DoRequest(context.Background(), http.MethodGet, "/", nil, nil)
		assert.NoError(t, err)
	})

	t.Run("non-2xx becomes HTTPError with body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"message":"slow down"}`))
		}))
		defer srv.Close()

		err := newConnector(srv.URL).DoRequest(context.Background(), http.MethodGet, "/", nil, nil)

		var httpErr *pkghttp.HTTPError
		require.True(t, errors.As(err, &httpErr))
		assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
		assert.Contains(t, httpErr.Message, "slow down")
	})

	t.Run("transport failure becomes NetworkError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		c := newConnector(srv.URL, pkghttp.WithRequestTimeout(20*time.Millisecond))
		err := c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil)

		var netErr *pkghttp.NetworkError
		assert.True(t, errors.As(err, &netErr))
	})

	t.Run("override url wins over base url", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/other", r.URL.Path)
		}))
		defer srv.Close()

		c := newConnector("http://127.0.0.1:1")
		err := c.DoRequest(context.Background(), http.MethodGet, "/ignored", nil, nil, pkghttp.WithURL(srv.URL+"/other"))
		assert.NoError(t, err)
	})
}
