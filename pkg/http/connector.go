package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// maxErrorBodySize bounds how much of a failed response is kept in HTTPError.
const maxErrorBodySize = 4 << 10

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

// DoRequest sends reqBody as JSON and decodes a 2xx JSON response into respBody.
// Non-2xx responses become *HTTPError, transport failures *NetworkError.
func (c *Connector) DoRequest(ctx context.Context, method, endpoint string, reqBody, respBody any, opts ...RequestOpt) error {
	cfg := &requestConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	url := c.baseURL + endpoint
	if cfg.overrideURL != "" {
		url = cfg.overrideURL
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

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
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

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    string(msg),
		}
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: fmt.Errorf("read response body: %w", err)}
	}

	if respBody != nil && len(bodyBytes) > 0 {
		if err := json.Unmarshal(bodyBytes, respBody); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// HTTPError represents an HTTP error response
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
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
