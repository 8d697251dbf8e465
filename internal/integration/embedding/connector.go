package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/futig/consult-assistant/internal/config"
	"github.com/futig/consult-assistant/internal/entity"
	"github.com/futig/consult-assistant/internal/integration/common"
	pkghttp "github.com/futig/consult-assistant/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const providerName = "embedding"

type embedRequest struct {
	Model          string   `json:"model"`
	Texts          []string `json:"texts"`
	InputType      string   `json:"input_type"`
	EmbeddingTypes []string `json:"embedding_types"`
}

type embedResponse struct {
	Embeddings struct {
		Float [][]float32 `json:"float"`
	} `json:"embeddings"`
}

type Connector struct {
	config    config.EmbeddingConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.EmbeddingConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger,
			pkghttp.WithHeaders(map[string]string{"X-Client-Name": cfg.ClientName}),
		),
		config: cfg,
		logger: logger,
	}
}

// Embed returns one vector per input text, in input order.
// Transport and non-2xx failures are retried per the configured policy; a response whose
// shape does not match the input is a ProviderError and is never returned partially.
func (c *Connector) Embed(ctx context.Context, texts []string, mode entity.EmbeddingMode) ([][]float32, error) {
	if c.config.Token == "" {
		return nil, &entity.ConfigurationError{Key: "EMBEDDING_TOKEN"}
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: texts", entity.ErrEmptyInput)
	}

	req := &embedRequest{
		Model:          c.config.Model,
		Texts:          texts,
		InputType:      mode.InputType(),
		EmbeddingTypes: []string{"float"},
	}

	ctxzap.Debug(ctx, "requesting embeddings",
		zap.Int("text_count", len(texts)),
		zap.String("input_type", req.InputType),
	)

	var resp embedResponse
	err := c.config.Retry.Do(ctx,
		func() error {
			resp = embedResponse{}
			return c.connector.DoRequest(ctx, http.MethodPost, c.config.Endpoint, req, &resp)
		},
		func(attempt uint, err error) {
			ctxzap.Warn(ctx, "embedding request failed, retrying",
				zap.Uint("attempt", attempt+1),
				zap.Error(err),
			)
		},
	)
	if err != nil {
		ctxzap.Error(ctx, "embedding request failed", zap.Error(err))
		return nil, toProviderError(err)
	}

	vectors := resp.Embeddings.Float
	if len(vectors) != len(texts) {
		return nil, &entity.ProviderError{
			Provider: providerName,
			Err:      fmt.Errorf("got %d embeddings for %d texts", len(vectors), len(texts)),
		}
	}
	for i, v := range vectors {
		if len(v) == 0 {
			return nil, &entity.ProviderError{
				Provider: providerName,
				Err:      fmt.Errorf("embedding %d is empty", i),
			}
		}
	}

	ctxzap.Debug(ctx, "embeddings received",
		zap.Int("vector_count", len(vectors)),
		zap.Int("dimension", len(vectors[0])),
	)

	return vectors, nil
}

func toProviderError(err error) error {
	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		return &entity.ProviderError{
			Provider:   providerName,
			StatusCode: httpErr.StatusCode,
			Body:       httpErr.Message,
		}
	}
	return &entity.ProviderError{Provider: providerName, Err: err}
}
