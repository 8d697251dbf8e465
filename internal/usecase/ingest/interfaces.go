package ingest

import (
	"context"

	"github.com/futig/consult-assistant/internal/entity"
)

type Embedder interface {
	Embed(ctx context.Context, texts []string, mode entity.EmbeddingMode) ([][]float32, error)
}
