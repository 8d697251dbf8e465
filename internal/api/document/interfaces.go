package document

import (
	"context"

	"github.com/futig/consult-assistant/internal/entity"
)

type IngestUsecase interface {
	Ingest(ctx context.Context, req entity.IngestDocumentRequest) (*entity.IngestDocumentResponse, error)
}
