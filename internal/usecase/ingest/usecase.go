package ingest

import (
	"context"
	"fmt"
	"slices"

	"github.com/futig/consult-assistant/internal/chunker"
	"github.com/futig/consult-assistant/internal/config"
	"github.com/futig/consult-assistant/internal/entity"
	"github.com/futig/consult-assistant/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MaxBatchSize is the provider limit on texts per embedding call.
const MaxBatchSize = 96

// IngestUsecase chunks, embeds and stores knowledge base documents
type IngestUsecase struct {
	documentRepo repository.DocumentRepository
	embedder     Embedder
	chunking     config.ChunkingConfig
	batchSize    int
	logger       *zap.Logger
}

func NewUsecase(
	documentRepo repository.DocumentRepository,
	embedder Embedder,
	chunking config.ChunkingConfig,
	batchSize int,
	logger *zap.Logger,
) *IngestUsecase {
	if batchSize <= 0 || batchSize > MaxBatchSize {
		batchSize = MaxBatchSize
	}
	return &IngestUsecase{
		documentRepo: documentRepo,
		embedder:     embedder,
		chunking:     chunking,
		batchSize:    batchSize,
		logger:       logger,
	}
}

// Ingest replaces the stored chunks of the document with the same title.
// Chunking is deterministic, so ingesting identical content twice stores identical rows.
func (uc *IngestUsecase) Ingest(ctx context.Context, req entity.IngestDocumentRequest) (*entity.IngestDocumentResponse, error) {
	texts := chunker.Split(req.Content, uc.chunking.Size, uc.chunking.Overlap)
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: content has no words", entity.ErrEmptyInput)
	}

	chunks := make([]entity.DocumentChunk, len(texts))
	for i, text := range texts {
		chunks[i] = entity.DocumentChunk{
			Text:        text,
			Index:       i,
			SourceTitle: req.Title,
			Service:     req.Service,
		}
	}

	embeddings := make([][]float32, 0, len(texts))
	for batch := range slices.Chunk(texts, uc.batchSize) {
		vectors, err := uc.embedder.Embed(ctx, batch, entity.EmbeddingModeDocument)
		if err != nil {
			return nil, fmt.Errorf("embed chunks: %w", err)
		}
		embeddings = append(embeddings, vectors...)
	}

	doc := entity.Document{
		ID:      uuid.New().String(),
		Title:   req.Title,
		Service: req.Service,
	}
	id, err := uc.documentRepo.ReplaceDocument(ctx, doc, chunks, embeddings)
	if err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	ctxzap.Info(ctx, "document ingested",
		zap.String("document_id", id),
		zap.String("title", req.Title),
		zap.Int("chunk_count", len(chunks)),
	)

	return &entity.IngestDocumentResponse{DocumentID: id, ChunkCount: len(chunks)}, nil
}
