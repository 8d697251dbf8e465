package retrieval

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/futig/consult-assistant/internal/entity"
	"github.com/futig/consult-assistant/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const DefaultLimit = 5

type Embedder interface {
	Embed(ctx context.Context, texts []string, mode entity.EmbeddingMode) ([][]float32, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Retriever turns a query into the closest stored chunks.
type Retriever struct {
	embedder Embedder
	store    repository.VectorRepository
	cache    Cache
	cacheTTL time.Duration
}

type Option func(*Retriever)

// WithCache memoizes results per (query, limit, service) for ttl.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(r *Retriever) {
		r.cache = cache
		r.cacheTTL = ttl
	}
}

func NewRetriever(embedder Embedder, store repository.VectorRepository, opts ...Option) *Retriever {
	r := &Retriever{embedder: embedder, store: store}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve returns at most limit chunks in the order the store ranked them.
// Embedding failures are returned as is; store failures are wrapped in RetrievalError.
func (r *Retriever) Retrieve(ctx context.Context, query string, limit int, service *string) ([]entity.RetrievedChunk, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	key := cacheKey(query, limit, service)
	if r.cache != nil {
		var cached []entity.RetrievedChunk
		found, err := r.cache.Get(ctx, key, &cached)
		if err != nil {
			ctxzap.Warn(ctx, "retrieval cache read failed", zap.Error(err))
		} else if found {
			ctxzap.Debug(ctx, "retrieval cache hit", zap.Int("chunks", len(cached)))
			return cached, nil
		}
	}

	vectors, err := r.embedder.Embed(ctx, []string{query}, entity.EmbeddingModeQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, &entity.ProviderError{Provider: "embedding", Err: errors.New("expected exactly one query vector")}
	}

	rows, err := r.store.MatchDocuments(ctx, vectors[0], limit, service)
	if err != nil {
		return nil, &entity.RetrievalError{Err: err}
	}

	if len(rows) > limit {
		rows = rows[:limit]
	}
	chunks := make([]entity.RetrievedChunk, 0, len(rows))
	for _, row := range rows {
		chunks = append(chunks, entity.RetrievedChunk{
			ChunkText:     row.ChunkText,
			DocumentTitle: row.DocumentTitle,
			Service:       row.DocumentService,
			Similarity:    clamp(row.Similarity),
		})
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, chunks, r.cacheTTL); err != nil {
			ctxzap.Warn(ctx, "retrieval cache write failed", zap.Error(err))
		}
	}

	ctxzap.Debug(ctx, "retrieved chunks", zap.Int("chunks", len(chunks)), zap.Int("limit", limit))
	return chunks, nil
}

func cacheKey(query string, limit int, service *string) string {
	svc := ""
	if service != nil {
		svc = *service
	}
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%d|%s", query, limit, svc))
	return "retrieval:" + hex.EncodeToString(sum[:])
}

func clamp(v float64) float64 {
	return max(0, min(1, v))
}
