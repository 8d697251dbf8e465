package ingest_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/futig/consult-assistant/internal/config"
	"github.com/futig/consult-assistant/internal/entity"
	"github.com/futig/consult-assistant/internal/usecase/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type embedderMock struct{ mock.Mock }

func (m *embedderMock) Embed(ctx context.Context, texts []string, mode entity.EmbeddingMode) ([][]float32, error) {
	args := m.Called(ctx, texts, mode)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(i)}
	}
	return vectors, nil
}

type documentRepoMock struct{ mock.Mock }

func (m *documentRepoMock) ReplaceDocument(ctx context.Context, doc entity.Document, chunks []entity.DocumentChunk, embeddings [][]float32) (string, error) {
	args := m.Called(ctx, doc, chunks, embeddings)
	return args.String(0), args.Error(1)
}

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(w, " ")
}

func TestIngest_BatchesEmbeddings(t *testing.T) {
	embedder := &embedderMock{}
	repo := &documentRepoMock{}
	svc := "web"

	embedder.On("Embed", mock.Anything, mock.Anything, entity.EmbeddingModeDocument).Return(nil, nil)
	repo.On("ReplaceDocument", mock.Anything,
		mock.MatchedBy(func(d entity.Document) bool { return d.Title == "FAQ" && *d.Service == "web" && d.ID != "" }),
		mock.MatchedBy(func(c []entity.DocumentChunk) bool { return len(c) == 5 && c[4].Index == 4 && c[0].SourceTitle == "FAQ" }),
		mock.MatchedBy(func(e [][]float32) bool { return len(e) == 5 }),
	).Return("doc-1", nil)

	// 10 words, size 2, no overlap: 5 chunks, embedded in batches of 2.
	uc := ingest.NewUsecase(repo, embedder, config.ChunkingConfig{Size: 2, Overlap: 0}, 2, zap.NewNop())
	resp, err := uc.Ingest(context.Background(), entity.IngestDocumentRequest{Title: "FAQ", Service: &svc, Content: words(10)})
	require.NoError(t, err)

	assert.Equal(t, &entity.IngestDocumentResponse{DocumentID: "doc-1", ChunkCount: 5}, resp)
	embedder.AssertNumberOfCalls(t, "Embed", 3)
	repo.AssertExpectations(t)
}

func TestIngest_EmptyContent(t *testing.T) {
	uc := ingest.NewUsecase(&documentRepoMock{}, &embedderMock{}, config.ChunkingConfig{Size: 500, Overlap: 50}, 96, zap.NewNop())

	_, err := uc.Ingest(context.Background(), entity.IngestDocumentRequest{Title: "FAQ", Content: "   "})

	assert.ErrorIs(t, err, entity.ErrEmptyInput)
}

func TestIngest_EmbeddingFailureStoresNothing(t *testing.T) {
	embedder := &embedderMock{}
	repo := &documentRepoMock{}
	embedder.On("Embed", mock.Anything, mock.Anything, mock.Anything).Return(nil, &entity.ProviderError{Provider: "embedding", StatusCode: 500})

	uc := ingest.NewUsecase(repo, embedder, config.ChunkingConfig{Size: 500}, 96, zap.NewNop())
	_, err := uc.Ingest(context.Background(), entity.IngestDocumentRequest{Title: "FAQ", Content: "some text"})

	var providerErr *entity.ProviderError
	require.ErrorAs(t, err, &providerErr)
	repo.AssertNotCalled(t, "ReplaceDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIngest_RepositoryFailure(t *testing.T) {
	embedder := &embedderMock{}
	repo := &documentRepoMock{}
	embedder.On("Embed", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	repo.On("ReplaceDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("tx aborted"))

	uc := ingest.NewUsecase(repo, embedder, config.ChunkingConfig{Size: 500}, 96, zap.NewNop())
	_, err := uc.Ingest(context.Background(), entity.IngestDocumentRequest{Title: "FAQ", Content: "some text"})

	assert.ErrorContains(t, err, "tx aborted")
}
