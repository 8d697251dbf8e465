package document_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	documentapi "github.com/futig/consult-assistant/internal/api/document"
	"github.com/futig/consult-assistant/internal/config"
	"github.com/futig/consult-assistant/internal/entity"
	"github.com/futig/consult-assistant/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type ingestMock struct{ mock.Mock }

func (m *ingestMock) Ingest(ctx context.Context, req entity.IngestDocumentRequest) (*entity.IngestDocumentResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*entity.IngestDocumentResponse)
	return resp, args.Error(1)
}

func serve(uc *ingestMock, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	documentapi.RegisterRoutes(r, documentapi.NewHandler(uc, validator.NewValidator(config.AssistantConfig{})))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(body)))
	return rec
}

func TestIngestDocument(t *testing.T) {
	uc := &ingestMock{}
	uc.On("Ingest", mock.Anything, mock.MatchedBy(func(req entity.IngestDocumentRequest) bool {
		return req.Title == "FAQ" && req.Content == "Our process has four steps."
	})).Return(&entity.IngestDocumentResponse{DocumentID: "d1", ChunkCount: 1}, nil)

	rec := serve(uc, `{"title":"FAQ","content":"Our process has four steps."}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"document_id":"d1","chunk_count":1}`, rec.Body.String())
}

func TestIngestDocument_Validation(t *testing.T) {
	uc := &ingestMock{}

	rec := serve(uc, `{"title":"","content":"x"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything)
}

func TestIngestDocument_ProviderFailure(t *testing.T) {
	uc := &ingestMock{}
	uc.On("Ingest", mock.Anything, mock.Anything).Return(nil, &entity.ProviderError{Provider: "embedding", Err: errors.New("timeout")})

	rec := serve(uc, `{"title":"FAQ","content":"text"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
