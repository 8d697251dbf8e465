package document

import (
	"encoding/json"
	"net/http"

	"github.com/futig/consult-assistant/internal/entity"
	"github.com/futig/consult-assistant/internal/pkg/logger"
	"github.com/futig/consult-assistant/internal/pkg/response"
	"github.com/futig/consult-assistant/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   IngestUsecase
	validator *validator.Validator
}

func NewHandler(usecase IngestUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// IngestDocument handles POST /documents
func (h *Handler) IngestDocument(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "IngestDocument")

	var req entity.IngestDocumentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4*validator.MaxDocumentChars)).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateIngestDocument(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	ctxzap.Info(ctx, "ingesting document",
		zap.String("title", req.Title),
		zap.Int("content_bytes", len(req.Content)),
	)

	resp, err := h.usecase.Ingest(ctx, req)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	response.JSON(w, http.StatusCreated, resp)
}
