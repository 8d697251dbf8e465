package assistant

import (
	"encoding/json"
	"net/http"

	"github.com/futig/consult-assistant/internal/entity"
	"github.com/futig/consult-assistant/internal/pkg/logger"
	"github.com/futig/consult-assistant/internal/pkg/response"
	"github.com/futig/consult-assistant/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	usecase   AssistantUsecase
	validator *validator.Validator
}

func NewHandler(usecase AssistantUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// Chat handles POST /assistant/chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Chat")

	var req entity.ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateChatRequest(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	ctxzap.Debug(ctx, "handling chat message",
		zap.String("conversation_id", req.ConversationID),
		zap.Int("message_count", len(req.Messages)),
		zap.Bool("has_pricing", req.Pricing != nil),
	)

	reply, err := h.usecase.Reply(ctx, req)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	response.JSON(w, http.StatusOK, reply)
}

// Search handles POST /assistant/search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Search")

	var req entity.SearchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateSearchRequest(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	resp, err := h.usecase.Search(ctx, req)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "search completed", zap.Int("chunk_count", len(resp.Chunks)))
	response.JSON(w, http.StatusOK, resp)
}

// ClassifyTheme handles POST /assistant/theme
func (h *Handler) ClassifyTheme(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ClassifyTheme")

	var req entity.ClassifyThemeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateClassifyTheme(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	response.JSON(w, http.StatusOK, h.usecase.ClassifyTheme(req.Text))
}

// ConversationTheme handles GET /assistant/conversations/{conversation_id}/theme
func (h *Handler) ConversationTheme(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversation_id")
	response.JSON(w, http.StatusOK, h.usecase.Theme(conversationID))
}
