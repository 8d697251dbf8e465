package assistant

import (
	"context"

	"github.com/futig/consult-assistant/internal/entity"
)

type AssistantUsecase interface {
	Reply(ctx context.Context, req entity.ChatRequest) (*entity.ChatReply, error)
	Search(ctx context.Context, req entity.SearchRequest) (*entity.SearchResponse, error)
	Theme(conversationID string) entity.ThemeState
	ClassifyTheme(text string) entity.ThemeState
}
