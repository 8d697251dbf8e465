package assistant

import (
	"context"
	"time"

	"github.com/futig/consult-assistant/internal/entity"
)

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (entity.RateLimitResult, error)
}

type Retriever interface {
	Retrieve(ctx context.Context, query string, limit int, service *string) ([]entity.RetrievedChunk, error)
}

type LLMConnector interface {
	Generate(ctx context.Context, systemPrompt string, messages []entity.ChatMessage) (string, error)
}

type Guardrail interface {
	Validate(text string, pricing *entity.PricingState) entity.ValidationResult
}

type ThemeTracker interface {
	Observe(conversationID, text string)
	Current(conversationID string) entity.ThemeState
}

type ThemeClassifier interface {
	Classify(text string) entity.ThemeState
}
