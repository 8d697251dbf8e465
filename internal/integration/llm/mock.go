package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/consult-assistant/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector answers without calling the provider. The reply echoes the last user
// message so that the rest of the pipeline can be exercised end to end.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Generate(ctx context.Context, systemPrompt string, messages []entity.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("%w: messages", entity.ErrEmptyInput)
	}

	ctxzap.Info(ctx, "[MOCK] generating chat completion",
		zap.Int("system_prompt_chars", len(systemPrompt)),
		zap.Int("message_count", len(messages)),
	)

	last := messages[len(messages)-1].Content
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == entity.RoleUser {
			last = messages[i].Content
			break
		}
	}

	return "Thanks for your message about \"" + strings.TrimSpace(last) + "\". A consultant can walk you through the details on a short call.", nil
}
