package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/consult-assistant/internal/config"
	"github.com/futig/consult-assistant/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.uber.org/zap"
)

const providerName = "llm"

type Connector struct {
	config config.LLMConnectorConfig
	client openai.Client
	logger *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.Token),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &Connector{
		config: cfg,
		client: openai.NewClient(opts...),
		logger: logger,
	}
}

// Generate runs one chat completion. Failures are not retried here.
func (c *Connector) Generate(ctx context.Context, systemPrompt string, messages []entity.ChatMessage) (string, error) {
	if c.config.Token == "" {
		return "", &entity.ConfigurationError{Key: "LLM_TOKEN"}
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("%w: messages", entity.ErrEmptyInput)
	}

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.config.Model),
		Messages: toCompletionMessages(systemPrompt, messages),
	}
	if c.config.Temperature > 0 {
		params.Temperature = openai.Float(c.config.Temperature)
	}
	if c.config.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.config.MaxTokens))
	}

	ctxzap.Debug(ctx, "requesting chat completion",
		zap.String("model", c.config.Model),
		zap.Int("message_count", len(params.Messages)),
	)

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", toProviderError(err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", &entity.ProviderError{Provider: providerName, Err: errors.New("empty completion")}
	}

	ctxzap.Info(ctx, "chat completion received",
		zap.Int64("prompt_tokens", completion.Usage.PromptTokens),
		zap.Int64("completion_tokens", completion.Usage.CompletionTokens),
	)

	return completion.Choices[0].Message.Content, nil
}

func toCompletionMessages(systemPrompt string, messages []entity.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	if systemPrompt != "" {
		result = append(result, openai.SystemMessage(systemPrompt))
	}
	for _, m := range messages {
		switch m.Role {
		case entity.RoleAssistant:
			result = append(result, openai.AssistantMessage(m.Content))
		default:
			result = append(result, openai.UserMessage(m.Content))
		}
	}
	return result
}

func toProviderError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	providerErr := &entity.ProviderError{Provider: providerName, Err: err}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		providerErr.StatusCode = apiErr.StatusCode
		providerErr.Body = apiErr.Message
		providerErr.Err = nil
	}
	return providerErr
}
