package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/futig/consult-assistant/internal/config"
	"github.com/futig/consult-assistant/internal/entity"
	"github.com/futig/consult-assistant/internal/language"
	"github.com/futig/consult-assistant/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const rateLimitKeyPrefix = "visitor:"

// AssistantUsecase implements the grounded reply pipeline
type AssistantUsecase struct {
	cfg        config.AssistantConfig
	limiter    RateLimiter
	retriever  Retriever
	llm        LLMConnector
	guardrail  Guardrail
	themes     ThemeTracker
	classifier ThemeClassifier
	logger     *zap.Logger
}

// NewUsecase creates a new assistant use case
func NewUsecase(
	cfg config.AssistantConfig,
	limiter RateLimiter,
	retriever Retriever,
	llm LLMConnector,
	guardrail Guardrail,
	themes ThemeTracker,
	classifier ThemeClassifier,
	logger *zap.Logger,
) *AssistantUsecase {
	return &AssistantUsecase{
		cfg:        cfg,
		limiter:    limiter,
		retriever:  retriever,
		llm:        llm,
		guardrail:  guardrail,
		themes:     themes,
		classifier: classifier,
		logger:     logger,
	}
}

// Reply produces a grounded, sanitized reply in the visitor's language.
// Retrieval failures degrade to an ungrounded reply; guardrail flags never block it.
func (uc *AssistantUsecase) Reply(ctx context.Context, req entity.ChatRequest) (*entity.ChatReply, error) {
	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.New().String()
	}
	ctx = logger.AddFields(ctx,
		zap.String("conversation_id", conversationID),
		zap.String("visitor_id", req.VisitorID),
	)

	if err := uc.checkRateLimit(ctx, req.VisitorID); err != nil {
		return nil, err
	}

	profile := language.DetectConversationLanguage(req.Messages)
	ctxzap.Debug(ctx, "conversation language detected",
		zap.String("locale", profile.Locale),
		zap.Int("score", profile.Score),
		zap.Strings("evidence", profile.Evidence),
	)

	chunks, err := uc.retrieveContext(ctx, lastUserMessage(req.Messages), req.Service)
	if err != nil {
		return nil, err
	}

	systemPrompt, used := BuildSystemPrompt(PromptInput{
		LanguageInstruction: language.BuildLanguageInstruction(profile.Locale, uc.cfg.BrandTerms),
		Pricing:             req.Pricing,
		Chunks:              chunks,
		MaxContextChars:     uc.cfg.MaxContextChars,
	})
	chunks = chunks[:used]

	text, err := uc.llm.Generate(ctx, systemPrompt, TrimHistory(req.Messages, uc.cfg.MaxHistoryMessages))
	if err != nil {
		return nil, fmt.Errorf("generate reply: %w", err)
	}

	result := uc.guardrail.Validate(text, req.Pricing)
	if warning := result.Warning(); warning != nil {
		ctxzap.Warn(ctx, "guardrail sanitized reply", zap.Error(warning))
	}

	uc.themes.Observe(conversationID, result.CleanedText)

	sources := make([]entity.ChatSource, 0, len(chunks))
	for _, c := range chunks {
		sources = append(sources, entity.ChatSource{DocumentTitle: c.DocumentTitle, Similarity: c.Similarity})
	}

	ctxzap.Info(ctx, "reply generated",
		zap.String("locale", profile.Locale),
		zap.Bool("grounded", len(chunks) > 0),
		zap.Bool("valid", result.Valid),
	)

	return &entity.ChatReply{
		ConversationID: conversationID,
		Text:           result.CleanedText,
		Locale:         profile.Locale,
		Flags:          result.Flags,
		Grounded:       len(chunks) > 0,
		Sources:        sources,
	}, nil
}

// Search exposes retrieval directly. Unlike Reply, a failed store call is returned.
func (uc *AssistantUsecase) Search(ctx context.Context, req entity.SearchRequest) (*entity.SearchResponse, error) {
	ctx = logger.AddFields(ctx, zap.String("visitor_id", req.VisitorID))

	if err := uc.checkRateLimit(ctx, req.VisitorID); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = uc.cfg.RetrievalLimit
	}

	chunks, err := uc.retriever.Retrieve(ctx, req.Query, limit, req.Service)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	return &entity.SearchResponse{Chunks: chunks}, nil
}

// Theme returns the last debounced theme of the conversation.
func (uc *AssistantUsecase) Theme(conversationID string) entity.ThemeState {
	return uc.themes.Current(conversationID)
}

// ClassifyTheme scores text immediately, without debounce.
func (uc *AssistantUsecase) ClassifyTheme(text string) entity.ThemeState {
	return uc.classifier.Classify(text)
}

// checkRateLimit fails open when the key-value service is unreachable.
func (uc *AssistantUsecase) checkRateLimit(ctx context.Context, visitorID string) error {
	res, err := uc.limiter.Allow(ctx, rateLimitKeyPrefix+visitorID, uc.cfg.RateLimit, uc.cfg.RateLimitWindow)
	if err != nil {
		ctxzap.Error(ctx, "rate limiter unavailable, allowing request", zap.Error(err))
		return nil
	}
	if !res.Allowed {
		ctxzap.Warn(ctx, "visitor rate limited", zap.Int("limit", uc.cfg.RateLimit))
		return fmt.Errorf("%w: retry after the current window", entity.ErrRateLimited)
	}
	return nil
}

func (uc *AssistantUsecase) retrieveContext(ctx context.Context, query string, service *string) ([]entity.RetrievedChunk, error) {
	if query == "" {
		return nil, nil
	}

	chunks, err := uc.retriever.Retrieve(ctx, query, uc.cfg.RetrievalLimit, service)
	if err == nil {
		return chunks, nil
	}

	var (
		retrievalErr *entity.RetrievalError
		providerErr  *entity.ProviderError
	)
	if errors.As(err, &retrievalErr) || errors.As(err, &providerErr) {
		ctxzap.Warn(ctx, "retrieval failed, replying without grounding", zap.Error(err))
		return nil, nil
	}
	return nil, fmt.Errorf("retrieve context: %w", err)
}

func lastUserMessage(messages []entity.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == entity.RoleUser {
			return strings.TrimSpace(messages[i].Content)
		}
	}
	return ""
}
