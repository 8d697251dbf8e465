package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/futig/consult-assistant/internal/config"
	"github.com/futig/consult-assistant/internal/entity"
)

const (
	MaxSearchLimit   = 50
	MaxDocumentChars = 2_000_000
	MaxTitleChars    = 300
)

// Validator validates API requests before they reach the usecases
type Validator struct {
	cfg config.AssistantConfig
}

func NewValidator(cfg config.AssistantConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateChatRequest validates ChatRequest
func (v *Validator) ValidateChatRequest(req *entity.ChatRequest) error {
	if strings.TrimSpace(req.VisitorID) == "" {
		return fmt.Errorf("%w: visitor_id", entity.ErrMissingField)
	}
	if len(req.Messages) == 0 {
		return fmt.Errorf("%w: messages", entity.ErrMissingField)
	}

	last := req.Messages[len(req.Messages)-1]
	if last.Role != entity.RoleUser {
		return fmt.Errorf("%w: last message must be from the user", entity.ErrInvalidParameter)
	}

	for i, m := range req.Messages {
		if m.Role != entity.RoleUser && m.Role != entity.RoleAssistant {
			return fmt.Errorf("%w: messages[%d].role %q", entity.ErrInvalidParameter, i, m.Role)
		}
		if strings.TrimSpace(m.Content) == "" {
			return fmt.Errorf("%w: messages[%d].content", entity.ErrMissingField, i)
		}
		if v.cfg.MaxMessageChars > 0 && utf8.RuneCountInString(m.Content) > v.cfg.MaxMessageChars {
			return fmt.Errorf("%w: messages[%d] exceeds %d characters", entity.ErrInvalidParameter, i, v.cfg.MaxMessageChars)
		}
	}

	if req.Pricing != nil && req.Pricing.CurrentPrice < 0 {
		return fmt.Errorf("%w: pricing.current_price must not be negative", entity.ErrInvalidParameter)
	}

	return nil
}

// ValidateSearchRequest validates SearchRequest
func (v *Validator) ValidateSearchRequest(req *entity.SearchRequest) error {
	if strings.TrimSpace(req.VisitorID) == "" {
		return fmt.Errorf("%w: visitor_id", entity.ErrMissingField)
	}
	if strings.TrimSpace(req.Query) == "" {
		return fmt.Errorf("%w: query", entity.ErrMissingField)
	}
	if req.Limit < 0 || req.Limit > MaxSearchLimit {
		return fmt.Errorf("%w: limit must be between 0 and %d", entity.ErrInvalidParameter, MaxSearchLimit)
	}

	return nil
}

// ValidateClassifyTheme validates ClassifyThemeRequest
func (v *Validator) ValidateClassifyTheme(req *entity.ClassifyThemeRequest) error {
	if strings.TrimSpace(req.Text) == "" {
		return fmt.Errorf("%w: text", entity.ErrMissingField)
	}

	return nil
}

// ValidateIngestDocument validates IngestDocumentRequest
func (v *Validator) ValidateIngestDocument(req *entity.IngestDocumentRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title", entity.ErrMissingField)
	}
	if utf8.RuneCountInString(req.Title) > MaxTitleChars {
		return fmt.Errorf("%w: title exceeds %d characters", entity.ErrInvalidParameter, MaxTitleChars)
	}
	if strings.TrimSpace(req.Content) == "" {
		return fmt.Errorf("%w: content", entity.ErrMissingField)
	}
	if len(req.Content) > MaxDocumentChars {
		return fmt.Errorf("%w: content exceeds %d bytes", entity.ErrInvalidParameter, MaxDocumentChars)
	}

	return nil
}
