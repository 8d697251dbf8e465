package entity

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

type ChatMessage struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

type ChatRequest struct {
	ConversationID string        `json:"conversation_id,omitempty"`
	VisitorID      string        `json:"visitor_id"`
	Messages       []ChatMessage `json:"messages"`
	Service        *string       `json:"service,omitempty"`
	Pricing        *PricingState `json:"pricing,omitempty"`
}

type ChatSource struct {
	DocumentTitle string  `json:"document_title"`
	Similarity    float64 `json:"similarity"`
}

type ChatReply struct {
	ConversationID string       `json:"conversation_id"`
	Text           string       `json:"text"`
	Locale         string       `json:"locale"`
	Flags          []FlagKind   `json:"flags"`
	Grounded       bool         `json:"grounded"`
	Sources        []ChatSource `json:"sources"`
}

// RateLimitResult is the outcome of one fixed-window counter hit.
type RateLimitResult struct {
	Allowed   bool `json:"allowed"`
	Remaining int  `json:"remaining"`
}

// ThemeState drives ambient UI theming in the site; it never affects prompting.
type ThemeState struct {
	ActiveTheme string  `json:"active_theme"`
	Confidence  float64 `json:"confidence"`
}

type ClassifyThemeRequest struct {
	Text string `json:"text"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
