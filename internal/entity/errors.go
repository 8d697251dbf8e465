package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors
var (
	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrEmptyInput       = errors.New("empty input")

	// Assistant errors
	ErrRateLimited = errors.New("rate limit exceeded")
)

// ConfigurationError is returned when a required credential or setting is absent.
// It is fatal and never retried.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s is not set", e.Key)
}

// ProviderError is an upstream embedding or LLM failure after the retry budget is spent,
// or a response that failed shape validation.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s provider error", e.Provider)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.StatusCode)
	}
	if e.Body != "" {
		fmt.Fprintf(&b, ": %s", e.Body)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// RetrievalError means the vector store call itself failed.
// Callers degrade to an ungrounded reply instead of failing the conversation.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// ValidationWarning carries guardrail flags for monitoring. It is logged, never returned.
type ValidationWarning struct {
	Flags []FlagKind
}

func (w *ValidationWarning) Error() string {
	names := make([]string, len(w.Flags))
	for i, f := range w.Flags {
		names[i] = string(f)
	}
	return "guardrail flags raised: " + strings.Join(names, ", ")
}
