package entity

// FlagKind names a guardrail rule outcome.
type FlagKind string

const (
	FlagCommitmentDetected       FlagKind = "commitment_detected"
	FlagUnauthorizedPriceReplace FlagKind = "unauthorized_price_replaced"
	FlagPotentialScopeViolation  FlagKind = "potential_scope_violation"
)

// PricingState is the funnel snapshot supplied by the caller. The assistant only reads it.
type PricingState struct {
	CurrentState    string  `json:"current_state"`
	Service         string  `json:"service"`
	Tier            string  `json:"tier"`
	BasePrice       float64 `json:"base_price"`
	CurrentPrice    float64 `json:"current_price"`
	DiscountApplied bool    `json:"discount_applied"`
	NudgeTriggered  bool    `json:"nudge_triggered"`
}

// ValidationResult is produced fresh by every guardrail run.
type ValidationResult struct {
	Valid       bool       `json:"valid"`
	CleanedText string     `json:"cleaned_text"`
	Flags       []FlagKind `json:"flags"`
}

// HasFlag reports whether the flag was raised.
func (r ValidationResult) HasFlag(flag FlagKind) bool {
	for _, f := range r.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Warning returns the monitoring signal for raised flags, or nil when the text was clean.
func (r ValidationResult) Warning() *ValidationWarning {
	if len(r.Flags) == 0 {
		return nil
	}
	return &ValidationWarning{Flags: r.Flags}
}
