package guardrail

import (
	"github.com/futig/consult-assistant/internal/entity"
)

// Rule inspects text and may rewrite it. Apply reports whether the rule's flag is raised.
type Rule struct {
	Flag  entity.FlagKind
	Apply func(text string, pricing *entity.PricingState) (string, bool)
}

// Validator runs its rules left to right, each one seeing the output of the previous.
type Validator struct {
	rules []Rule
}

// NewValidator builds a validator over rules, or over DefaultRules when none are given.
func NewValidator(rules ...Rule) *Validator {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Validator{rules: rules}
}

// DefaultRules returns the commitment, price and scope rules in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		CommitmentRule(),
		PriceRule(),
		ScopeRule(),
	}
}

// Validate never fails. Pricing may be nil when the caller has no funnel snapshot.
func (v *Validator) Validate(text string, pricing *entity.PricingState) entity.ValidationResult {
	flags := make([]entity.FlagKind, 0, len(v.rules))
	for _, rule := range v.rules {
		var raised bool
		text, raised = rule.Apply(text, pricing)
		if raised && !containsFlag(flags, rule.Flag) {
			flags = append(flags, rule.Flag)
		}
	}

	return entity.ValidationResult{
		Valid:       len(flags) == 0,
		CleanedText: text,
		Flags:       flags,
	}
}

func containsFlag(flags []entity.FlagKind, flag entity.FlagKind) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}
