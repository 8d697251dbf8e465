package guardrail

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/futig/consult-assistant/internal/entity"
)

const (
	CommitmentDisclaimer = "Timelines, results and terms are estimates until confirmed in a written proposal."
	PricePlaceholder     = "[pricing available on request]"

	// PriceTolerance is the accepted relative distance from the current price.
	PriceTolerance = 0.01
)

var commitmentPattern = regexp.MustCompile(`(?i)` + strings.Join([]string{
	`\bwe\s+guarantee\b`,
	`\bguarantee[sd]?\b`,
	`\b(?:in|within)\s+\d+\s+(?:business\s+|working\s+)?days?\b`,
	`\b100\s*%\s*(?:certain|sure|guaranteed)\b`,
	`\bwe\s+promise\b`,
	`\bdefinitely\s+will\b`,
	`\bwill\s+definitely\b`,
}, "|"))

const (
	// amount is a digit run with "." or "," separators and an optional k/m magnitude suffix.
	amount       = `\d+(?:[.,]\d+)*(?:[kKmM]\b)?`
	currencyCode = `(?:USD|EUR|MXN|GBP)`
	symbol       = `[$€£]`
)

var pricePattern = regexp.MustCompile(`(?i)` + strings.Join([]string{
	symbol + `\s?` + amount + `(?:\s?` + currencyCode + `\b)?`,
	`\b` + currencyCode + `\s?(?:` + symbol + `\s?)?` + amount,
	`\b` + amount + `\s?(?:` + currencyCode + `\b|` + symbol + `)`,
}, "|"))

var magnitudeSuffix = regexp.MustCompile(`\d([kKmM])\b`)

var outOfScopeTerms = []string{
	"cryptocurrency",
	"forex",
	"legal advice",
	"medical advice",
	"tax evasion",
	"gambling",
	"stock tips",
}

// CommitmentRule appends the disclaimer once when absolute commitment language is present.
// The offending phrase itself is kept.
func CommitmentRule() Rule {
	return Rule{
		Flag: entity.FlagCommitmentDetected,
		Apply: func(text string, _ *entity.PricingState) (string, bool) {
			if !commitmentPattern.MatchString(text) {
				return text, false
			}
			// Already qualified text is left alone and not flagged again.
			if strings.HasSuffix(text, CommitmentDisclaimer) {
				return text, false
			}
			trimmed := strings.TrimRight(text, " \t\n")
			return trimmed + "\n\n" + CommitmentDisclaimer, true
		},
	}
}

// PriceRule replaces every currency amount that is not within tolerance of the current price.
// Without a pricing snapshot no amount is authorized.
func PriceRule() Rule {
	return Rule{
		Flag: entity.FlagUnauthorizedPriceReplace,
		Apply: func(text string, pricing *entity.PricingState) (string, bool) {
			replaced := false
			out := pricePattern.ReplaceAllStringFunc(text, func(match string) string {
				if pricing != nil && withinTolerance(match, pricing.CurrentPrice) {
					return match
				}
				replaced = true
				return PricePlaceholder
			})
			return out, replaced
		},
	}
}

// ScopeRule tags out-of-scope topics. It never rewrites text.
func ScopeRule() Rule {
	return Rule{
		Flag: entity.FlagPotentialScopeViolation,
		Apply: func(text string, _ *entity.PricingState) (string, bool) {
			lower := strings.ToLower(text)
			for _, term := range outOfScopeTerms {
				if strings.Contains(lower, term) {
					return text, true
				}
			}
			return text, false
		},
	}
}

func withinTolerance(match string, current float64) bool {
	value, ok := parseAmount(match)
	if !ok {
		return false
	}
	return math.Abs(value-current) <= math.Abs(current)*PriceTolerance
}

// parseAmount reads the numeric value of a price match. A lone "." or "," followed by
// exactly three digits is a thousands separator; when both appear the last one is decimal.
func parseAmount(match string) (float64, bool) {
	multiplier := 1.0
	if m := magnitudeSuffix.FindStringSubmatch(match); m != nil {
		switch strings.ToLower(m[1]) {
		case "k":
			multiplier = 1e3
		case "m":
			multiplier = 1e6
		}
	}

	number := normalizeSeparators(strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			return r
		}
		return -1
	}, match))

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, false
	}
	return value * multiplier, true
}

func normalizeSeparators(s string) string {
	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		decimal, thousands := ".", ","
		if lastComma > lastDot {
			decimal, thousands = ",", "."
		}
		s = strings.ReplaceAll(s, thousands, "")
		return strings.Replace(s, decimal, ".", 1)
	case lastDot < 0 && lastComma < 0:
		return s
	}

	sep, last := ".", lastDot
	if lastComma >= 0 {
		sep, last = ",", lastComma
	}
	if strings.Count(s, sep) > 1 || len(s)-last-1 == 3 {
		return strings.ReplaceAll(s, sep, "")
	}
	return strings.Replace(s, sep, ".", 1)
}
