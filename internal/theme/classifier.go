package theme

import (
	"regexp"
	"strings"

	"github.com/futig/consult-assistant/internal/entity"
)

const (
	Idle = "idle"

	// MinConfidence is the confidence a theme needs to become active.
	MinConfidence = 0.5

	saturationMatches = 4
)

// Theme is a vertical with the keywords that signal it.
type Theme struct {
	Name     string
	Keywords []string
}

// DefaultThemes lists the verticals in tie-breaking order.
func DefaultThemes() []Theme {
	return []Theme{
		{Name: "financial-advisory", Keywords: []string{"financial", "finance", "investment", "portfolio", "accounting", "audit", "budget", "wealth", "retirement"}},
		{Name: "healthcare", Keywords: []string{"health", "healthcare", "clinic", "patient", "patients", "doctor", "hospital", "wellness", "therapy"}},
		{Name: "real-estate", Keywords: []string{"real estate", "property", "properties", "mortgage", "rental", "listing", "apartment", "realtor"}},
		{Name: "e-commerce", Keywords: []string{"ecommerce", "e-commerce", "online store", "checkout", "cart", "inventory", "shipping", "catalog"}},
		{Name: "technology", Keywords: []string{"software", "saas", "cloud", "api", "platform", "automation", "integration", "startup"}},
	}
}

type compiledTheme struct {
	name    string
	pattern *regexp.Regexp
}

// Classifier scores text against keyword-density per theme.
type Classifier struct {
	themes []compiledTheme
}

func NewClassifier(themes ...Theme) *Classifier {
	if len(themes) == 0 {
		themes = DefaultThemes()
	}

	compiled := make([]compiledTheme, 0, len(themes))
	for _, t := range themes {
		quoted := make([]string, len(t.Keywords))
		for i, kw := range t.Keywords {
			quoted[i] = regexp.QuoteMeta(kw)
		}
		compiled = append(compiled, compiledTheme{
			name:    t.Name,
			pattern: regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`),
		})
	}
	return &Classifier{themes: compiled}
}

// Classify returns the highest scoring theme, or idle when none reaches MinConfidence.
func (c *Classifier) Classify(text string) entity.ThemeState {
	best := entity.ThemeState{ActiveTheme: Idle}
	for _, t := range c.themes {
		matches := len(t.pattern.FindAllStringIndex(text, -1))
		confidence := min(1.0, float64(matches)/saturationMatches)
		if confidence > best.Confidence {
			best = entity.ThemeState{ActiveTheme: t.name, Confidence: confidence}
		}
	}

	if best.Confidence < MinConfidence {
		return entity.ThemeState{ActiveTheme: Idle}
	}
	return best
}
