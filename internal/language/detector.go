package language

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/futig/consult-assistant/internal/entity"
)

const (
	DefaultLocale = "en"

	// MinScore is the keyword count a Latin-script locale needs to be selected.
	MinScore = 2

	conversationWindow = 3
)

// LanguageProfile is the detected locale together with the evidence that selected it.
type LanguageProfile struct {
	Locale   string   `json:"locale"`
	Script   string   `json:"script"`
	Score    int      `json:"score"`
	Evidence []string `json:"evidence,omitempty"`
}

type scriptRule struct {
	locale  string
	script  string
	pattern *regexp.Regexp
}

// Kana is checked before Han because Japanese text mixes both.
var scriptRules = []scriptRule{
	{locale: "ja", script: "Japanese", pattern: regexp.MustCompile(`[\p{Hiragana}\p{Katakana}]`)},
	{locale: "ko", script: "Hangul", pattern: regexp.MustCompile(`\p{Hangul}`)},
	{locale: "zh", script: "Han", pattern: regexp.MustCompile(`\p{Han}`)},
}

type latinLocale struct {
	locale   string
	keywords map[string]struct{}
}

func newLatinLocale(locale string, words ...string) latinLocale {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return latinLocale{locale: locale, keywords: set}
}

// Declaration order breaks score ties.
var latinLocales = []latinLocale{
	newLatinLocale("es",
		"el", "los", "las", "con", "está", "qué", "hola", "gracias", "quiero", "necesito",
		"cuánto", "cuanto", "cuesta", "usted", "también", "pero", "muy", "ayuda", "precio", "somos",
	),
	newLatinLocale("pt",
		"não", "você", "obrigado", "obrigada", "olá", "muito", "quero", "preciso", "quanto",
		"custa", "com", "uma", "os", "ajuda", "preço", "também", "estou",
	),
	newLatinLocale("fr",
		"le", "les", "est", "vous", "nous", "bonjour", "merci", "je", "pas", "avec",
		"pour", "combien", "coûte", "une", "des", "aide", "prix", "mais",
	),
	newLatinLocale("de",
		"der", "die", "das", "und", "ist", "nicht", "ich", "sie", "wir", "danke",
		"hallo", "bitte", "mit", "für", "wie", "viel", "kostet", "ein", "eine", "preis",
	),
	newLatinLocale("it",
		"il", "gli", "sono", "grazie", "ciao", "voglio", "costa", "non", "che", "della",
		"anche", "molto", "aiuto", "prezzo", "vorrei",
	),
}

// Detect classifies a single text. CJK scripts win over any Latin keyword evidence.
func Detect(text string) LanguageProfile {
	for _, rule := range scriptRules {
		if hit := rule.pattern.FindString(text); hit != "" {
			return LanguageProfile{Locale: rule.locale, Script: rule.script, Score: 1, Evidence: []string{hit}}
		}
	}

	words := tokenize(text)
	best := LanguageProfile{Locale: DefaultLocale, Script: "Latin"}
	for _, candidate := range latinLocales {
		var evidence []string
		for _, w := range words {
			if _, ok := candidate.keywords[w]; ok {
				evidence = append(evidence, w)
			}
		}
		if len(evidence) > best.Score {
			best = LanguageProfile{Locale: candidate.locale, Script: "Latin", Score: len(evidence), Evidence: evidence}
		}
	}

	if best.Score < MinScore {
		return LanguageProfile{Locale: DefaultLocale, Script: "Latin", Score: best.Score}
	}
	return best
}

// DetectLanguage returns only the locale tag of Detect.
func DetectLanguage(text string) string {
	return Detect(text).Locale
}

// DetectConversationLanguage pools the last three user messages before detecting.
func DetectConversationLanguage(messages []entity.ChatMessage) LanguageProfile {
	recent := make([]string, 0, conversationWindow)
	for i := len(messages) - 1; i >= 0 && len(recent) < conversationWindow; i-- {
		if messages[i].Role == entity.RoleUser {
			recent = append(recent, messages[i].Content)
		}
	}
	if len(recent) == 0 {
		return LanguageProfile{Locale: DefaultLocale, Script: "Latin"}
	}
	return Detect(strings.Join(recent, " "))
}

// addressPattern matches emails, URLs and bare domains, whose parts ("com", "os") would read as keywords.
var addressPattern = regexp.MustCompile(`(?i)\S+@\S+|\b(?:https?://|www\.)\S+|\b(?:[\p{L}\d-]+\.)+[a-z]{2,6}\b(?:/\S*)?`)

func tokenize(text string) []string {
	text = addressPattern.ReplaceAllString(text, " ")
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
