package language

import (
	"fmt"
	"strings"
)

var localeNames = map[string]string{
	"es": "Spanish",
	"pt": "Portuguese",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
}

// BuildLanguageInstruction returns the response-language directive for the prompt.
// The default locale needs no directive and yields an empty string.
func BuildLanguageInstruction(locale string, brandTerms []string) string {
	if locale == "" || locale == DefaultLocale {
		return ""
	}

	name, ok := localeNames[locale]
	if !ok {
		name = locale
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Respond entirely in %s, including headings and calls to action.", name)
	if len(brandTerms) > 0 {
		fmt.Fprintf(&b, " Keep these names exactly as written and never translate them: %s.", strings.Join(brandTerms, ", "))
	}
	return b.String()
}
