package assistant

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/futig/consult-assistant/internal/entity"
)

const basePersona = `You are the virtual consultant of a digital services studio.
Answer questions about services, process and pricing using only the reference material and the pricing summary below.
If the material does not cover a question, say so and offer to book a short call.
Never promise delivery dates, outcomes or prices that are not stated in the pricing summary.
Keep answers short and friendly.`

// PromptInput is everything the system prompt is assembled from.
type PromptInput struct {
	LanguageInstruction string
	Pricing             *entity.PricingState
	Chunks              []entity.RetrievedChunk
	MaxContextChars     int
}

// BuildSystemPrompt assembles the bounded system prompt. Chunks are added in retrieval order
// until MaxContextChars is spent; the returned count says how many made it in.
func BuildSystemPrompt(in PromptInput) (string, int) {
	var b strings.Builder
	b.WriteString(basePersona)

	if in.LanguageInstruction != "" {
		b.WriteString("\n\n")
		b.WriteString(in.LanguageInstruction)
	}

	if in.Pricing != nil {
		b.WriteString("\n\n")
		b.WriteString(pricingSummary(in.Pricing))
	}

	material, used := buildContext(in.Chunks, in.MaxContextChars)
	if used > 0 {
		b.WriteString("\n\nReference material:\n")
		b.WriteString(material)
	} else {
		b.WriteString("\n\nNo reference material matched this question. Answer only in general terms.")
	}

	return b.String(), used
}

func pricingSummary(p *entity.PricingState) string {
	var b strings.Builder
	b.WriteString("Pricing summary:")
	if p.Service != "" {
		fmt.Fprintf(&b, " service %s", p.Service)
	}
	if p.Tier != "" {
		fmt.Fprintf(&b, ", tier %s", p.Tier)
	}
	fmt.Fprintf(&b, ", current price $%.2f", p.CurrentPrice)
	if p.DiscountApplied && p.BasePrice > p.CurrentPrice {
		fmt.Fprintf(&b, " (discounted from $%.2f)", p.BasePrice)
	}
	b.WriteString(". Quote only this price.")
	return b.String()
}

func buildContext(chunks []entity.RetrievedChunk, maxChars int) (string, int) {
	var b strings.Builder
	used := 0
	remaining := maxChars

	for i, chunk := range chunks {
		section := fmt.Sprintf("[%d] %s\n%s\n\n", i+1, chunk.DocumentTitle, chunk.ChunkText)
		n := utf8.RuneCountInString(section)
		if maxChars > 0 && n > remaining {
			if used == 0 && remaining > 0 {
				b.WriteString(truncateRunes(section, remaining))
				used++
			}
			break
		}
		b.WriteString(section)
		remaining -= n
		used++
	}

	return strings.TrimRight(b.String(), "\n"), used
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// TrimHistory keeps the last limit messages. A non-positive limit keeps all of them.
func TrimHistory(messages []entity.ChatMessage, limit int) []entity.ChatMessage {
	if limit <= 0 || len(messages) <= limit {
		return messages
	}
	return messages[len(messages)-limit:]
}
