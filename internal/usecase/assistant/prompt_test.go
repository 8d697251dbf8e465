package assistant_test

import (
	"strings"
	"testing"

	"github.com/futig/consult-assistant/internal/entity"
	"github.com/futig/consult-assistant/internal/usecase/assistant"
	"github.com/stretchr/testify/assert"
)

func TestBuildSystemPrompt_ContextBudget(t *testing.T) {
	chunks := []entity.RetrievedChunk{
		{DocumentTitle: "A", ChunkText: strings.Repeat("a", 40)},
		{DocumentTitle: "B", ChunkText: strings.Repeat("b", 40)},
		{DocumentTitle: "C", ChunkText: strings.Repeat("c", 40)},
	}

	prompt, used := assistant.BuildSystemPrompt(assistant.PromptInput{Chunks: chunks, MaxContextChars: 110})

	assert.Equal(t, 2, used)
	assert.Contains(t, prompt, "[1] A")
	assert.Contains(t, prompt, "[2] B")
	assert.NotContains(t, prompt, "[3] C")
	assert.Less(t, strings.Index(prompt, "[1] A"), strings.Index(prompt, "[2] B"))
}

func TestBuildSystemPrompt_OversizedFirstChunkIsTruncated(t *testing.T) {
	chunks := []entity.RetrievedChunk{{DocumentTitle: "Long", ChunkText: strings.Repeat("x", 500)}}

	prompt, used := assistant.BuildSystemPrompt(assistant.PromptInput{Chunks: chunks, MaxContextChars: 50})

	assert.Equal(t, 1, used)
	assert.Contains(t, prompt, "[1] Long")
	assert.NotContains(t, prompt, strings.Repeat("x", 100))
}

func TestBuildSystemPrompt_Sections(t *testing.T) {
	prompt, used := assistant.BuildSystemPrompt(assistant.PromptInput{
		LanguageInstruction: "Respond entirely in German.",
		Pricing: &entity.PricingState{
			Service: "web", Tier: "pro", BasePrice: 12000, CurrentPrice: 10000, DiscountApplied: true,
		},
	})

	assert.Zero(t, used)
	assert.Contains(t, prompt, "Respond entirely in German.")
	assert.Contains(t, prompt, "current price $10000.00")
	assert.Contains(t, prompt, "discounted from $12000.00")
	assert.Contains(t, prompt, "No reference material")
}

func TestTrimHistory(t *testing.T) {
	msgs := []entity.ChatMessage{{Content: "1"}, {Content: "2"}, {Content: "3"}}

	assert.Equal(t, msgs, assistant.TrimHistory(msgs, 0))
	assert.Equal(t, msgs, assistant.TrimHistory(msgs, 5))
	assert.Equal(t, msgs[1:], assistant.TrimHistory(msgs, 2))
}
