// Package usage adapts model-SDK token accounting into core.TokenUsage for
// turn-level reconciliation. The workflow engine learns token counts only
// after an agent invocation completes; these adapters convert whatever the
// model client reported into the shape RecordTurnUsage expects.
package usage

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"

	"github.com/hupe1980/mazemesh/core"
)

// FromAnthropic converts an Anthropic Messages API usage payload.
func FromAnthropic(u anthropic.Usage) core.TokenUsage {
	return core.TokenUsage{
		InputTokens:  int(u.InputTokens),
		OutputTokens: int(u.OutputTokens),
	}
}

// FromOpenAI converts an OpenAI chat completion usage payload.
func FromOpenAI(u openai.CompletionUsage) core.TokenUsage {
	return core.TokenUsage{
		InputTokens:  int(u.PromptTokens),
		OutputTokens: int(u.CompletionTokens),
	}
}

// Sum folds several per-call usages into one turn total, for turns that made
// multiple model calls.
func Sum(usages ...core.TokenUsage) core.TokenUsage {
	var total core.TokenUsage
	for _, u := range usages {
		total = total.Add(u)
	}
	return total
}
