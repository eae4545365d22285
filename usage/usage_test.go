package usage

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/mazemesh/core"
)

func TestFromAnthropic(t *testing.T) {
	got := FromAnthropic(anthropic.Usage{InputTokens: 1200, OutputTokens: 340})
	assert.Equal(t, core.TokenUsage{InputTokens: 1200, OutputTokens: 340}, got)
}

func TestFromOpenAI(t *testing.T) {
	got := FromOpenAI(openai.CompletionUsage{PromptTokens: 800, CompletionTokens: 150, TotalTokens: 950})
	assert.Equal(t, core.TokenUsage{InputTokens: 800, OutputTokens: 150}, got)
}

func TestSum(t *testing.T) {
	total := Sum(
		core.TokenUsage{InputTokens: 10, OutputTokens: 1},
		core.TokenUsage{InputTokens: 20, OutputTokens: 2},
		core.TokenUsage{InputTokens: 30, OutputTokens: 3},
	)
	assert.Equal(t, core.TokenUsage{InputTokens: 60, OutputTokens: 6}, total)

	assert.Equal(t, core.TokenUsage{}, Sum())
}
