// Package history keeps per-agent conversation context bounded and owned by
// the orchestrator. The Book stores message history keyed by (conversation,
// agent) so concurrent turns addressed to the same agent identity never share
// a buffer, and the Compactor truncates a history to a token budget while
// preserving the earliest context and a record of what was dropped.
package history

import (
	"fmt"

	"github.com/agenthubhq/agenthub/core"
)

// DefaultMaxContextTokens is the context budget applied when none is
// configured.
const DefaultMaxContextTokens = 3000

// Compactor bounds a conversation history to a token budget using the rough
// heuristic of four characters per token.
type Compactor struct {
	// MaxContextTokens is the budget applied by Compact.
	MaxContextTokens int
}

// NewCompactor returns a Compactor with the given budget, substituting the
// default for non-positive values.
func NewCompactor(maxContextTokens int) *Compactor {
	if maxContextTokens <= 0 {
		maxContextTokens = DefaultMaxContextTokens
	}
	return &Compactor{MaxContextTokens: maxContextTokens}
}

// Compact returns the history unchanged when its estimated token count fits
// the budget. Otherwise it keeps the first message verbatim, walks the
// remaining messages newest-first keeping the longest trailing run that fits
// the leftover character budget, and reassembles chronologically with a
// synthetic system marker naming the omitted count. Compact is idempotent.
func (c *Compactor) Compact(h []core.ChatMessage) []core.ChatMessage {
	if len(h) == 0 {
		return h
	}

	totalChars := 0
	for _, m := range h {
		totalChars += len(m.Content)
	}
	if totalChars/4 <= c.MaxContextTokens {
		return h
	}

	// First message is always retained, even if it alone exceeds the budget.
	remaining := c.MaxContextTokens*4 - len(h[0].Content)

	var kept []core.ChatMessage
	trimmed := 0
	for i := len(h) - 1; i >= 1; i-- {
		n := len(h[i].Content)
		if remaining-n > 0 {
			kept = append([]core.ChatMessage{h[i]}, kept...)
			remaining -= n
		} else {
			trimmed++
		}
	}

	result := make([]core.ChatMessage, 0, len(kept)+2)
	result = append(result, h[0])
	if trimmed > 0 {
		result = append(result, core.ChatMessage{
			Role:    core.RoleSystem,
			Content: fmt.Sprintf("[%d earlier messages omitted for context length]", trimmed),
		})
	}
	return append(result, kept...)
}
