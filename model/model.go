package model

import (
	"context"

	"github.com/agenthubhq/agenthub/core"
)

// Request captures the normalized model input produced by the orchestrator.
type Request struct {
	// System is the full system prompt for the active persona.
	System string `json:"system"`

	// Messages is the conversation history, oldest first. Role must be
	// "user" or "assistant"; system text goes in System.
	Messages []core.ChatMessage `json:"messages"`

	// Temperature overrides the provider default when > 0.
	Temperature float64 `json:"temperature,omitempty"`

	// MaxTokens overrides the provider default when > 0.
	MaxTokens int64 `json:"max_tokens,omitempty"`

	// Stream requests partial token responses before the final one.
	Stream bool `json:"stream,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a (partial or final) chunk emitted by a model.
//
// Partial responses carry the incremental text delta; the final response
// carries the complete accumulated text.
type Response struct {
	Partial      bool        `json:"partial"`
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason,omitempty"`
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface the orchestrator needs to drive generation.
type Model interface {
	// Generate starts a generation and returns a response channel and an
	// error channel. Both are closed when generation ends. At most one
	// error is sent; errors from provider SDKs are wrapped in *Error.
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}
