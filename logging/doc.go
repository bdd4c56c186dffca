// Package logging provides a tiny abstraction over slog so downstream code
// depends on a minimal Logger interface while callers may plug in any
// structured logger. It also offers a contextual AgentHubLogger carrying
// component, conversation and task identifiers plus domain helpers for
// provider and tool calls.
package logging
