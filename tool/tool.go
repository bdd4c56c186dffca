// Package tool implements the capabilities agents can invoke beyond text
// generation: web search and scraping, sandboxed code execution, workspace
// file I/O, codebase search, and chart specifications.
//
// Tool results are string-keyed maps rather than typed structs so they can be
// serialized straight into events and API responses. Operational failures
// (timeouts, missing files, HTTP errors) are reported inside the result map
// under "error"; the error return is reserved for invocation problems such as
// missing or malformed arguments.
package tool

import (
	"context"
	"fmt"
)

// Result is a tool's output payload.
type Result map[string]any

// Tool is a single named capability.
type Tool interface {
	// Name returns the unique snake_case identifier used in persona
	// allow-lists.
	Name() string

	// Description tells the model when and how to use the tool.
	Description() string

	// Call executes the tool. Args are decoded from the caller's JSON.
	Call(ctx context.Context, args map[string]any) (Result, error)
}

// Registry resolves tool names and enforces per-agent allow-lists.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry builds a registry from the given tools.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if _, ok := r.tools[t.Name()]; ok {
			return nil, fmt.Errorf("duplicate tool %q", t.Name())
		}
		r.tools[t.Name()] = t
		r.order = append(r.order, t.Name())
	}
	return r, nil
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns all tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Call invokes the named tool if allowed lists it; otherwise it returns an
// error without executing anything.
func (r *Registry) Call(ctx context.Context, name string, allowed []string, args map[string]any) (Result, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", name)
	}
	permitted := false
	for _, a := range allowed {
		if a == name {
			permitted = true
			break
		}
	}
	if !permitted {
		return nil, fmt.Errorf("tool %q is not available to this agent", name)
	}
	return t.Call(ctx, args)
}

// DefaultRegistry returns the stock tool set rooted at the given workspace.
func DefaultRegistry(workspace *Workspace) (*Registry, error) {
	scrape := NewWebScrape()
	return NewRegistry(
		NewWebSearch(),
		scrape,
		NewSummarizeURL(scrape),
		NewExecuteCode(workspace),
		NewReadFile(workspace),
		NewWriteFile(workspace),
		NewSearchCodebase(workspace),
		NewCreateChart(),
	)
}

func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("argument %q must be a non-empty string", key)
	}
	return s, nil
}

func optionalStringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}
