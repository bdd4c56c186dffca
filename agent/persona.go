package agent

import "strings"

// Persona describes a single named agent: who it is, which tools it may call,
// which agents it may delegate to, and how its prompt is assembled.
type Persona struct {
	// Name is the unique identifier used in delegation markers and API paths.
	Name string `json:"name"`

	// Role is a short human-readable job title shown in status views.
	Role string `json:"role"`

	// Color is the hex accent color used by frontends.
	Color string `json:"color"`

	// Prompt is the persona's core instructions, without the delegation or
	// tool sections appended by SystemPrompt.
	Prompt string `json:"-"`

	// Tools lists the tool names this persona may invoke.
	Tools []string `json:"tools"`

	// DelegatesTo lists the agent names this persona may hand sub-tasks to.
	DelegatesTo []string `json:"delegates_to"`

	// Temperature is the sampling temperature used for this persona's
	// model calls.
	Temperature float64 `json:"temperature"`
}

// SystemPrompt assembles the full system prompt: the persona text, followed
// by delegation instructions when the persona has delegation targets, and a
// tool listing when it has tools.
func (p Persona) SystemPrompt() string {
	parts := []string{p.Prompt}
	if len(p.DelegatesTo) > 0 {
		parts = append(parts,
			"\n\nYou can delegate tasks to these agents: "+strings.Join(p.DelegatesTo, ", ")+". "+
				"To delegate, use this exact format on its own line:\n"+
				"[DELEGATE to AgentName]: Task description\n\n"+
				"Only delegate when a task is clearly better suited to another agent's expertise. "+
				"Always explain your plan before delegating.")
	}
	if len(p.Tools) > 0 {
		parts = append(parts, "\n\nYou have access to these tools: "+strings.Join(p.Tools, ", "))
	}
	return strings.Join(parts, "\n")
}

// CanDelegateTo reports whether name is in the persona's delegation
// allow-list.
func (p Persona) CanDelegateTo(name string) bool {
	for _, n := range p.DelegatesTo {
		if n == name {
			return true
		}
	}
	return false
}

// HasTool reports whether the persona is allowed to invoke the named tool.
func (p Persona) HasTool(name string) bool {
	for _, n := range p.Tools {
		if n == name {
			return true
		}
	}
	return false
}
