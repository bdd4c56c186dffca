// Package agent holds the static catalog of agent identities. A Persona is
// immutable descriptive data (role, prompt text, temperature, tool list,
// delegation allow-list); all runtime state for an agent lives with the
// orchestrator, never on the persona. The Registry resolves names to
// personas and provides the stock catalog via DefaultRegistry.
package agent
