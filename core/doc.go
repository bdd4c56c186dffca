// Package core defines the domain contracts shared by every AgentHub
// component: persisted records (conversations, messages, tasks, delegations,
// memory facts), the chat message unit handed to generation providers, the
// broadcast event envelope, and the store/publisher interfaces implemented by
// the persistence and transport layers.
//
// Keeping contracts here prevents dependency cycles between the orchestrator,
// the storage backends and the transport: implementations live in their own
// packages (store, memory, hub, server) and depend only on core.
package core
