// Package model defines the provider-agnostic abstraction for language model
// generation inside AgentHub.
//
// Core goals:
//   - Unify streaming + non-streaming generation behind a single interface
//   - Keep request/response shapes minimal and transport independent
//   - Classify provider failures into a small error taxonomy so callers can
//     degrade gracefully instead of branching on vendor SDK types
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (OpenAI, Anthropic) implement the Model interface from this
// package so the orchestrator remains decoupled from vendor SDKs.
package model
