// Package orchestrator routes user messages to agent personas, executes the
// delegation protocol, and maintains the task forest.
//
// A turn runs as: persist the user message, create an in_progress task,
// stream the assigned agent's model response as events, scan the response
// for delegation markers, execute each hand-off sequentially, compile the
// combined output, and complete the task. Provider failures become response
// text; the turn still completes. Only orchestration faults (storage errors)
// produce an error-status result, and even those are reported as a result
// value rather than a Go error.
//
// Delegated responses are not re-scanned for markers: delegation fans out one
// level per turn. The depth and visited-set guards exist so a hand-off chain
// can never loop even when Delegate is driven externally.
package orchestrator
