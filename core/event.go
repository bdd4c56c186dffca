package core

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies the kind of a broadcast event.
type EventType string

// Broadcast event kinds pushed to live observers.
const (
	EventAgentThinking EventType = "agent_thinking"
	EventAgentResponse EventType = "agent_response"
	EventAgentComplete EventType = "agent_complete"
	EventDelegation    EventType = "delegation"
	EventTaskUpdate    EventType = "task_update"
	EventStatusUpdate  EventType = "status_update"
	EventChatComplete  EventType = "chat_complete"
	EventError         EventType = "error"
	EventPong          EventType = "pong"
)

// Event is the envelope pushed to every live observer. Data carries the
// event-specific payload; ID and Timestamp exist for correlation and are
// assigned at construction. After emission an Event must be treated as
// immutable.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewEvent creates an event of the given type carrying data. A nil data map
// is normalized to an empty one so subscribers always see an object.
func NewEvent(t EventType, data map[string]any) Event {
	if data == nil {
		data = map[string]any{}
	}
	return Event{
		ID:        NewID(),
		Type:      t,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// NewThinkingEvent signals that an agent started processing a task.
func NewThinkingEvent(agent string, taskID int64) Event {
	return NewEvent(EventAgentThinking, map[string]any{
		"agent":   agent,
		"task_id": taskID,
	})
}

// NewResponseEvent carries a single streamed token from an agent's turn.
func NewResponseEvent(agent, token string, taskID, conversationID int64) Event {
	return NewEvent(EventAgentResponse, map[string]any{
		"agent":           agent,
		"token":           token,
		"task_id":         taskID,
		"conversation_id": conversationID,
	})
}

// NewCompleteEvent signals that an agent finished streaming its reply.
func NewCompleteEvent(agent string, taskID, conversationID int64) Event {
	return NewEvent(EventAgentComplete, map[string]any{
		"agent":           agent,
		"task_id":         taskID,
		"conversation_id": conversationID,
	})
}

// NewDelegationEvent records a hand-off from one agent to another.
func NewDelegationEvent(fromAgent, toAgent, task string, taskID int64) Event {
	return NewEvent(EventDelegation, map[string]any{
		"from_agent": fromAgent,
		"to_agent":   toAgent,
		"task":       task,
		"task_id":    taskID,
	})
}

// NewTaskUpdateEvent reports a task status transition.
func NewTaskUpdateEvent(taskID int64, status, agent string) Event {
	return NewEvent(EventTaskUpdate, map[string]any{
		"task_id": taskID,
		"status":  status,
		"agent":   agent,
	})
}

// NewStatusUpdateEvent carries the runtime status of every agent.
func NewStatusUpdateEvent(agents []AgentStatus) Event {
	return NewEvent(EventStatusUpdate, map[string]any{
		"agents": agents,
	})
}

// NewErrorEvent carries a user-facing error description.
func NewErrorEvent(message string) Event {
	return NewEvent(EventError, map[string]any{
		"message": message,
	})
}

// NewID generates a unique identifier used for event correlation and turn
// tracking.
func NewID() string { return uuid.NewString() }
