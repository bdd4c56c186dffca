package core

import "time"

// Conversation roles. Assistant rows additionally carry the producing agent's
// name; user and system rows never do.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Task lifecycle states. There is deliberately no "failed" state: provider
// errors are converted to response text and the task completes; only an
// orchestration fault can strand a task at in_progress.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusComplete   = "complete"
)

// Transient runtime states of an agent identity.
const (
	AgentIdle     = "idle"
	AgentThinking = "thinking"
)

// ChatMessage is the provider-facing unit of conversation context. AgentName
// is set only on assistant messages.
type ChatMessage struct {
	Role      string `json:"role"`
	AgentName string `json:"agent_name,omitempty"`
	Content   string `json:"content"`
}

// Conversation is a persisted chat container. It is created lazily on the
// first message of a turn when no id is supplied.
type Conversation struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is an append-only conversation row. Messages are never mutated;
// they disappear only through conversation cascade delete.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	Role           string    `json:"role"`
	AgentName      string    `json:"agent_name,omitempty"`
	Content        string    `json:"content"`
	TokensUsed     int       `json:"tokens_used,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Task is a persisted unit of work. ParentTaskID is nil for the root task of
// a user turn and set for delegated subtasks, so tasks form a forest.
type Task struct {
	ID             int64      `json:"id"`
	ConversationID int64      `json:"conversation_id"`
	ParentTaskID   *int64     `json:"parent_task_id,omitempty"`
	Description    string     `json:"description"`
	AssignedAgent  string     `json:"assigned_agent"`
	Status         string     `json:"status"`
	Result         string     `json:"result,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// Delegation is an audit edge recording one executed hand-off. It is never
// consulted for control flow.
type Delegation struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	FromAgent string    `json:"from_agent"`
	ToAgent   string    `json:"to_agent"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// MemoryFact is a long-term remembered fact, independent of any conversation
// lifecycle. Importance is clamped to [1,10] on insert.
type MemoryFact struct {
	ID                   int64     `json:"id"`
	Fact                 string    `json:"fact"`
	SourceConversationID *int64    `json:"source_conversation_id,omitempty"`
	Importance           int       `json:"importance"`
	CreatedAt            time.Time `json:"created_at"`
}

// AgentStatus is the transient runtime view of one agent identity.
type AgentStatus struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	CurrentTask string `json:"current_task,omitempty"`
}

// TurnResult is returned by the orchestrator for one processed user message.
type TurnResult struct {
	TaskID         int64  `json:"task_id"`
	Status         string `json:"status"`
	ConversationID int64  `json:"conversation_id"`
	Response       string `json:"response"`
	Agent          string `json:"agent"`
}
