package core

// ConversationStore persists conversations and their append-only messages.
type ConversationStore interface {
	CreateConversation(title string) (int64, error)
	GetConversation(id int64) (*Conversation, error)
	ListConversations(limit, offset int) ([]Conversation, error)
	CountConversations() (int, error)
	// TouchConversation bumps the conversation's updated_at timestamp.
	TouchConversation(id int64) error
	// DeleteConversation removes the conversation and cascades to its
	// messages and tasks.
	DeleteConversation(id int64) error

	AppendMessage(m Message) (int64, error)
	MessagesByConversation(conversationID int64, limit int) ([]Message, error)
	RecentMessagesByAgent(agentName string, limit int) ([]Message, error)
}

// TaskStore persists the task forest and its delegation audit edges. Each
// method commits independently; there is no transaction spanning a whole
// turn, so a crash mid-turn can strand a task at in_progress.
type TaskStore interface {
	CreateTask(t Task) (int64, error)
	GetTask(id int64) (*Task, error)
	// MarkTaskInProgress transitions a task out of pending.
	MarkTaskInProgress(id int64) error
	// CompleteTask marks the task complete, storing a truncated result
	// snapshot and the completion timestamp.
	CompleteTask(id int64, result string) error
	ListTasks(status string, limit, offset int) ([]Task, error)
	CountTasks(status string) (int, error)
	// SubtasksByParent returns a task's direct children in creation order.
	SubtasksByParent(parentTaskID int64) ([]Task, error)
	RecordDelegation(d Delegation) (int64, error)
	DelegationsByTask(taskID int64) ([]Delegation, error)
}

// SettingsStore is a plain key/value override table.
type SettingsStore interface {
	GetSetting(key string) (string, bool, error)
	SetSetting(key, value string) error
	AllSettings() (map[string]string, error)
}

// Store aggregates the persistence surface consumed by the orchestrator and
// the transport layer.
type Store interface {
	ConversationStore
	TaskStore
	SettingsStore
}

// MemoryStore persists long-term facts independent of conversations.
type MemoryStore interface {
	// AddFact stores a fact, clamping importance to [1,10], and returns
	// its id.
	AddFact(fact string, sourceConversationID *int64, importance int) (int64, error)
	// SearchFacts matches any whitespace-separated query word against the
	// fact text (case-insensitive substring, OR semantics), ranked by
	// importance then recency. An empty query returns no results.
	SearchFacts(query string, limit int) ([]MemoryFact, error)
	AllFacts(limit, offset int) ([]MemoryFact, error)
}

// Publisher fans out events to all live observers. Implementations must
// never fail the caller: delivery problems are handled per subscriber.
type Publisher interface {
	Publish(ev Event)
}
