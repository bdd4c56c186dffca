// Package store persists conversations, messages, the task forest, delegation
// audit rows, and settings in SQLite. It is the single durable surface behind
// the orchestrator and the HTTP layer.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agenthubhq/agenthub/core"
)

// Store implements core.Store over a SQLite database.
type Store struct {
	db *sql.DB
}

// New opens (creating if necessary) the database at path and applies the
// schema.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("db path required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	return open(dsn)
}

// NewInMemory opens a private in-memory database, for tests.
func NewInMemory() (*Store, error) {
	return open("file::memory:?_pragma=foreign_keys(1)")
}

func open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite has a single writer; one connection also keeps the in-memory
	// database from splitting across pool connections.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying handle so sibling stores (memory facts) can share
// the same database file.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func now() time.Time { return time.Now().UTC() }

// CreateConversation inserts a conversation and returns its id.
func (s *Store) CreateConversation(title string) (int64, error) {
	ts := now()
	res, err := s.db.Exec(
		`INSERT INTO conversations (title, created_at, updated_at) VALUES (?, ?, ?)`,
		title, ts, ts,
	)
	if err != nil {
		return 0, fmt.Errorf("insert conversation: %w", err)
	}
	return res.LastInsertId()
}

// GetConversation returns the conversation or nil when it does not exist.
func (s *Store) GetConversation(id int64) (*core.Conversation, error) {
	var c core.Conversation
	err := s.db.QueryRow(
		`SELECT id, title, created_at, updated_at FROM conversations WHERE id = ?`, id,
	).Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return &c, nil
}

// ListConversations returns conversations newest-activity first.
func (s *Store) ListConversations(limit, offset int) ([]core.Conversation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, title, created_at, updated_at FROM conversations
		 ORDER BY updated_at DESC LIMIT ? OFFSET ?`, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var out []core.Conversation
	for rows.Next() {
		var c core.Conversation
		if err := rows.Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountConversations returns the total number of conversations.
func (s *Store) CountConversations() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM conversations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count conversations: %w", err)
	}
	return n, nil
}

// TouchConversation bumps updated_at.
func (s *Store) TouchConversation(id int64) error {
	if _, err := s.db.Exec(`UPDATE conversations SET updated_at = ? WHERE id = ?`, now(), id); err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}
	return nil
}

// DeleteConversation removes the conversation; messages and tasks cascade.
func (s *Store) DeleteConversation(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM conversations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}

// AppendMessage inserts a message row and returns its id.
func (s *Store) AppendMessage(m core.Message) (int64, error) {
	ts := m.CreatedAt
	if ts.IsZero() {
		ts = now()
	}
	res, err := s.db.Exec(
		`INSERT INTO messages (conversation_id, role, agent_name, content, tokens_used, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.ConversationID, m.Role, nullString(m.AgentName), m.Content, m.TokensUsed, ts,
	)
	if err != nil {
		return 0, fmt.Errorf("insert message: %w", err)
	}
	return res.LastInsertId()
}

// MessagesByConversation returns the most recent limit messages of a
// conversation in chronological order. A non-positive limit returns all.
func (s *Store) MessagesByConversation(conversationID int64, limit int) ([]core.Message, error) {
	query := `SELECT id, conversation_id, role, agent_name, content, tokens_used, created_at
		 FROM messages WHERE conversation_id = ? ORDER BY id DESC`
	args := []any{conversationID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	msgs, err := s.scanMessages(query, args...)
	if err != nil {
		return nil, err
	}
	reverse(msgs)
	return msgs, nil
}

// RecentMessagesByAgent returns the latest messages produced by the named
// agent, newest first.
func (s *Store) RecentMessagesByAgent(agentName string, limit int) ([]core.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.scanMessages(
		`SELECT id, conversation_id, role, agent_name, content, tokens_used, created_at
		 FROM messages WHERE agent_name = ? ORDER BY id DESC LIMIT ?`,
		agentName, limit,
	)
}

func (s *Store) scanMessages(query string, args ...any) ([]core.Message, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var out []core.Message
	for rows.Next() {
		var m core.Message
		var agent sql.NullString
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &agent, &m.Content, &m.TokensUsed, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.AgentName = agent.String
		out = append(out, m)
	}
	return out, rows.Err()
}

// CreateTask inserts a task row and returns its id.
func (s *Store) CreateTask(t core.Task) (int64, error) {
	status := t.Status
	if status == "" {
		status = core.TaskStatusPending
	}
	ts := t.CreatedAt
	if ts.IsZero() {
		ts = now()
	}
	res, err := s.db.Exec(
		`INSERT INTO tasks (conversation_id, parent_task_id, description, assigned_agent, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ConversationID, nullInt64(t.ParentTaskID), t.Description, t.AssignedAgent, status, ts,
	)
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	return res.LastInsertId()
}

// GetTask returns the task or nil when it does not exist.
func (s *Store) GetTask(id int64) (*core.Task, error) {
	tasks, err := s.scanTasks(
		`SELECT id, conversation_id, parent_task_id, description, assigned_agent, status, result, created_at, completed_at
		 FROM tasks WHERE id = ?`, id,
	)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, nil
	}
	return &tasks[0], nil
}

// MarkTaskInProgress transitions a task out of pending.
func (s *Store) MarkTaskInProgress(id int64) error {
	if _, err := s.db.Exec(`UPDATE tasks SET status = ? WHERE id = ?`, core.TaskStatusInProgress, id); err != nil {
		return fmt.Errorf("mark task in progress: %w", err)
	}
	return nil
}

// CompleteTask marks the task complete with its result snapshot.
func (s *Store) CompleteTask(id int64, result string) error {
	_, err := s.db.Exec(
		`UPDATE tasks SET status = ?, result = ?, completed_at = ? WHERE id = ?`,
		core.TaskStatusComplete, result, now(), id,
	)
	if err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}

// ListTasks returns tasks newest first, optionally filtered by status.
func (s *Store) ListTasks(status string, limit, offset int) ([]core.Task, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, conversation_id, parent_task_id, description, assigned_agent, status, result, created_at, completed_at
		 FROM tasks`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)
	return s.scanTasks(query, args...)
}

// CountTasks returns the total number of tasks, optionally filtered by
// status.
func (s *Store) CountTasks(status string) (int, error) {
	query := `SELECT COUNT(*) FROM tasks`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	var n int
	if err := s.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

// SubtasksByParent returns a task's direct children in creation order.
func (s *Store) SubtasksByParent(parentTaskID int64) ([]core.Task, error) {
	return s.scanTasks(
		`SELECT id, conversation_id, parent_task_id, description, assigned_agent, status, result, created_at, completed_at
		 FROM tasks WHERE parent_task_id = ? ORDER BY id ASC`, parentTaskID,
	)
}

func (s *Store) scanTasks(query string, args ...any) ([]core.Task, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var out []core.Task
	for rows.Next() {
		var t core.Task
		var parent sql.NullInt64
		var result sql.NullString
		var completed sql.NullTime
		if err := rows.Scan(&t.ID, &t.ConversationID, &parent, &t.Description, &t.AssignedAgent, &t.Status, &result, &t.CreatedAt, &completed); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if parent.Valid {
			v := parent.Int64
			t.ParentTaskID = &v
		}
		t.Result = result.String
		if completed.Valid {
			v := completed.Time
			t.CompletedAt = &v
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// RecordDelegation inserts a delegation audit row and returns its id.
func (s *Store) RecordDelegation(d core.Delegation) (int64, error) {
	ts := d.CreatedAt
	if ts.IsZero() {
		ts = now()
	}
	res, err := s.db.Exec(
		`INSERT INTO delegations (task_id, from_agent, to_agent, reason, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		d.TaskID, d.FromAgent, d.ToAgent, d.Reason, ts,
	)
	if err != nil {
		return 0, fmt.Errorf("insert delegation: %w", err)
	}
	return res.LastInsertId()
}

// DelegationsByTask returns the task's delegation rows in creation order.
func (s *Store) DelegationsByTask(taskID int64) ([]core.Delegation, error) {
	rows, err := s.db.Query(
		`SELECT id, task_id, from_agent, to_agent, reason, created_at
		 FROM delegations WHERE task_id = ? ORDER BY id ASC`, taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("query delegations: %w", err)
	}
	defer rows.Close()

	var out []core.Delegation
	for rows.Next() {
		var d core.Delegation
		if err := rows.Scan(&d.ID, &d.TaskID, &d.FromAgent, &d.ToAgent, &d.Reason, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan delegation: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetSetting returns the value and whether the key exists.
func (s *Store) GetSetting(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting: %w", err)
	}
	return value, true, nil
}

// SetSetting inserts or replaces a setting.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}

// AllSettings returns every stored setting as a key/value map.
func (s *Store) AllSettings() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func reverse(msgs []core.Message) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}
