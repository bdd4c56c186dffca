package store

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	title      TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id INTEGER NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
	role            TEXT NOT NULL,
	agent_name      TEXT,
	content         TEXT NOT NULL,
	tokens_used     INTEGER DEFAULT 0,
	created_at      TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tasks (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id INTEGER NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
	parent_task_id  INTEGER REFERENCES tasks(id),
	description     TEXT NOT NULL,
	assigned_agent  TEXT NOT NULL,
	status          TEXT NOT NULL DEFAULT 'pending',
	result          TEXT,
	created_at      TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	completed_at    TIMESTAMP
);

CREATE TABLE IF NOT EXISTS delegations (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id    INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	from_agent TEXT NOT NULL,
	to_agent   TEXT NOT NULL,
	reason     TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS memory (
	id                     INTEGER PRIMARY KEY AUTOINCREMENT,
	fact                   TEXT NOT NULL,
	source_conversation_id INTEGER REFERENCES conversations(id) ON DELETE SET NULL,
	importance             INTEGER NOT NULL DEFAULT 5,
	created_at             TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id);
CREATE INDEX IF NOT EXISTS idx_tasks_conversation    ON tasks(conversation_id);
CREATE INDEX IF NOT EXISTS idx_tasks_status          ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_delegations_task      ON delegations(task_id);
CREATE INDEX IF NOT EXISTS idx_memory_importance     ON memory(importance DESC);
`
