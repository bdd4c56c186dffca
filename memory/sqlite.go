// Package memory contains concrete MemoryStore implementations. The store
// interface resides in the core package; depend on core.MemoryStore and pick
// an implementation at wiring time.
//
// The SQLite store here is a deliberately simple keyword index: facts are
// ranked by importance then recency, and search is case-insensitive substring
// matching with OR semantics over the query words. Swap in a vector or
// embeddings index behind the same interface for semantic retrieval.
package memory

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/agenthubhq/agenthub/core"
)

// SQLiteStore implements core.MemoryStore over the shared application
// database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an open database handle. The memory table is created
// by the store package's schema.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// AddFact stores a fact, clamping importance to [1,10], and returns its id.
func (s *SQLiteStore) AddFact(fact string, sourceConversationID *int64, importance int) (int64, error) {
	if importance < 1 {
		importance = 1
	}
	if importance > 10 {
		importance = 10
	}
	var source any
	if sourceConversationID != nil {
		source = *sourceConversationID
	}
	res, err := s.db.Exec(
		`INSERT INTO memory (fact, source_conversation_id, importance, created_at) VALUES (?, ?, ?, ?)`,
		fact, source, importance, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert fact: %w", err)
	}
	return res.LastInsertId()
}

// SearchFacts matches any whitespace-separated query word against the fact
// text, ranked by importance then recency. An empty query returns no results
// without touching the database.
func (s *SQLiteStore) SearchFacts(query string, limit int) ([]core.MemoryFact, error) {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	conditions := make([]string, len(words))
	args := make([]any, 0, len(words)+1)
	for i, w := range words {
		conditions[i] = `LOWER(fact) LIKE ?`
		args = append(args, "%"+w+"%")
	}
	args = append(args, limit)

	q := `SELECT id, fact, source_conversation_id, importance, created_at FROM memory
		 WHERE ` + strings.Join(conditions, " OR ") + `
		 ORDER BY importance DESC, created_at DESC LIMIT ?`
	return s.scanFacts(q, args...)
}

// AllFacts returns facts by importance then recency, paginated.
func (s *SQLiteStore) AllFacts(limit, offset int) ([]core.MemoryFact, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.scanFacts(
		`SELECT id, fact, source_conversation_id, importance, created_at FROM memory
		 ORDER BY importance DESC, created_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
}

// DeleteFact removes a fact by id.
func (s *SQLiteStore) DeleteFact(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM memory WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete fact: %w", err)
	}
	return nil
}

func (s *SQLiteStore) scanFacts(query string, args ...any) ([]core.MemoryFact, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query facts: %w", err)
	}
	defer rows.Close()

	var out []core.MemoryFact
	for rows.Next() {
		var f core.MemoryFact
		var source sql.NullInt64
		if err := rows.Scan(&f.ID, &f.Fact, &source, &f.Importance, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fact: %w", err)
		}
		if source.Valid {
			v := source.Int64
			f.SourceConversationID = &v
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
