package history

import (
	"sync"

	"github.com/agenthubhq/agenthub/core"
)

type key struct {
	conversationID int64
	agent          string
}

// Book owns the accumulated provider context for every (conversation, agent)
// pair. Keying by the pair rather than by agent identity keeps concurrent
// turns against the same agent name from interleaving into one buffer. Safe
// for concurrent use.
type Book struct {
	mu        sync.Mutex
	histories map[key][]core.ChatMessage
}

// NewBook returns an empty history book.
func NewBook() *Book {
	return &Book{histories: make(map[key][]core.ChatMessage)}
}

// Append adds a message to the history of one (conversation, agent) pair.
func (b *Book) Append(conversationID int64, agent string, msg core.ChatMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	k := key{conversationID, agent}
	b.histories[k] = append(b.histories[k], msg)
}

// Replace swaps the stored history for a pair, used after compaction.
func (b *Book) Replace(conversationID int64, agent string, msgs []core.ChatMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := make([]core.ChatMessage, len(msgs))
	copy(cp, msgs)
	b.histories[key{conversationID, agent}] = cp
}

// History returns a defensive copy of the stored messages for a pair.
func (b *Book) History(conversationID int64, agent string) []core.ChatMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	h := b.histories[key{conversationID, agent}]
	cp := make([]core.ChatMessage, len(h))
	copy(cp, h)
	return cp
}

// Len reports the number of stored messages for a pair.
func (b *Book) Len(conversationID int64, agent string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.histories[key{conversationID, agent}])
}

// Drop removes the history of one conversation entirely, across all agents.
func (b *Book) Drop(conversationID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k := range b.histories {
		if k.conversationID == conversationID {
			delete(b.histories, k)
		}
	}
}
