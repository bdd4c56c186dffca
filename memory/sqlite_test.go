package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthubhq/agenthub/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := store.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return NewSQLiteStore(s.DB())
}

func TestAddFact_ClampsImportance(t *testing.T) {
	m := newTestStore(t)

	_, err := m.AddFact("low", nil, -3)
	require.NoError(t, err)
	_, err = m.AddFact("high", nil, 99)
	require.NoError(t, err)

	facts, err := m.AllFacts(10, 0)
	require.NoError(t, err)
	require.Len(t, facts, 2)
	assert.Equal(t, "high", facts[0].Fact)
	assert.Equal(t, 10, facts[0].Importance)
	assert.Equal(t, "low", facts[1].Fact)
	assert.Equal(t, 1, facts[1].Importance)
}

func TestSearchFacts_KeywordOr(t *testing.T) {
	m := newTestStore(t)

	_, err := m.AddFact("The user prefers dark roast coffee", nil, 5)
	require.NoError(t, err)
	_, err = m.AddFact("The user's dog is named Biscuit", nil, 8)
	require.NoError(t, err)
	_, err = m.AddFact("Completely unrelated fact", nil, 9)
	require.NoError(t, err)

	// Any query word may match; importance ranks first.
	facts, err := m.SearchFacts("coffee dog", 10)
	require.NoError(t, err)
	require.Len(t, facts, 2)
	assert.Equal(t, "The user's dog is named Biscuit", facts[0].Fact)
	assert.Equal(t, "The user prefers dark roast coffee", facts[1].Fact)
}

func TestSearchFacts_CaseInsensitive(t *testing.T) {
	m := newTestStore(t)

	_, err := m.AddFact("Norway trip planned for June", nil, 5)
	require.NoError(t, err)

	facts, err := m.SearchFacts("NORWAY", 10)
	require.NoError(t, err)
	require.Len(t, facts, 1)
}

func TestSearchFacts_EmptyQuery(t *testing.T) {
	m := newTestStore(t)

	_, err := m.AddFact("something", nil, 5)
	require.NoError(t, err)

	facts, err := m.SearchFacts("   ", 10)
	require.NoError(t, err)
	assert.Empty(t, facts)
}

func TestSearchFacts_Limit(t *testing.T) {
	m := newTestStore(t)

	for i := 0; i < 5; i++ {
		_, err := m.AddFact("repeated keyword entry", nil, i+1)
		require.NoError(t, err)
	}

	facts, err := m.SearchFacts("keyword", 3)
	require.NoError(t, err)
	require.Len(t, facts, 3)
	assert.Equal(t, 5, facts[0].Importance)
}

func TestAllFacts_Pagination(t *testing.T) {
	m := newTestStore(t)

	_, err := m.AddFact("first", nil, 9)
	require.NoError(t, err)
	_, err = m.AddFact("second", nil, 7)
	require.NoError(t, err)
	_, err = m.AddFact("third", nil, 5)
	require.NoError(t, err)

	page, err := m.AllFacts(2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "first", page[0].Fact)

	page, err = m.AllFacts(2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "third", page[0].Fact)
}

func TestDeleteFact(t *testing.T) {
	m := newTestStore(t)

	id, err := m.AddFact("to be removed", nil, 5)
	require.NoError(t, err)
	require.NoError(t, m.DeleteFact(id))

	facts, err := m.AllFacts(10, 0)
	require.NoError(t, err)
	assert.Empty(t, facts)
}
