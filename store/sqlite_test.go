package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthubhq/agenthub/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestConversationLifecycle(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateConversation("Plan a trip to Norway")
	require.NoError(t, err)
	require.NotZero(t, id)

	c, err := s.GetConversation(id)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Plan a trip to Norway", c.Title)

	missing, err := s.GetConversation(9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := s.ListConversations(10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.DeleteConversation(id))
	c, err = s.GetConversation(id)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestMessages(t *testing.T) {
	s := newTestStore(t)
	convID, err := s.CreateConversation("test")
	require.NoError(t, err)

	_, err = s.AppendMessage(core.Message{ConversationID: convID, Role: core.RoleUser, Content: "hello"})
	require.NoError(t, err)
	_, err = s.AppendMessage(core.Message{ConversationID: convID, Role: core.RoleAssistant, AgentName: "Coordinator", Content: "hi there", TokensUsed: 12})
	require.NoError(t, err)

	msgs, err := s.MessagesByConversation(convID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Empty(t, msgs[0].AgentName)
	assert.Equal(t, "Coordinator", msgs[1].AgentName)
	assert.Equal(t, 12, msgs[1].TokensUsed)

	// Limit keeps the most recent, still chronological.
	msgs, err = s.MessagesByConversation(convID, 1)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hi there", msgs[0].Content)

	byAgent, err := s.RecentMessagesByAgent("Coordinator", 10)
	require.NoError(t, err)
	require.Len(t, byAgent, 1)
	assert.Equal(t, "hi there", byAgent[0].Content)
}

func TestMessagesCascadeOnConversationDelete(t *testing.T) {
	s := newTestStore(t)
	convID, err := s.CreateConversation("test")
	require.NoError(t, err)
	_, err = s.AppendMessage(core.Message{ConversationID: convID, Role: core.RoleUser, Content: "hello"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteConversation(convID))

	msgs, err := s.MessagesByConversation(convID, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestTaskLifecycle(t *testing.T) {
	s := newTestStore(t)
	convID, err := s.CreateConversation("test")
	require.NoError(t, err)

	rootID, err := s.CreateTask(core.Task{
		ConversationID: convID,
		Description:    "answer the user",
		AssignedAgent:  "Coordinator",
	})
	require.NoError(t, err)

	task, err := s.GetTask(rootID)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, core.TaskStatusPending, task.Status)
	assert.Nil(t, task.ParentTaskID)
	assert.Nil(t, task.CompletedAt)

	require.NoError(t, s.MarkTaskInProgress(rootID))
	task, err = s.GetTask(rootID)
	require.NoError(t, err)
	assert.Equal(t, core.TaskStatusInProgress, task.Status)

	subID, err := s.CreateTask(core.Task{
		ConversationID: convID,
		ParentTaskID:   &rootID,
		Description:    "look something up",
		AssignedAgent:  "Researcher",
	})
	require.NoError(t, err)

	sub, err := s.GetTask(subID)
	require.NoError(t, err)
	require.NotNil(t, sub.ParentTaskID)
	assert.Equal(t, rootID, *sub.ParentTaskID)

	require.NoError(t, s.CompleteTask(rootID, "done"))
	task, err = s.GetTask(rootID)
	require.NoError(t, err)
	assert.Equal(t, core.TaskStatusComplete, task.Status)
	assert.Equal(t, "done", task.Result)
	assert.NotNil(t, task.CompletedAt)
}

func TestListTasksFilter(t *testing.T) {
	s := newTestStore(t)
	convID, err := s.CreateConversation("test")
	require.NoError(t, err)

	a, err := s.CreateTask(core.Task{ConversationID: convID, Description: "a", AssignedAgent: "Coordinator"})
	require.NoError(t, err)
	_, err = s.CreateTask(core.Task{ConversationID: convID, Description: "b", AssignedAgent: "Researcher"})
	require.NoError(t, err)
	require.NoError(t, s.CompleteTask(a, "ok"))

	all, err := s.ListTasks("", 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	// Newest first.
	assert.Equal(t, "b", all[0].Description)

	pending, err := s.ListTasks(core.TaskStatusPending, 10, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "b", pending[0].Description)

	complete, err := s.ListTasks(core.TaskStatusComplete, 10, 0)
	require.NoError(t, err)
	require.Len(t, complete, 1)
	assert.Equal(t, "a", complete[0].Description)
}

func TestDelegations(t *testing.T) {
	s := newTestStore(t)
	convID, err := s.CreateConversation("test")
	require.NoError(t, err)
	taskID, err := s.CreateTask(core.Task{ConversationID: convID, Description: "root", AssignedAgent: "Coordinator"})
	require.NoError(t, err)

	_, err = s.RecordDelegation(core.Delegation{TaskID: taskID, FromAgent: "Coordinator", ToAgent: "Researcher", Reason: "find sources"})
	require.NoError(t, err)
	_, err = s.RecordDelegation(core.Delegation{TaskID: taskID, FromAgent: "Coordinator", ToAgent: "Writer", Reason: "draft the post"})
	require.NoError(t, err)

	ds, err := s.DelegationsByTask(taskID)
	require.NoError(t, err)
	require.Len(t, ds, 2)
	assert.Equal(t, "Researcher", ds[0].ToAgent)
	assert.Equal(t, "Writer", ds[1].ToAgent)
}

func TestSettings(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.GetSetting("default_model")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetSetting("default_model", "gpt-4o-mini"))
	require.NoError(t, s.SetSetting("default_model", "claude-3-5-sonnet-20241022"))

	v, ok, err := s.GetSetting("default_model")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "claude-3-5-sonnet-20241022", v)

	require.NoError(t, s.SetSetting("theme", "dark"))

	all, err := s.AllSettings()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"default_model": "claude-3-5-sonnet-20241022",
		"theme":         "dark",
	}, all)
}

func TestCounts(t *testing.T) {
	s := newTestStore(t)

	n, err := s.CountConversations()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	convID, err := s.CreateConversation("first")
	require.NoError(t, err)
	_, err = s.CreateConversation("second")
	require.NoError(t, err)

	n, err = s.CountConversations()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	a, err := s.CreateTask(core.Task{ConversationID: convID, Description: "a", AssignedAgent: "Coordinator"})
	require.NoError(t, err)
	_, err = s.CreateTask(core.Task{ConversationID: convID, Description: "b", AssignedAgent: "Writer"})
	require.NoError(t, err)
	require.NoError(t, s.CompleteTask(a, "ok"))

	total, err := s.CountTasks("")
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	pending, err := s.CountTasks(core.TaskStatusPending)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
}

func TestSubtasksByParent(t *testing.T) {
	s := newTestStore(t)
	convID, err := s.CreateConversation("test")
	require.NoError(t, err)

	parent, err := s.CreateTask(core.Task{ConversationID: convID, Description: "root", AssignedAgent: "Coordinator"})
	require.NoError(t, err)
	_, err = s.CreateTask(core.Task{ConversationID: convID, ParentTaskID: &parent, Description: "research", AssignedAgent: "Researcher"})
	require.NoError(t, err)
	_, err = s.CreateTask(core.Task{ConversationID: convID, ParentTaskID: &parent, Description: "draft", AssignedAgent: "Writer"})
	require.NoError(t, err)

	subs, err := s.SubtasksByParent(parent)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "research", subs[0].Description)
	assert.Equal(t, "draft", subs[1].Description)
	require.NotNil(t, subs[0].ParentTaskID)
	assert.Equal(t, parent, *subs[0].ParentTaskID)

	none, err := s.SubtasksByParent(9999)
	require.NoError(t, err)
	assert.Empty(t, none)
}
