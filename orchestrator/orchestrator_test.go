package orchestrator

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthubhq/agenthub/agent"
	"github.com/agenthubhq/agenthub/core"
	"github.com/agenthubhq/agenthub/model"
	"github.com/agenthubhq/agenthub/store"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []core.Event
}

func (p *capturePublisher) Publish(ev core.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *capturePublisher) types() []core.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]core.EventType, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

func (p *capturePublisher) byType(t core.EventType) []core.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []core.Event
	for _, ev := range p.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

type fixture struct {
	orch  *Orchestrator
	store *store.Store
	model *model.MockModel
	pub   *capturePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := store.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	m := model.NewMockModel("test-model")
	pub := &capturePublisher{}
	orch := New(agent.DefaultRegistry(), s, m, pub)
	return &fixture{orch: orch, store: s, model: m, pub: pub}
}

func TestProcessMessage_DirectAnswer(t *testing.T) {
	f := newFixture(t)
	f.model.AddResponse("What is the capital of Norway?", "The capital of Norway is Oslo.")

	result := f.orch.ProcessMessage(context.Background(), "What is the capital of Norway?", "", 0)

	assert.Equal(t, core.TaskStatusComplete, result.Status)
	assert.Equal(t, "Coordinator", result.Agent)
	assert.Equal(t, "The capital of Norway is Oslo.", result.Response)
	require.NotZero(t, result.TaskID)
	require.NotZero(t, result.ConversationID)

	conv, err := f.store.GetConversation(result.ConversationID)
	require.NoError(t, err)
	require.NotNil(t, conv)
	assert.Equal(t, "What is the capital of Norway?", conv.Title)

	msgs, err := f.store.MessagesByConversation(result.ConversationID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, core.RoleUser, msgs[0].Role)
	assert.Equal(t, core.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Coordinator", msgs[1].AgentName)

	task, err := f.store.GetTask(result.TaskID)
	require.NoError(t, err)
	assert.Equal(t, core.TaskStatusComplete, task.Status)
	assert.Equal(t, "The capital of Norway is Oslo.", task.Result)
	assert.NotNil(t, task.CompletedAt)

	types := f.pub.types()
	assert.Equal(t, core.EventAgentThinking, types[0])
	assert.Equal(t, core.EventTaskUpdate, types[len(types)-1])
	assert.NotEmpty(t, f.pub.byType(core.EventAgentResponse))
	assert.Len(t, f.pub.byType(core.EventAgentComplete), 1)
}

func TestProcessMessage_LongTitleTruncated(t *testing.T) {
	f := newFixture(t)
	message := strings.Repeat("x", 250)

	result := f.orch.ProcessMessage(context.Background(), message, "", 0)

	conv, err := f.store.GetConversation(result.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 80)+"...", conv.Title)

	task, err := f.store.GetTask(result.TaskID)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 100), task.Description[:100])
	assert.Len(t, task.Description, 200)
}

func TestProcessMessage_UnknownAgentFallsBack(t *testing.T) {
	f := newFixture(t)

	result := f.orch.ProcessMessage(context.Background(), "hello", "Ghost", 0)

	assert.Equal(t, "Coordinator", result.Agent)
	assert.Equal(t, core.TaskStatusComplete, result.Status)
}

func TestProcessMessage_Delegation(t *testing.T) {
	f := newFixture(t)
	f.model.AddResponse(
		"How many people live in Oslo?",
		"I'll ask our researcher.\n[DELEGATE to Researcher]: Find the population of Oslo",
	)
	f.model.AddResponse("Find the population of Oslo", "Oslo has about 700,000 inhabitants.")

	result := f.orch.ProcessMessage(context.Background(), "How many people live in Oslo?", "", 0)

	assert.Equal(t, core.TaskStatusComplete, result.Status)
	want := "I'll ask our researcher.\n[DELEGATE to Researcher]: Find the population of Oslo" +
		"\n\n---\n\n**Researcher** responded:\n\nOslo has about 700,000 inhabitants."
	assert.Equal(t, want, result.Response)

	// Subtask parented under the root task, with a delegation audit row.
	tasks, err := f.store.ListTasks("", 10, 0)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	sub := tasks[0]
	assert.Equal(t, "Researcher", sub.AssignedAgent)
	require.NotNil(t, sub.ParentTaskID)
	assert.Equal(t, result.TaskID, *sub.ParentTaskID)
	assert.Equal(t, core.TaskStatusComplete, sub.Status)

	ds, err := f.store.DelegationsByTask(sub.ID)
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, "Coordinator", ds[0].FromAgent)
	assert.Equal(t, "Researcher", ds[0].ToAgent)
	assert.Equal(t, "Find the population of Oslo", ds[0].Reason)

	delegations := f.pub.byType(core.EventDelegation)
	require.Len(t, delegations, 1)
	assert.Equal(t, "Coordinator", delegations[0].Data["from_agent"])
	assert.Equal(t, "Researcher", delegations[0].Data["to_agent"])

	// Both agents' responses were persisted.
	msgs, err := f.store.MessagesByConversation(result.ConversationID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "Researcher", msgs[1].AgentName)
	assert.Equal(t, "Coordinator", msgs[2].AgentName)
}

func TestProcessMessage_UnknownDelegateSkipped(t *testing.T) {
	f := newFixture(t)
	response := "Let me hand this off.\n[DELEGATE to Ghost]: do something"
	f.model.AddResponse("hello", response)

	result := f.orch.ProcessMessage(context.Background(), "hello", "", 0)

	// No delegation executed, response passed through unchanged.
	assert.Equal(t, response, result.Response)
	assert.Empty(t, f.pub.byType(core.EventDelegation))

	tasks, err := f.store.ListTasks("", 10, 0)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestProcessMessage_DelegationLoopRefused(t *testing.T) {
	f := newFixture(t)
	f.model.AddResponse("hi", "Routing to myself.\n[DELEGATE to Coordinator]: handle this")

	result := f.orch.ProcessMessage(context.Background(), "hi", "", 0)

	assert.Contains(t, result.Response, "Delegation refused: Coordinator already handled a task this turn.")
	assert.Empty(t, f.pub.byType(core.EventDelegation))
}

func TestProcessMessage_ProviderErrorCompletesTask(t *testing.T) {
	f := newFixture(t)
	f.model.FailNext(model.NewError(model.ErrorRateLimit, "429", nil))

	result := f.orch.ProcessMessage(context.Background(), "hello", "", 0)

	assert.Equal(t, core.TaskStatusComplete, result.Status)
	assert.Equal(t, "I've hit the API rate limit. Please wait a moment and try again.", result.Response)

	task, err := f.store.GetTask(result.TaskID)
	require.NoError(t, err)
	assert.Equal(t, core.TaskStatusComplete, task.Status)
}

func TestProcessMessage_StorageFaultIsErrorStatus(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Close())

	result := f.orch.ProcessMessage(context.Background(), "hello", "", 0)

	assert.Equal(t, "error", result.Status)
	assert.Zero(t, result.TaskID)
	assert.True(t, strings.HasPrefix(result.Response, "Error processing message: "))
	assert.Equal(t, "Coordinator", result.Agent)
	require.Len(t, f.pub.byType(core.EventError), 1)
}

func TestProcessMessage_ExistingConversation(t *testing.T) {
	f := newFixture(t)

	first := f.orch.ProcessMessage(context.Background(), "first message", "", 0)
	second := f.orch.ProcessMessage(context.Background(), "second message", "", first.ConversationID)

	assert.Equal(t, first.ConversationID, second.ConversationID)

	convs, err := f.store.ListConversations(10, 0)
	require.NoError(t, err)
	assert.Len(t, convs, 1)

	msgs, err := f.store.MessagesByConversation(first.ConversationID, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 4)
}

func TestProcessMessage_PerAgentHistoryIsolation(t *testing.T) {
	f := newFixture(t)

	result := f.orch.ProcessMessage(context.Background(), "hello writer", "Writer", 0)
	f.orch.ProcessMessage(context.Background(), "hello editor", "Editor", result.ConversationID)

	// Each persona saw only its own exchange: the second request to the
	// model must not contain the Writer's history.
	require.Len(t, f.model.Requests, 2)
	editorReq := f.model.Requests[1]
	require.Len(t, editorReq.Messages, 1)
	assert.Equal(t, "hello editor", editorReq.Messages[0].Content)
}

func TestDelegate_UnknownAgent(t *testing.T) {
	f := newFixture(t)

	got := f.orch.Delegate(context.Background(), "Coordinator", "Ghost", "task", nil, 1)
	assert.Equal(t, "Agent 'Ghost' not found.", got)
}

func TestAgentStatuses(t *testing.T) {
	f := newFixture(t)

	statuses := f.orch.AgentStatuses()
	require.Len(t, statuses, 11)
	assert.Equal(t, "Coordinator", statuses[0].Name)
	for _, s := range statuses {
		assert.Equal(t, core.AgentIdle, s.Status)
		assert.Empty(t, s.CurrentTask)
	}
}

func TestAgentDetails(t *testing.T) {
	f := newFixture(t)

	details := f.orch.AgentDetails("Researcher")
	require.NotNil(t, details)
	assert.Equal(t, "Researcher", details["name"])
	assert.Equal(t, "Information Specialist", details["role"])
	assert.Equal(t, core.AgentIdle, details["status"])
	assert.Equal(t, []string{"web_search", "web_scrape", "summarize_url"}, details["tools"])

	assert.Nil(t, f.orch.AgentDetails("Ghost"))
}

func TestBroadcastStatus(t *testing.T) {
	f := newFixture(t)

	f.orch.BroadcastStatus()

	events := f.pub.byType(core.EventStatusUpdate)
	require.Len(t, events, 1)
	agents, ok := events[0].Data["agents"].([]core.AgentStatus)
	require.True(t, ok)
	assert.Len(t, agents, 11)
}

func TestModelRequestUsesPersonaSettings(t *testing.T) {
	f := newFixture(t)

	f.orch.ProcessMessage(context.Background(), "brainstorm", "Creative", 0)

	require.Len(t, f.model.Requests, 1)
	req := f.model.Requests[0]
	assert.Equal(t, 0.9, req.Temperature)
	assert.True(t, req.Stream)
	assert.Contains(t, req.System, "You are the Creative")
}
