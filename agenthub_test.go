package agenthub

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthubhq/agenthub/config"
	"github.com/agenthubhq/agenthub/core"
	"github.com/agenthubhq/agenthub/hub"
	"github.com/agenthubhq/agenthub/model"
)

func newTestHub(t *testing.T) (*AgentHub, *model.MockModel) {
	t.Helper()

	dir := t.TempDir()
	m := model.NewMockModel("mock")

	h, err := New(func(o *Options) {
		o.Config = &config.Config{
			Provider:      config.ProviderAnthropic,
			DatabasePath:  filepath.Join(dir, "agenthub.db"),
			WorkspacePath: filepath.Join(dir, "workspace"),
			Addr:          ":0",
		}
		o.Model = m
	})
	require.NoError(t, err)
	t.Cleanup(func() { h.Shutdown(context.Background()) })

	return h, m
}

func TestChatThroughFacade(t *testing.T) {
	h, m := newTestHub(t)
	m.AddResponse("hello", "Hi from the Coordinator!")

	result := h.Chat(context.Background(), "hello", "", 0)
	assert.Equal(t, core.TaskStatusComplete, result.Status)
	assert.Equal(t, "Hi from the Coordinator!", result.Response)
	assert.Equal(t, "Coordinator", result.Agent)

	conv, err := h.Store().GetConversation(result.ConversationID)
	require.NoError(t, err)
	require.NotNil(t, conv)
	assert.Equal(t, "hello", conv.Title)
}

func TestSubscribeReceivesTurnEvents(t *testing.T) {
	h, m := newTestHub(t)
	m.AddResponse("hello", "Hi!")

	var types []core.EventType
	cancel := h.Subscribe(hub.SubscriberFunc(func(ev core.Event) error {
		types = append(types, ev.Type)
		return nil
	}))
	defer cancel()

	h.Chat(context.Background(), "hello", "", 0)

	assert.Contains(t, types, core.EventAgentThinking)
	assert.Contains(t, types, core.EventAgentComplete)
	assert.Contains(t, types, core.EventTaskUpdate)
}

func TestDefaultRoster(t *testing.T) {
	h, _ := newTestHub(t)
	assert.Equal(t, 11, h.Orchestrator().Registry().Len())

	names := h.Tools().Names()
	assert.Contains(t, names, "web_search")
	assert.Contains(t, names, "execute_code")
}
