package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_DuplicateName(t *testing.T) {
	_, err := NewRegistry(
		Persona{Name: "Echo"},
		Persona{Name: "Echo"},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNewRegistry_EmptyName(t *testing.T) {
	_, err := NewRegistry(Persona{Role: "Nameless"})
	require.Error(t, err)
}

func TestRegistry_GetAndNames(t *testing.T) {
	r, err := NewRegistry(
		Persona{Name: "Alpha"},
		Persona{Name: "Beta"},
	)
	require.NoError(t, err)

	p, ok := r.Get("Alpha")
	assert.True(t, ok)
	assert.Equal(t, "Alpha", p.Name)

	_, ok = r.Get("Gamma")
	assert.False(t, ok)

	assert.Equal(t, []string{"Alpha", "Beta"}, r.Names())
	assert.Equal(t, 2, r.Len())
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, 11, r.Len())
	assert.Equal(t, "Coordinator", r.Names()[0])

	coord, ok := r.Get("Coordinator")
	require.True(t, ok)
	assert.Len(t, coord.DelegatesTo, 10)
	assert.Empty(t, coord.Tools)
	assert.Equal(t, 0.7, coord.Temperature)

	// Every delegation target must itself be registered.
	for _, p := range r.All() {
		for _, target := range p.DelegatesTo {
			_, ok := r.Get(target)
			assert.True(t, ok, "%s delegates to unknown agent %s", p.Name, target)
		}
	}
}

func TestPersona_SystemPrompt(t *testing.T) {
	p := Persona{
		Name:        "Scout",
		Prompt:      "You are Scout.",
		Tools:       []string{"web_search", "web_scrape"},
		DelegatesTo: []string{"Writer", "Editor"},
	}
	got := p.SystemPrompt()
	assert.True(t, strings.HasPrefix(got, "You are Scout."))
	assert.Contains(t, got, "You can delegate tasks to these agents: Writer, Editor.")
	assert.Contains(t, got, "[DELEGATE to AgentName]: Task description")
	assert.Contains(t, got, "You have access to these tools: web_search, web_scrape")
}

func TestPersona_SystemPrompt_NoExtras(t *testing.T) {
	p := Persona{Name: "Solo", Prompt: "You are Solo."}
	assert.Equal(t, "You are Solo.", p.SystemPrompt())
}

func TestPersona_CanDelegateTo(t *testing.T) {
	p := Persona{Name: "Lead", DelegatesTo: []string{"Writer"}}
	assert.True(t, p.CanDelegateTo("Writer"))
	assert.False(t, p.CanDelegateTo("writer"))
	assert.False(t, p.CanDelegateTo("Editor"))
}

func TestPersona_HasTool(t *testing.T) {
	p := Persona{Name: "Dev", Tools: []string{"read_file"}}
	assert.True(t, p.HasTool("read_file"))
	assert.False(t, p.HasTool("write_file"))
}
