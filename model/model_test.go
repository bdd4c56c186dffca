package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthubhq/agenthub/core"
)

func collect(t *testing.T, respCh <-chan Response, errCh <-chan error) ([]Response, error) {
	t.Helper()
	var responses []Response
	for r := range respCh {
		responses = append(responses, r)
	}
	return responses, <-errCh
}

func TestMockModel_Streaming(t *testing.T) {
	m := NewMockModel("test")
	m.AddResponse("hi", "hello")

	respCh, errCh := m.Generate(context.Background(), Request{
		Messages: []core.ChatMessage{{Role: core.RoleUser, Content: "hi"}},
		Stream:   true,
	})
	responses, err := collect(t, respCh, errCh)
	require.NoError(t, err)
	require.Len(t, responses, len("hello")+1)

	var streamed strings.Builder
	for _, r := range responses[:len(responses)-1] {
		assert.True(t, r.Partial)
		streamed.WriteString(r.Text)
	}
	final := responses[len(responses)-1]
	assert.False(t, final.Partial)
	assert.Equal(t, "hello", final.Text)
	assert.Equal(t, "hello", streamed.String())
	assert.Equal(t, "stop", final.FinishReason)
}

func TestMockModel_FailNext(t *testing.T) {
	m := NewMockModel("test")
	m.FailNext(NewError(ErrorRateLimit, "429", nil))

	respCh, errCh := m.Generate(context.Background(), Request{
		Messages: []core.ChatMessage{{Role: core.RoleUser, Content: "hi"}},
	})
	responses, err := collect(t, respCh, errCh)
	assert.Empty(t, responses)
	require.Error(t, err)

	var me *Error
	require.True(t, errors.As(err, &me))
	assert.Equal(t, ErrorRateLimit, me.Category)

	// The scripted failure only fires once.
	respCh, errCh = m.Generate(context.Background(), Request{
		Messages: []core.ChatMessage{{Role: core.RoleUser, Content: "hi"}},
	})
	responses, err = collect(t, respCh, errCh)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "Mock response to: hi", responses[0].Text)
}

func TestErrorUserMessage(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		want     string
	}{
		{ErrorConnectivity, "I'm having trouble connecting to the AI service. Please check your API key and network connection. Error: dial tcp: timeout"},
		{ErrorRateLimit, "I've hit the API rate limit. Please wait a moment and try again."},
		{ErrorStatus, "An API error occurred: dial tcp: timeout"},
		{ErrorUnexpected, "An unexpected error occurred: dial tcp: timeout"},
	}
	for _, tt := range tests {
		e := NewError(tt.category, "dial tcp: timeout", nil)
		assert.Equal(t, tt.want, e.UserMessage(), string(tt.category))
	}
}

func TestUserMessageFor_PlainError(t *testing.T) {
	got := UserMessageFor(fmt.Errorf("boom"))
	assert.Equal(t, "An unexpected error occurred: boom", got)
}

func TestUserMessageFor_WrappedError(t *testing.T) {
	err := fmt.Errorf("generate: %w", NewError(ErrorRateLimit, "429", nil))
	assert.Equal(t, "I've hit the API rate limit. Please wait a moment and try again.", UserMessageFor(err))
}
