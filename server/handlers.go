package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agenthubhq/agenthub/core"
)

// chatRequest is the body of POST /api/chat and POST /api/agent/{name}/chat.
type chatRequest struct {
	Message        string `json:"message"`
	Agent          string `json:"agent,omitempty"`
	ConversationID int64  `json:"conversation_id,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		s.respondError(w, http.StatusBadRequest, "message is required")
		return
	}
	result := s.orch.ProcessMessage(r.Context(), req.Message, req.Agent, req.ConversationID)
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.orch.AgentStatuses())
}

// messagePreview is a recent-activity row with the content clipped.
type messagePreview struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

func (s *Server) handleAgentDetails(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	details := s.orch.AgentDetails(name)
	if details == nil {
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("Agent '%s' not found", name))
		return
	}

	msgs, err := s.store.RecentMessagesByAgent(name, 50)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	recent := make([]messagePreview, 0, len(msgs))
	for _, m := range msgs {
		recent = append(recent, messagePreview{
			ID:             m.ID,
			ConversationID: m.ConversationID,
			Content:        clip(m.Content, 200),
			CreatedAt:      m.CreatedAt,
		})
	}
	details["recent_messages"] = recent

	s.respondJSON(w, http.StatusOK, details)
}

func (s *Server) handleAgentChat(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := s.orch.Registry().Get(name); !ok {
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("Agent '%s' not found", name))
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		s.respondError(w, http.StatusBadRequest, "message is required")
		return
	}
	result := s.orch.ProcessMessage(r.Context(), req.Message, name, req.ConversationID)
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	limit, offset := pagination(r)

	tasks, err := s.store.ListTasks(status, limit, offset)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.store.CountTasks(status)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// List rows carry a clipped result; the detail endpoint has the full
	// text.
	out := make([]core.Task, len(tasks))
	for i, t := range tasks {
		t.Result = clip(t.Result, 200)
		out[i] = t
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"tasks":  out,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// taskDetail is a task joined with its delegation audit rows and direct
// subtasks.
type taskDetail struct {
	core.Task
	Delegations []core.Delegation `json:"delegations"`
	Subtasks    []core.Task       `json:"subtasks"`
}

func (s *Server) handleTaskDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := s.store.GetTask(id)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if task == nil {
		s.respondError(w, http.StatusNotFound, "Task not found")
		return
	}

	delegations, err := s.store.DelegationsByTask(id)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	subtasks, err := s.store.SubtasksByParent(id)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, taskDetail{
		Task:        *task,
		Delegations: delegations,
		Subtasks:    subtasks,
	})
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	conversations, err := s.store.ListConversations(limit, offset)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.store.CountConversations()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"conversations": conversations,
		"total":         total,
	})
}

// conversationDetail is a conversation joined with its full message history.
type conversationDetail struct {
	core.Conversation
	Messages []core.Message `json:"messages"`
}

func (s *Server) handleConversationDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	conv, err := s.store.GetConversation(id)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if conv == nil {
		s.respondError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	messages, err := s.store.MessagesByConversation(id, 0)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, conversationDetail{
		Conversation: *conv,
		Messages:     messages,
	})
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	conv, err := s.store.GetConversation(id)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if conv == nil {
		s.respondError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	if err := s.store.DeleteConversation(id); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.orch.DropConversation(id)

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// memoryRequest is the body of POST /api/memory.
type memoryRequest struct {
	Fact           string `json:"fact"`
	Importance     int    `json:"importance,omitempty"`
	ConversationID *int64 `json:"conversation_id,omitempty"`
}

func (s *Server) handleAddMemory(w http.ResponseWriter, r *http.Request) {
	var req memoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Fact == "" {
		s.respondError(w, http.StatusBadRequest, "fact is required")
		return
	}
	if req.Importance == 0 {
		req.Importance = 5
	}

	id, err := s.memory.AddFact(req.Fact, req.ConversationID, req.Importance)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{"id": id, "status": "stored"})
}

func (s *Server) handleSearchMemory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		s.respondError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	facts, err := s.memory.SearchFacts(q, 10)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if facts == nil {
		facts = []core.MemoryFact{}
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"query":   q,
		"results": facts,
		"count":   len(facts),
	})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.AllSettings()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings map[string]string
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for key, value := range settings {
		if err := s.store.SetSetting(key, value); err != nil {
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "updated",
		"count":  strconv.Itoa(len(settings)),
	})
}

func (s *Server) handleInvokeTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := s.tools.Get(name); !ok {
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("Tool '%s' not found", name))
		return
	}

	args := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil && err != io.EOF {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.tools.Call(r.Context(), name, s.tools.Names(), args)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pagination reads limit and offset query parameters, clamping limit to
// [1, 200] with a default of 50 and offset to non-negative.
func pagination(r *http.Request) (limit, offset int) {
	limit = defaultPageLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			offset = n
		}
	}
	return limit, offset
}
