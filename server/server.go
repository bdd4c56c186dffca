// Package server exposes the HTTP surface of AgentHub: a JSON REST API for
// chat, agents, tasks, conversations, memory and settings, plus a WebSocket
// endpoint streaming live orchestration events.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/agenthubhq/agenthub/core"
	"github.com/agenthubhq/agenthub/hub"
	"github.com/agenthubhq/agenthub/logging"
	"github.com/agenthubhq/agenthub/orchestrator"
	"github.com/agenthubhq/agenthub/tool"
)

// Pagination bounds shared by the list endpoints.
const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// Options configures the server.
type Options struct {
	// Logger is the logger used by the server.
	Logger logging.Logger

	// Addr is the listen address for ListenAndServe.
	Addr string
}

// Server serves the REST API and the WebSocket stream. It owns no domain
// state; every request is answered from the orchestrator and the stores.
type Server struct {
	orch   *orchestrator.Orchestrator
	store  core.Store
	memory core.MemoryStore
	tools  *tool.Registry
	hub    *hub.Hub
	logger logging.Logger
	addr   string

	httpServer *http.Server
}

// New creates a server over the given orchestrator, stores and event hub.
func New(orch *orchestrator.Orchestrator, store core.Store, memory core.MemoryStore, tools *tool.Registry, h *hub.Hub, optFns ...func(o *Options)) *Server {
	opts := Options{
		Logger: logging.NoOpLogger{},
		Addr:   ":8000",
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Server{
		orch:   orch,
		store:  store,
		memory: memory,
		tools:  tools,
		hub:    h,
		logger: opts.Logger,
		addr:   opts.Addr,
	}
}

// Router builds the full HTTP handler, CORS middleware included.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)

		r.Get("/agents", s.handleListAgents)
		r.Get("/agent/{name}", s.handleAgentDetails)
		r.Post("/agent/{name}/chat", s.handleAgentChat)

		r.Get("/tasks", s.handleListTasks)
		r.Get("/task/{id}", s.handleTaskDetails)

		r.Get("/conversations", s.handleListConversations)
		r.Get("/conversations/{id}", s.handleConversationDetails)
		r.Delete("/conversations/{id}", s.handleDeleteConversation)

		r.Post("/memory", s.handleAddMemory)
		r.Get("/memory/search", s.handleSearchMemory)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handlePutSettings)

		r.Post("/tool/{name}", s.handleInvokeTool)

		r.Get("/health", s.handleHealth)
	})

	r.Get("/ws", s.handleWebSocket)
	r.Get("/health", s.handleHealth)

	return cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(r)
}

// ListenAndServe starts the HTTP server. The provided context is used as the
// base context for all incoming requests, so cancelling it aborts in-flight
// turns and lets the server drain during shutdown.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting server", "addr", s.addr)
	s.httpServer = &http.Server{
		Addr:        s.addr,
		Handler:     s.Router(),
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, detail string) {
	s.respondJSON(w, status, map[string]string{"detail": detail})
}

// clip bounds s to at most n runes, with no continuation marker.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
