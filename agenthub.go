// Package agenthub provides a high-level façade over the orchestrator and
// its collaborators (personas, model providers, SQLite persistence, the
// event hub, tools and the HTTP server). Most applications interact with
// this package by:
//  1. Creating an AgentHub via New() (optionally overriding config, model or personas)
//  2. Either calling Chat directly, or running Serve to expose the HTTP API
//
// The façade wires everything from configuration; every collaborator can be
// swapped through Options, which is how tests substitute a mock model or an
// in-memory database.
package agenthub

import (
	"context"
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/agenthubhq/agenthub/agent"
	"github.com/agenthubhq/agenthub/config"
	"github.com/agenthubhq/agenthub/core"
	"github.com/agenthubhq/agenthub/history"
	"github.com/agenthubhq/agenthub/hub"
	"github.com/agenthubhq/agenthub/logging"
	"github.com/agenthubhq/agenthub/memory"
	"github.com/agenthubhq/agenthub/model"
	"github.com/agenthubhq/agenthub/model/anthropic"
	"github.com/agenthubhq/agenthub/model/openai"
	"github.com/agenthubhq/agenthub/orchestrator"
	"github.com/agenthubhq/agenthub/server"
	"github.com/agenthubhq/agenthub/store"
	"github.com/agenthubhq/agenthub/tool"
)

// Options configures the AgentHub instance.
type Options struct {
	// Config supplies runtime settings. When nil it is loaded from
	// AGENTHUB_* environment variables.
	Config *config.Config

	// Registry supplies the agent personas. Defaults to the stock roster.
	Registry *agent.Registry

	// Model overrides provider selection from Config. Tests use this to
	// plug in a mock.
	Model model.Model

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// AgentHub is the high-level façade aggregating the orchestrator and its
// services.
type AgentHub struct {
	cfg    *config.Config
	store  *store.Store
	memory *memory.SQLiteStore
	hub    *hub.Hub
	orch   *orchestrator.Orchestrator
	tools  *tool.Registry
	server *server.Server
	logger logging.Logger
}

// New creates a new AgentHub instance with optional overrides. Unset
// collaborators are built from the configuration.
func New(optFns ...func(o *Options)) (*AgentHub, error) {
	opts := Options{
		Registry: agent.DefaultRegistry(),
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	st, err := store.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	m := opts.Model
	if m == nil {
		m, err = newProviderModel(cfg)
		if err != nil {
			st.Close()
			return nil, err
		}
	}

	workspace, err := tool.NewWorkspace(cfg.WorkspacePath)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("open workspace: %w", err)
	}
	tools, err := tool.DefaultRegistry(workspace)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("build tool registry: %w", err)
	}

	events := hub.New(func(o *hub.Options) {
		o.Logger = opts.Logger
	})

	orch := orchestrator.New(opts.Registry, st, m, events, func(o *orchestrator.Options) {
		o.Logger = opts.Logger
		o.Compactor = history.NewCompactor(cfg.MaxContextTokens)
		if cfg.MaxTokens > 0 {
			o.MaxTokens = cfg.MaxTokens
		}
		if cfg.MaxDelegationDepth > 0 {
			o.MaxDelegationDepth = cfg.MaxDelegationDepth
		}
	})

	facts := memory.NewSQLiteStore(st.DB())

	srv := server.New(orch, st, facts, tools, events, func(o *server.Options) {
		o.Logger = opts.Logger
		o.Addr = cfg.Addr
	})

	return &AgentHub{
		cfg:    cfg,
		store:  st,
		memory: facts,
		hub:    events,
		orch:   orch,
		tools:  tools,
		server: srv,
		logger: opts.Logger,
	}, nil
}

func newProviderModel(cfg *config.Config) (model.Model, error) {
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Model != "" {
				o.Model = anthropicsdk.Model(cfg.Model)
			}
			o.MaxTokens = cfg.MaxTokens
			o.APIKey = cfg.APIKey
		}), nil
	case config.ProviderOpenAI:
		return openai.NewModel(func(o *openai.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			o.MaxCompletionTokens = cfg.MaxTokens
			o.APIKey = cfg.APIKey
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// Chat runs one user turn against the named agent (or the Coordinator when
// agentName is empty) and returns the compiled result.
func (h *AgentHub) Chat(ctx context.Context, message, agentName string, conversationID int64) core.TurnResult {
	return h.orch.ProcessMessage(ctx, message, agentName, conversationID)
}

// Subscribe attaches a live event observer and returns its cancel function.
func (h *AgentHub) Subscribe(s hub.Subscriber) (cancel func()) {
	return h.hub.Subscribe(s)
}

// Orchestrator exposes the underlying orchestrator.
func (h *AgentHub) Orchestrator() *orchestrator.Orchestrator { return h.orch }

// Store exposes the underlying SQLite store.
func (h *AgentHub) Store() *store.Store { return h.store }

// Memory exposes the long-term fact store.
func (h *AgentHub) Memory() *memory.SQLiteStore { return h.memory }

// Tools exposes the tool registry.
func (h *AgentHub) Tools() *tool.Registry { return h.tools }

// Serve starts the HTTP server and blocks until it stops. The context is
// the base context of every request, so cancelling it aborts in-flight
// turns.
func (h *AgentHub) Serve(ctx context.Context) error {
	h.logger.Info("agenthub ready", "agents", h.orch.Registry().Len(), "addr", h.cfg.Addr)
	return h.server.ListenAndServe(ctx)
}

// Shutdown gracefully stops the HTTP server and closes the database.
func (h *AgentHub) Shutdown(ctx context.Context) error {
	if err := h.server.Shutdown(ctx); err != nil {
		return err
	}
	return h.store.Close()
}
