package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/agenthubhq/agenthub/agent"
	"github.com/agenthubhq/agenthub/core"
	"github.com/agenthubhq/agenthub/delegate"
	"github.com/agenthubhq/agenthub/history"
	"github.com/agenthubhq/agenthub/logging"
	"github.com/agenthubhq/agenthub/model"
)

const (
	// DefaultMaxDelegationDepth bounds hand-off chains within one turn.
	DefaultMaxDelegationDepth = 3

	titleLimit       = 80
	descriptionLimit = 200
	reasonLimit      = 500
	resultLimit      = 1000
	currentTaskLimit = 100
)

// FallbackAgent receives turns addressed to no agent or an unknown one.
const FallbackAgent = "Coordinator"

type activeTask struct {
	Agent     string
	StartedAt time.Time
}

type agentRuntime struct {
	Status      string
	CurrentTask string
}

// Options configures an Orchestrator.
type Options struct {
	Logger             logging.Logger
	Compactor          *history.Compactor
	MaxTokens          int64
	MaxDelegationDepth int
}

// Orchestrator coordinates personas, the model, persistence, and event
// broadcasting. All methods are safe for concurrent use.
type Orchestrator struct {
	registry  *agent.Registry
	store     core.Store
	model     model.Model
	publisher core.Publisher
	book      *history.Book
	compactor *history.Compactor
	logger    logging.Logger

	maxTokens          int64
	maxDelegationDepth int

	mu      sync.Mutex
	active  map[int64]activeTask
	runtime map[string]agentRuntime
}

// New wires an orchestrator from its collaborators.
func New(registry *agent.Registry, store core.Store, m model.Model, publisher core.Publisher, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Logger:             logging.NoOpLogger{},
		Compactor:          history.NewCompactor(history.DefaultMaxContextTokens),
		MaxTokens:          4096,
		MaxDelegationDepth: DefaultMaxDelegationDepth,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{
		registry:           registry,
		store:              store,
		model:              m,
		publisher:          publisher,
		book:               history.NewBook(),
		compactor:          opts.Compactor,
		logger:             opts.Logger,
		maxTokens:          opts.MaxTokens,
		maxDelegationDepth: opts.MaxDelegationDepth,
		active:             make(map[int64]activeTask),
		runtime:            make(map[string]agentRuntime),
	}
}

// ProcessMessage runs one full user turn. It never returns a Go error: any
// orchestration fault is reported through the result's error status, and
// provider failures surface as response text on a completed task.
func (o *Orchestrator) ProcessMessage(ctx context.Context, message string, agentName string, conversationID int64) core.TurnResult {
	target := agentName
	if _, ok := o.registry.Get(target); !ok {
		if target != "" {
			o.logger.Warn("unknown agent requested, falling back", "agent", target, "fallback", FallbackAgent)
		}
		target = FallbackAgent
	}

	if conversationID == 0 {
		id, err := o.store.CreateConversation(truncate(message, titleLimit, "..."))
		if err != nil {
			return o.errorResult(err, agentName, conversationID)
		}
		conversationID = id
	}

	if _, err := o.store.AppendMessage(core.Message{
		ConversationID: conversationID,
		Role:           core.RoleUser,
		Content:        message,
	}); err != nil {
		return o.errorResult(err, agentName, conversationID)
	}

	taskID, err := o.store.CreateTask(core.Task{
		ConversationID: conversationID,
		Description:    truncate(message, descriptionLimit, ""),
		AssignedAgent:  target,
		Status:         core.TaskStatusInProgress,
	})
	if err != nil {
		return o.errorResult(err, agentName, conversationID)
	}

	o.mu.Lock()
	o.active[taskID] = activeTask{Agent: target, StartedAt: time.Now().UTC()}
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		delete(o.active, taskID)
		o.mu.Unlock()
	}()

	o.publisher.Publish(core.NewThinkingEvent(target, taskID))

	response, usage := o.runTurn(ctx, target, conversationID, taskID, message)

	o.publisher.Publish(core.NewCompleteEvent(target, taskID, conversationID))

	fullResponse := response
	visited := map[string]bool{target: true}
	if results := o.processDelegations(ctx, response, target, taskID, conversationID, 1, visited); len(results) > 0 {
		var b strings.Builder
		b.WriteString(response)
		b.WriteString("\n\n---\n\n")
		for _, dr := range results {
			fmt.Fprintf(&b, "**%s** responded:\n\n%s\n\n---\n\n", dr.agent, dr.response)
		}
		fullResponse = strings.TrimRight(b.String(), "\n-")
	}

	tokensUsed := 0
	if usage != nil {
		tokensUsed = usage.TotalTokens
	}
	if _, err := o.store.AppendMessage(core.Message{
		ConversationID: conversationID,
		Role:           core.RoleAssistant,
		AgentName:      target,
		Content:        fullResponse,
		TokensUsed:     tokensUsed,
	}); err != nil {
		return o.errorResult(err, agentName, conversationID)
	}
	if err := o.store.CompleteTask(taskID, truncate(fullResponse, resultLimit, "")); err != nil {
		return o.errorResult(err, agentName, conversationID)
	}
	if err := o.store.TouchConversation(conversationID); err != nil {
		return o.errorResult(err, agentName, conversationID)
	}

	o.publisher.Publish(core.NewTaskUpdateEvent(taskID, core.TaskStatusComplete, target))

	return core.TurnResult{
		TaskID:         taskID,
		Status:         core.TaskStatusComplete,
		ConversationID: conversationID,
		Response:       fullResponse,
		Agent:          target,
	}
}

type delegationResult struct {
	agent    string
	response string
}

// processDelegations parses delegation markers from a response and executes
// each sequential hand-off. Markers naming unknown agents are skipped.
func (o *Orchestrator) processDelegations(ctx context.Context, response, fromAgent string, parentTaskID, conversationID int64, depth int, visited map[string]bool) []delegationResult {
	var results []delegationResult
	for _, d := range delegate.Parse(response) {
		if _, ok := o.registry.Get(d.Agent); !ok {
			o.logger.Warn("delegation to unknown agent", "from", fromAgent, "to", d.Agent)
			continue
		}
		result := o.delegateTask(ctx, fromAgent, d.Agent, d.Task, &parentTaskID, conversationID, depth, visited)
		results = append(results, delegationResult{agent: d.Agent, response: result})
	}
	return results
}

// Delegate hands a task from one agent to another and returns the receiving
// agent's response text. Guard failures are returned as text, never executed.
func (o *Orchestrator) Delegate(ctx context.Context, fromAgent, toAgent, task string, parentTaskID *int64, conversationID int64) string {
	return o.delegateTask(ctx, fromAgent, toAgent, task, parentTaskID, conversationID, 1, map[string]bool{fromAgent: true})
}

func (o *Orchestrator) delegateTask(ctx context.Context, fromAgent, toAgent, task string, parentTaskID *int64, conversationID int64, depth int, visited map[string]bool) string {
	if _, ok := o.registry.Get(toAgent); !ok {
		return fmt.Sprintf("Agent '%s' not found.", toAgent)
	}
	if depth > o.maxDelegationDepth {
		o.logger.Warn("delegation depth limit reached", "from", fromAgent, "to", toAgent, "depth", depth)
		return fmt.Sprintf("Delegation refused: depth limit (%d) reached.", o.maxDelegationDepth)
	}
	if visited[toAgent] {
		o.logger.Warn("delegation loop detected", "from", fromAgent, "to", toAgent)
		return fmt.Sprintf("Delegation refused: %s already handled a task this turn.", toAgent)
	}
	visited[toAgent] = true

	subtaskID, err := o.store.CreateTask(core.Task{
		ConversationID: conversationID,
		ParentTaskID:   parentTaskID,
		Description:    truncate(task, descriptionLimit, ""),
		AssignedAgent:  toAgent,
		Status:         core.TaskStatusInProgress,
	})
	if err != nil {
		o.logger.Error("delegation failed", "from", fromAgent, "to", toAgent, "error", err)
		return fmt.Sprintf("Delegation error: %s", err)
	}
	if _, err := o.store.RecordDelegation(core.Delegation{
		TaskID:    subtaskID,
		FromAgent: fromAgent,
		ToAgent:   toAgent,
		Reason:    truncate(task, reasonLimit, ""),
	}); err != nil {
		o.logger.Error("delegation failed", "from", fromAgent, "to", toAgent, "error", err)
		return fmt.Sprintf("Delegation error: %s", err)
	}

	o.publisher.Publish(core.NewDelegationEvent(fromAgent, toAgent, truncate(task, descriptionLimit, ""), subtaskID))
	o.publisher.Publish(core.NewThinkingEvent(toAgent, subtaskID))

	response, usage := o.runTurn(ctx, toAgent, conversationID, subtaskID, task)

	tokensUsed := 0
	if usage != nil {
		tokensUsed = usage.TotalTokens
	}
	if _, err := o.store.AppendMessage(core.Message{
		ConversationID: conversationID,
		Role:           core.RoleAssistant,
		AgentName:      toAgent,
		Content:        response,
		TokensUsed:     tokensUsed,
	}); err != nil {
		o.logger.Error("delegation failed", "from", fromAgent, "to", toAgent, "error", err)
		return fmt.Sprintf("Delegation error: %s", err)
	}
	if err := o.store.CompleteTask(subtaskID, truncate(response, resultLimit, "")); err != nil {
		o.logger.Error("delegation failed", "from", fromAgent, "to", toAgent, "error", err)
		return fmt.Sprintf("Delegation error: %s", err)
	}

	o.publisher.Publish(core.NewCompleteEvent(toAgent, subtaskID, conversationID))

	return response
}

// runTurn streams one model generation for the named agent and returns the
// response text. Provider failures are converted to fallback text; history
// keeps only successful exchanges.
func (o *Orchestrator) runTurn(ctx context.Context, agentName string, conversationID, taskID int64, message string) (string, *model.TokenUsage) {
	persona, _ := o.registry.Get(agentName)

	o.setRuntime(agentName, core.AgentThinking, truncate(message, currentTaskLimit, ""))
	defer o.setRuntime(agentName, core.AgentIdle, "")

	o.book.Append(conversationID, agentName, core.ChatMessage{Role: core.RoleUser, Content: message})
	compacted := o.compactor.Compact(o.book.History(conversationID, agentName))
	o.book.Replace(conversationID, agentName, compacted)

	start := time.Now()
	respCh, errCh := o.model.Generate(ctx, model.Request{
		System:      persona.SystemPrompt(),
		Messages:    compacted,
		Temperature: persona.Temperature,
		MaxTokens:   o.maxTokens,
		Stream:      true,
	})

	var full strings.Builder
	var usage *model.TokenUsage
	for resp := range respCh {
		if resp.Partial {
			full.WriteString(resp.Text)
			o.publisher.Publish(core.NewResponseEvent(agentName, resp.Text, taskID, conversationID))
			continue
		}
		full.Reset()
		full.WriteString(resp.Text)
		usage = resp.Usage
	}
	if err := <-errCh; err != nil {
		o.logger.Error("model call failed", "agent", agentName, "task_id", taskID, "error", err)
		return model.UserMessageFor(err), nil
	}
	o.logger.Debug("model call finished", "agent", agentName, "task_id", taskID, "duration", time.Since(start))

	response := full.String()
	o.book.Append(conversationID, agentName, core.ChatMessage{Role: core.RoleAssistant, AgentName: agentName, Content: response})
	return response, usage
}

func (o *Orchestrator) setRuntime(agentName, status, currentTask string) {
	o.mu.Lock()
	o.runtime[agentName] = agentRuntime{Status: status, CurrentTask: currentTask}
	o.mu.Unlock()
}

// AgentStatuses reports the transient runtime state of every persona in
// registry order.
func (o *Orchestrator) AgentStatuses() []core.AgentStatus {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]core.AgentStatus, 0, o.registry.Len())
	for _, name := range o.registry.Names() {
		rt, ok := o.runtime[name]
		if !ok {
			rt = agentRuntime{Status: core.AgentIdle}
		}
		out = append(out, core.AgentStatus{Name: name, Status: rt.Status, CurrentTask: rt.CurrentTask})
	}
	return out
}

// AgentDetails returns the full descriptive and runtime view of one agent,
// or nil for unknown names.
func (o *Orchestrator) AgentDetails(name string) map[string]any {
	persona, ok := o.registry.Get(name)
	if !ok {
		return nil
	}
	o.mu.Lock()
	rt, found := o.runtime[name]
	o.mu.Unlock()
	if !found {
		rt = agentRuntime{Status: core.AgentIdle}
	}
	return map[string]any{
		"name":            persona.Name,
		"role":            persona.Role,
		"color":           persona.Color,
		"status":          rt.Status,
		"current_task":    rt.CurrentTask,
		"tools":           persona.Tools,
		"can_delegate_to": persona.DelegatesTo,
		"temperature":     persona.Temperature,
	}
}

// ActiveTaskCount reports how many root tasks are currently executing.
func (o *Orchestrator) ActiveTaskCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.active)
}

// BroadcastStatus publishes a status_update event with every agent's state.
func (o *Orchestrator) BroadcastStatus() {
	o.publisher.Publish(core.NewStatusUpdateEvent(o.AgentStatuses()))
}

// Registry exposes the persona catalog.
func (o *Orchestrator) Registry() *agent.Registry { return o.registry }

// DropConversation forgets all in-memory history for a conversation. Called
// after a conversation is deleted from storage.
func (o *Orchestrator) DropConversation(conversationID int64) {
	o.book.Drop(conversationID)
}

func (o *Orchestrator) errorResult(err error, agentName string, conversationID int64) core.TurnResult {
	o.logger.Error("error processing message", "error", err)
	o.publisher.Publish(core.NewErrorEvent(err.Error()))

	name := agentName
	if name == "" {
		name = FallbackAgent
	}
	return core.TurnResult{
		TaskID:         0,
		Status:         "error",
		ConversationID: conversationID,
		Response:       fmt.Sprintf("Error processing message: %s", err),
		Agent:          name,
	}
}

// truncate shortens s to limit runes, appending suffix only when something
// was cut.
func truncate(s string, limit int, suffix string) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + suffix
}
