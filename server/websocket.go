package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/agenthubhq/agenthub/core"
	"github.com/agenthubhq/agenthub/hub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Browser origins are already admitted by the CORS layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsClient serializes writes to one WebSocket connection. Hub deliveries and
// request replies arrive from different goroutines.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) send(ev core.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(ev)
}

// inbound is one client frame: a type tag plus a type-specific payload.
type inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// handleWebSocket upgrades the connection, pushes an initial status snapshot,
// subscribes the client to the event hub and then serves client frames until
// disconnect. Malformed frames produce an error event and leave the
// connection open.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	client := &wsClient{conn: conn}

	cancel := s.hub.Subscribe(hub.SubscriberFunc(func(ev core.Event) error {
		return client.send(ev)
	}))
	defer cancel()
	defer conn.Close()

	s.logger.Info("websocket connected", "subscribers", s.hub.Len())

	if err := client.send(core.NewStatusUpdateEvent(s.orch.AgentStatuses())); err != nil {
		s.logger.Warn("websocket initial status failed", "error", err)
		return
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var msg inbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			if client.send(core.NewErrorEvent("Invalid JSON")) != nil {
				break
			}
			continue
		}

		if err := s.dispatchWS(r, client, msg); err != nil {
			break
		}
	}

	s.logger.Info("websocket disconnected", "subscribers", s.hub.Len()-1)
}

// dispatchWS handles one decoded client frame. A non-nil error means the
// connection is unusable and the read loop should stop.
func (s *Server) dispatchWS(r *http.Request, client *wsClient, msg inbound) error {
	switch msg.Type {
	case "chat":
		var req chatRequest
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				return client.send(core.NewErrorEvent("Invalid JSON"))
			}
		}
		if req.Message == "" {
			return client.send(core.NewErrorEvent("Empty message"))
		}

		result := s.orch.ProcessMessage(r.Context(), req.Message, req.Agent, req.ConversationID)
		return client.send(core.NewEvent(core.EventChatComplete, map[string]any{
			"task_id":         result.TaskID,
			"status":          result.Status,
			"conversation_id": result.ConversationID,
			"response":        result.Response,
			"agent":           result.Agent,
		}))

	case "get_status":
		return client.send(core.NewStatusUpdateEvent(s.orch.AgentStatuses()))

	case "ping":
		return client.send(core.NewEvent(core.EventPong, nil))

	default:
		return client.send(core.NewErrorEvent(fmt.Sprintf("Unknown message type: %s", msg.Type)))
	}
}
