package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"social-client/internal/messages"
	"social-client/internal/models"
	"social-client/internal/observability"
)

// LobbyRoom receives events for every conversation.
const LobbyRoom = "*"

const writeWait = 5 * time.Second

const (
	EventSnapshot       = "snapshot"
	EventMessage        = "message"
	EventMessageUpdated = "message_updated"
	EventConversations  = "conversations"
)

type client struct {
	conn *websocket.Conn
	info ConnInfo
	mu   sync.Mutex
}

func (c *client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub maintains websocket rooms keyed by conversation id.
type Hub struct {
	rooms map[string]map[*websocket.Conn]*client
	mu    sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*websocket.Conn]*client)}
}

// AddClient registers a websocket connection to a room.
func (h *Hub) AddClient(room string, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[*websocket.Conn]*client)
	}
	h.rooms[room][conn] = &client{conn: conn, info: info}
}

// RemoveClient removes a websocket connection from a room.
func (h *Hub) RemoveClient(room string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[room]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Clients reports how many connections a room holds.
func (h *Hub) Clients(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Send writes event to a single connection of room.
func (h *Hub) Send(room string, conn *websocket.Conn, event models.MessageEvent) {
	h.mu.RLock()
	c := h.rooms[room][conn]
	h.mu.RUnlock()
	if c == nil {
		return
	}
	payload, _ := json.Marshal(event)
	if err := c.write(payload); err != nil {
		h.dropClient(room, c, err)
	}
}

// Broadcast sends event to every client in room.
func (h *Hub) Broadcast(room string, event models.MessageEvent) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.rooms[room]))
	for _, c := range h.rooms[room] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	if len(clients) == 0 {
		return
	}

	payload, _ := json.Marshal(event)
	for _, c := range clients {
		if err := c.write(payload); err != nil {
			h.dropClient(room, c, err)
		}
	}
	observability.IncWSEvent(kindOf(room), event.Type)
}

func (h *Hub) dropClient(room string, c *client, err error) {
	log.Printf("websocket write error: room=%s conn=%s err=%v", room, c.info.ConnID, err)
	c.conn.Close()
	h.RemoveClient(room, c.conn)
	h.publishWSError(kindOf(room), room, c.info, err)
}

// Attach pushes messaging store changes to connected clients and returns a
// func that detaches the hub.
func (h *Hub) Attach(st *messages.Store) func() {
	return st.Subscribe(func(state messages.State, action messages.Action) {
		switch a := action.(type) {
		case messages.AddMessage:
			if msg, ok := state.Message(a.Message.ConversationID, a.Message.ID); ok {
				h.broadcastMessage(EventMessage, msg)
			}
			h.broadcastConversations(state)
		case messages.UpdateMessage:
			id := a.ID
			if a.Patch.ID != nil && *a.Patch.ID != "" {
				id = *a.Patch.ID
			}
			if msg, ok := state.Message(a.ConversationID, id); ok {
				h.broadcastMessage(EventMessageUpdated, msg)
			}
		case messages.SetConversations, messages.UpsertConversation, messages.SetTyping,
			messages.SetPeerOnline, messages.MarkRead, messages.SetActive:
			h.broadcastConversations(state)
		}
	})
}

func (h *Hub) broadcastMessage(eventType string, msg models.Message) {
	event := models.MessageEvent{Type: eventType, ConversationID: msg.ConversationID, Message: &msg}
	h.Broadcast(msg.ConversationID, event)
	h.Broadcast(LobbyRoom, event)
}

func (h *Hub) broadcastConversations(state messages.State) {
	h.Broadcast(LobbyRoom, models.MessageEvent{Type: EventConversations, Conversations: state.Conversations})
}

func (h *Hub) publishWSError(kind, room string, info ConnInfo, err error) {
	payload := map[string]interface{}{
		"ws": map[string]interface{}{
			"kind":        kind,
			"room":        room,
			"event":       "ws_error",
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      err.Error(),
		},
		"identity": map[string]interface{}{
			"user_id":   info.UserID,
			"client_id": info.ClientID,
			"ip":        info.IP,
		},
	}

	headers := observability.BuildHeaders(info.RequestID, info.TraceID)
	_ = observability.PublishEvent(context.Background(), wsRoutingKey(kind), observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload:   payload,
	}, headers)
	observability.IncWSEvent(kind, "ws_error")
}
