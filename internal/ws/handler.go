package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"social-client/internal/messages"
	"social-client/internal/models"
	"social-client/internal/observability"
)

// Handler upgrades view clients onto the hub.
type Handler struct {
	hub   *Hub
	store *messages.Store
}

func NewHandler(hub *Hub, store *messages.Store) *Handler {
	return &Handler{hub: hub, store: store}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleLobby streams events for all conversations.
func (h *Handler) HandleLobby(c *gin.Context) {
	h.serve(c, LobbyRoom, func(state messages.State) models.MessageEvent {
		return models.MessageEvent{Type: EventSnapshot, Conversations: state.Conversations}
	})
}

// HandleConversation streams events for one conversation.
func (h *Handler) HandleConversation(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.store.State().Conversation(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	h.serve(c, id, func(state messages.State) models.MessageEvent {
		return models.MessageEvent{Type: EventSnapshot, ConversationID: id, Messages: state.Messages(id)}
	})
}

func (h *Handler) serve(c *gin.Context, room string, snapshot func(messages.State) models.MessageEvent) {
	kind := kindOf(room)
	ctx, span := otel.Tracer("social-client/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	traceID := span.SpanContext().TraceID().String()
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      c.GetString("userID"),
		ClientID:    observability.ClientIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}
	h.hub.AddClient(room, conn, info)
	h.hub.Send(room, conn, snapshot(h.store.State()))

	observability.IncWSActive(kind)
	observability.IncWSEvent(kind, "ws_connect")
	publishLifecycle(ctx, kind, room, "ws_connect", info, "")

	go func() {
		var closeReason string
		defer func() {
			h.hub.RemoveClient(room, conn)
			observability.DecWSActive(kind)
			observability.IncWSEvent(kind, "ws_disconnect")
			publishLifecycle(context.Background(), kind, room, "ws_disconnect", info, closeReason)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				closeReason = err.Error()
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					observability.IncWSEvent(kind, "ws_error")
					publishLifecycle(context.Background(), kind, room, "ws_error", info, closeReason)
				}
				return
			}
		}
	}()
}

func publishLifecycle(ctx context.Context, kind, room, event string, info ConnInfo, reason string) {
	_ = observability.PublishEvent(ctx, wsRoutingKey(kind), observability.EventEnvelope{
		EventType: "ws_events",
		EventName: event,
		Payload: map[string]interface{}{
			"ws": map[string]interface{}{
				"kind":        kind,
				"room":        room,
				"event":       event,
				"conn_id":     info.ConnID,
				"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
				"reason":      reason,
			},
			"identity": map[string]interface{}{
				"user_id":   info.UserID,
				"client_id": info.ClientID,
				"ip":        info.IP,
			},
		},
	}, observability.BuildHeaders(info.RequestID, info.TraceID))
}
