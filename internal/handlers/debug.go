package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"social-client/internal/realtime"
	"social-client/internal/telemetry"
)

// RegisterDebugRoutes wires debug-only endpoints, including hooks that inject
// realtime events as if a peer had sent them.
func RegisterDebugRoutes(router *gin.Engine, emitter *telemetry.AuditEmitter, bus *realtime.Bus, enabled bool) {
	if !enabled {
		return
	}

	debug := router.Group("/debug")
	debug.GET("/audit-test", func(c *gin.Context) {
		if emitter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit emitter not configured"})
			return
		}
		emitter.Emit(c.Request.Context(), "INFO", "audit test", requestIDFromContext(c), userIDFromContext(c))
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if bus == nil {
		return
	}
	debug.POST("/realtime/message", func(c *gin.Context) {
		var ev realtime.MessageEvent
		if err := c.ShouldBindJSON(&ev); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if ev.ConversationID == "" || ev.SenderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversation_id and sender_id are required"})
			return
		}
		if ev.ID == "" {
			ev.ID = "rt-" + uuid.NewString()
		}
		if ev.CreatedAt.IsZero() {
			ev.CreatedAt = nowFunc()
		}
		bus.SimulateIncomingMessage(ev)
		c.JSON(http.StatusAccepted, gin.H{"id": ev.ID})
	})
	debug.POST("/realtime/typing", func(c *gin.Context) {
		var ev realtime.TypingEvent
		if err := c.ShouldBindJSON(&ev); err != nil || ev.ConversationID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversation_id is required"})
			return
		}
		bus.SimulateTyping(ev)
		c.Status(http.StatusAccepted)
	})
	debug.POST("/realtime/presence", func(c *gin.Context) {
		var ev realtime.PresenceEvent
		if err := c.ShouldBindJSON(&ev); err != nil || ev.PeerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "peer_id is required"})
			return
		}
		bus.SimulatePresence(ev)
		c.Status(http.StatusAccepted)
	})
}
