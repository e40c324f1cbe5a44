package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"social-client/internal/backend"
	"social-client/internal/composer"
	"social-client/internal/messages"
)

// MessagesHandler exposes the messaging store and the composer.
type MessagesHandler struct {
	store         *messages.Store
	api           backend.API
	typingTimeout time.Duration

	mu        sync.Mutex
	composers map[string]*composer.Composer
}

// NewMessagesHandler builds a MessagesHandler.
func NewMessagesHandler(store *messages.Store, api backend.API, typingTimeout time.Duration) *MessagesHandler {
	return &MessagesHandler{
		store:         store,
		api:           api,
		typingTimeout: typingTimeout,
		composers:     make(map[string]*composer.Composer),
	}
}

func (h *MessagesHandler) composer(conversationID string) *composer.Composer {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.composers[conversationID]; ok {
		return c
	}
	c := composer.New(h.store, h.api, conversationID, composer.WithTypingTimeout(h.typingTimeout))
	h.composers[conversationID] = c
	return c
}

// Close stops every composer's typing timer.
func (h *MessagesHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.composers {
		c.Close()
		delete(h.composers, id)
	}
}

// ListConversations returns the conversation list, loading it from the
// backend on first use or when refresh=1. A load clears typing flags and
// selects the most recent conversation when none is active.
func (h *MessagesHandler) ListConversations(c *gin.Context) {
	state := h.store.State()
	if len(state.Conversations) == 0 || c.Query("refresh") == "1" {
		h.store.Dispatch(messages.SetLoadingConversations{Loading: true})
		convs, err := h.api.ListConversations(c.Request.Context())
		h.store.Dispatch(messages.SetLoadingConversations{Loading: false})
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load conversations"})
			return
		}
		for i := range convs {
			convs[i].Typing = false
		}
		h.store.Dispatch(messages.SetConversations{Conversations: convs})
		if state := h.store.State(); state.ActiveID == "" && len(state.Conversations) > 0 {
			h.store.Dispatch(messages.SetActive{ID: state.Conversations[0].ID})
		}
		state = h.store.State()
	}

	c.JSON(http.StatusOK, gin.H{
		"conversations": state.Conversations,
		"active_id":     state.ActiveID,
		"unread":        state.TotalUnread(),
	})
}

// StartConversation opens (or creates) the conversation with a user.
func (h *MessagesHandler) StartConversation(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv, err := h.api.GetOrCreateConversationWithUser(c.Request.Context(), req.UserID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not open conversation"})
		return
	}
	h.store.Dispatch(messages.UpsertConversation{Conversation: messages.ConversationUpsert{
		ID:            conv.ID,
		Peer:          &conv.Peer,
		LastMessageAt: &conv.LastMessageAt,
		UnreadCount:   &conv.UnreadCount,
	}})
	h.store.Dispatch(messages.SetActive{ID: conv.ID})

	stored, _ := h.store.State().Conversation(conv.ID)
	c.JSON(http.StatusOK, gin.H{"conversation": stored})
}

// GetMessages returns a conversation's messages. Without "before" it opens the
// conversation: it becomes active, its latest page replaces the local copy
// and it is marked read. With "before" an older page is merged in front.
func (h *MessagesHandler) GetMessages(c *gin.Context) {
	conversationID := c.Param("id")
	opts := backend.ListOptions{}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		opts.Limit = limit
	}
	if raw := c.Query("before"); raw != "" {
		before, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid before timestamp"})
			return
		}
		opts.Before = before
	}

	ctx := c.Request.Context()
	h.store.Dispatch(messages.SetLoadingMessages{Loading: true})
	page, err := h.api.ListMessages(ctx, conversationID, opts)
	h.store.Dispatch(messages.SetLoadingMessages{Loading: false})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load messages"})
		return
	}

	if opts.Before.IsZero() {
		h.store.Dispatch(messages.SetActive{ID: conversationID})
		h.store.Dispatch(messages.SetMessages{ConversationID: conversationID, Messages: page})
		h.store.Dispatch(messages.MarkRead{ConversationID: conversationID})
		if err := h.api.MarkConversationRead(ctx, conversationID); err != nil {
			c.Error(err)
		}
	} else {
		h.store.Dispatch(messages.PrependMessages{ConversationID: conversationID, Messages: page})
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation_id": conversationID,
		"messages":        h.store.State().Messages(conversationID),
		"page_size":       len(page),
	})
}

// PostMessage sends a message through the conversation's composer.
func (h *MessagesHandler) PostMessage(c *gin.Context) {
	var req struct {
		Text   string   `json:"text"`
		Images []string `json:"images"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conversationID := c.Param("id")
	if _, ok := h.store.State().Conversation(conversationID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}

	msg, err := h.composer(conversationID).Submit(c.Request.Context(), req.Text, req.Images)
	if err != nil {
		if errors.Is(err, composer.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message text or images required"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "message could not be sent", "message": msg})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// Typing records a keystroke in the composer.
func (h *MessagesHandler) Typing(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.composer(c.Param("id")).Input(c.Request.Context(), req.Text)
	c.Status(http.StatusNoContent)
}

// MarkRead clears the unread counter locally and on the backend.
func (h *MessagesHandler) MarkRead(c *gin.Context) {
	conversationID := c.Param("id")
	h.store.Dispatch(messages.MarkRead{ConversationID: conversationID})
	if err := h.api.MarkConversationRead(c.Request.Context(), conversationID); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to mark conversation read"})
		return
	}
	c.Status(http.StatusNoContent)
}

// CloseConversation clears the active selection.
func (h *MessagesHandler) CloseConversation(c *gin.Context) {
	if h.store.State().ActiveID == c.Param("id") {
		h.store.Dispatch(messages.SetActive{})
	}
	c.Status(http.StatusNoContent)
}

// Unread returns the total unread count.
func (h *MessagesHandler) Unread(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"unread": h.store.State().TotalUnread()})
}
