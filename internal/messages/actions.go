package messages

import (
	"time"

	"social-client/internal/models"
)

// Action is a transition accepted by the messaging reducer.
type Action interface {
	Type() string
}

// SetConversations replaces the conversation list.
type SetConversations struct {
	Conversations []models.Conversation
}

// ConversationUpsert carries the fields to merge into a conversation.
// Nil fields are left untouched on an existing conversation.
type ConversationUpsert struct {
	ID            string
	Peer          *models.Peer
	LastMessageAt *time.Time
	UnreadCount   *int
	Typing        *bool
}

// UpsertConversation merges or inserts one conversation.
type UpsertConversation struct {
	Conversation ConversationUpsert
}

// SetActive selects the open conversation. An empty ID clears the selection.
type SetActive struct {
	ID string
}

// SetMessages replaces the messages of one conversation.
type SetMessages struct {
	ConversationID string
	Messages       []models.Message
}

// PrependMessages merges an older page of messages.
type PrependMessages struct {
	ConversationID string
	Messages       []models.Message
}

// AddMessage appends one message and updates its conversation.
type AddMessage struct {
	Message models.Message
}

// MessagePatch carries the fields to merge into a message.
type MessagePatch struct {
	ID          *string
	Text        *string
	CreatedAt   *time.Time
	Status      *models.MessageStatus
	Attachments []models.Attachment
}

// UpdateMessage patches one message by id.
type UpdateMessage struct {
	ConversationID string
	ID             string
	Patch          MessagePatch
}

// SetTyping toggles the peer typing indicator.
type SetTyping struct {
	ConversationID string
	Typing         bool
}

// SetPeerOnline updates presence on every conversation with that peer.
type SetPeerOnline struct {
	PeerID string
	Online bool
}

// MarkRead clears unread state of a conversation.
type MarkRead struct {
	ConversationID string
}

// SetLoadingConversations flags a conversation list fetch in flight.
type SetLoadingConversations struct{ Loading bool }

// SetLoadingMessages flags a message page fetch in flight.
type SetLoadingMessages struct{ Loading bool }

// SetSending flags an outgoing message awaiting the backend.
type SetSending struct{ Sending bool }

func (SetConversations) Type() string        { return "messages/setConversations" }
func (UpsertConversation) Type() string      { return "messages/upsertConversation" }
func (SetActive) Type() string               { return "messages/setActive" }
func (SetMessages) Type() string             { return "messages/setMessages" }
func (PrependMessages) Type() string         { return "messages/prependMessages" }
func (AddMessage) Type() string              { return "messages/addMessage" }
func (UpdateMessage) Type() string           { return "messages/updateMessage" }
func (SetTyping) Type() string               { return "messages/setTyping" }
func (SetPeerOnline) Type() string           { return "messages/setPeerOnline" }
func (MarkRead) Type() string                { return "messages/markRead" }
func (SetLoadingConversations) Type() string { return "messages/setLoadingConversations" }
func (SetLoadingMessages) Type() string      { return "messages/setLoadingMessages" }
func (SetSending) Type() string              { return "messages/setSending" }
