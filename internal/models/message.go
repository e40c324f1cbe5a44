package models

import "time"

// MessageStatus tracks a message through its delivery lifecycle.
type MessageStatus string

const (
	StatusPending   MessageStatus = "pending"
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
	StatusError     MessageStatus = "error"
)

var statusTransitions = map[MessageStatus][]MessageStatus{
	StatusPending:   {StatusSent, StatusError},
	StatusSent:      {StatusDelivered},
	StatusDelivered: {StatusRead},
}

// CanTransition reports whether a message may move from s to next.
// Re-asserting the current status is always allowed.
func (s MessageStatus) CanTransition(next MessageStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Attachment is a media item sent along with a message.
type Attachment struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Message represents a direct message.
type Message struct {
	ID             string        `json:"id"`
	ConversationID string        `json:"conversation_id"`
	SenderID       string        `json:"sender_id"`
	Text           string        `json:"text"`
	CreatedAt      time.Time     `json:"created_at"`
	Status         MessageStatus `json:"status"`
	Attachments    []Attachment  `json:"attachments,omitempty"`
}

// MessageEvent is pushed to websocket clients.
type MessageEvent struct {
	Type           string         `json:"type"`
	ConversationID string         `json:"conversation_id,omitempty"`
	Message        *Message       `json:"message,omitempty"`
	Messages       []Message      `json:"messages,omitempty"`
	Conversations  []Conversation `json:"conversations,omitempty"`
}
