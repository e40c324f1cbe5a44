package models

import "time"

// Peer is the other participant of a conversation.
type Peer struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Handle    string `json:"handle"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Online    bool   `json:"online"`
}

// Conversation represents a direct messaging thread with one peer.
type Conversation struct {
	ID            string    `json:"id"`
	Peer          Peer      `json:"peer"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int       `json:"unread_count"`
	Typing        bool      `json:"typing,omitempty"`
}
