package backend

import (
	"context"
	"errors"
	"time"

	"social-client/internal/models"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrPostNotFound         = errors.New("post not found")
	ErrEmptyMessage         = errors.New("message has no text or attachments")
)

// DefaultPageSize is the message page size when none is requested.
const DefaultPageSize = 20

// ListOptions pages backwards through a conversation.
type ListOptions struct {
	Before time.Time
	Limit  int
}

// SendInput is the payload of an outgoing message.
type SendInput struct {
	Text        string
	Attachments []models.Attachment
}

// SearchPost is a post hit returned by search.
type SearchPost struct {
	ID        string      `json:"id"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	Images    []string    `json:"images,omitempty"`
	Author    models.User `json:"author"`
}

// SearchResult groups people and post hits.
type SearchResult struct {
	Users []models.User `json:"users"`
	Posts []SearchPost  `json:"posts"`
}

// API is the remote surface the client talks to.
type API interface {
	ListConversations(ctx context.Context) ([]models.Conversation, error)
	ListMessages(ctx context.Context, conversationID string, opts ListOptions) ([]models.Message, error)
	SendMessage(ctx context.Context, conversationID string, in SendInput) (models.Message, error)
	MarkConversationRead(ctx context.Context, conversationID string) error
	SetTyping(ctx context.Context, conversationID string, typing bool) error
	GetOrCreateConversationWithUser(ctx context.Context, userID string) (models.Conversation, error)
	SearchAll(ctx context.Context, query string) (SearchResult, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	FollowUser(ctx context.Context, userID string) error
	UnfollowUser(ctx context.Context, userID string) error
	LikePost(ctx context.Context, postID string) error
	RepostPost(ctx context.Context, postID string) error
}
