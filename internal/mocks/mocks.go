package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"social-client/internal/backend"
	"social-client/internal/models"
)

type APIMock struct {
	mock.Mock
}

var _ backend.API = (*APIMock)(nil)

func (m *APIMock) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	args := m.Called(ctx)
	var convs []models.Conversation
	if val := args.Get(0); val != nil {
		convs = val.([]models.Conversation)
	}
	return convs, args.Error(1)
}

func (m *APIMock) ListMessages(ctx context.Context, conversationID string, opts backend.ListOptions) ([]models.Message, error) {
	args := m.Called(ctx, conversationID, opts)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *APIMock) SendMessage(ctx context.Context, conversationID string, in backend.SendInput) (models.Message, error) {
	args := m.Called(ctx, conversationID, in)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *APIMock) MarkConversationRead(ctx context.Context, conversationID string) error {
	args := m.Called(ctx, conversationID)
	return args.Error(0)
}

func (m *APIMock) SetTyping(ctx context.Context, conversationID string, typing bool) error {
	args := m.Called(ctx, conversationID, typing)
	return args.Error(0)
}

func (m *APIMock) GetOrCreateConversationWithUser(ctx context.Context, userID string) (models.Conversation, error) {
	args := m.Called(ctx, userID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *APIMock) SearchAll(ctx context.Context, query string) (backend.SearchResult, error) {
	args := m.Called(ctx, query)
	var res backend.SearchResult
	if val := args.Get(0); val != nil {
		res = val.(backend.SearchResult)
	}
	return res, args.Error(1)
}

func (m *APIMock) ListPosts(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	var posts []models.Post
	if val := args.Get(0); val != nil {
		posts = val.([]models.Post)
	}
	return posts, args.Error(1)
}

func (m *APIMock) FollowUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *APIMock) UnfollowUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *APIMock) LikePost(ctx context.Context, postID string) error {
	return m.Called(ctx, postID).Error(0)
}

func (m *APIMock) RepostPost(ctx context.Context, postID string) error {
	return m.Called(ctx, postID).Error(0)
}
