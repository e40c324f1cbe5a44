package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"social-client/internal/models"
)

// DemoMock stands in for the public demo data client.
type DemoMock struct {
	mock.Mock
}

func (m *DemoMock) FetchPosts(ctx context.Context, count int) []models.Post {
	args := m.Called(ctx, count)
	if val := args.Get(0); val != nil {
		return val.([]models.Post)
	}
	return []models.Post{}
}

func (m *DemoMock) FetchComments(ctx context.Context, postID string, count int) []models.PostComment {
	args := m.Called(ctx, postID, count)
	if val := args.Get(0); val != nil {
		return val.([]models.PostComment)
	}
	return []models.PostComment{}
}

func (m *DemoMock) FetchStories(ctx context.Context, count int) []models.Story {
	args := m.Called(ctx, count)
	if val := args.Get(0); val != nil {
		return val.([]models.Story)
	}
	return []models.Story{}
}

func (m *DemoMock) UserPosts(ctx context.Context, user *models.AuthUser, count int) []models.Post {
	args := m.Called(ctx, user, count)
	if val := args.Get(0); val != nil {
		return val.([]models.Post)
	}
	return []models.Post{}
}
