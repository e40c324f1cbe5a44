package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-client/internal/backend"
	"social-client/internal/demo"
	"social-client/internal/feed"
	"social-client/internal/middleware"
	"social-client/internal/mocks"
	"social-client/internal/models"
)

func setupFeedRouter(handler *FeedHandler, user *models.AuthUser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.UserKey, user)
		}
		c.Next()
	})
	r.GET("/feed", handler.ListPosts)
	r.POST("/feed", handler.CreatePost)
	r.POST("/feed/:id/like", handler.ToggleLike)
	r.POST("/feed/:id/repost", handler.ToggleRepost)
	r.POST("/feed/:id/view", handler.View)
	r.GET("/feed/:id/comments", handler.Comments)
	r.GET("/trending", handler.Trending)
	r.GET("/me/posts", handler.MyPosts)
	return r
}

func seededFeed() *feed.Store {
	st := feed.NewStore()
	st.Dispatch(feed.SetPosts{Posts: []models.Post{{ID: "p1", Metrics: models.PostMetrics{Likes: 5, Reposts: 1}}}})
	return st
}

func TestListPostsFromDemo(t *testing.T) {
	api := new(mocks.APIMock)
	src := new(mocks.DemoMock)
	st := feed.NewStore()
	router := setupFeedRouter(NewFeedHandler(st, api, src), nil)

	src.On("FetchPosts", mock.Anything, demo.DefaultPostCount).Return([]models.Post{{ID: "1"}, {ID: "2"}}).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, st.State().Posts, 2)
	api.AssertNotCalled(t, "ListPosts", mock.Anything)
	src.AssertExpectations(t)
}

func TestListPostsFallsBackToBackend(t *testing.T) {
	api := new(mocks.APIMock)
	src := new(mocks.DemoMock)
	st := feed.NewStore()
	router := setupFeedRouter(NewFeedHandler(st, api, src), nil)

	src.On("FetchPosts", mock.Anything, mock.Anything).Return([]models.Post{}).Once()
	api.On("ListPosts", mock.Anything).Return([]models.Post{{ID: "p1"}}, nil).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p1", st.State().Posts[0].ID)
	assert.False(t, st.State().Loading)
	api.AssertExpectations(t)
}

func TestListPostsBackendError(t *testing.T) {
	api := new(mocks.APIMock)
	router := setupFeedRouter(NewFeedHandler(feed.NewStore(), api, nil), nil)

	api.On("ListPosts", mock.Anything).Return(nil, assert.AnError).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCreatePostUsesSessionUser(t *testing.T) {
	st := seededFeed()
	router := setupFeedRouter(NewFeedHandler(st, new(mocks.APIMock), nil), &models.AuthUser{Name: "Neo", Handle: "neo"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/feed", bytes.NewBufferString(`{"content":"hello world"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	posts := st.State().Posts
	require.Len(t, posts, 2)
	assert.Equal(t, "neo", posts[0].Author.Handle)
	assert.Equal(t, "hello world", posts[0].Content)
}

func TestToggleLikeKeepsLocalToggleForUnknownPost(t *testing.T) {
	api := new(mocks.APIMock)
	st := seededFeed()
	router := setupFeedRouter(NewFeedHandler(st, api, nil), nil)

	api.On("LikePost", mock.Anything, "p1").Return(backend.ErrPostNotFound).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/feed/p1/like", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Post models.Post `json:"post"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Post.Liked)
	assert.Equal(t, 6, resp.Post.Metrics.Likes)
	api.AssertExpectations(t)
}

func TestToggleRepostRevertsOnFailure(t *testing.T) {
	api := new(mocks.APIMock)
	st := seededFeed()
	router := setupFeedRouter(NewFeedHandler(st, api, nil), nil)

	api.On("RepostPost", mock.Anything, "p1").Return(assert.AnError).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/feed/p1/repost", nil))
	require.Equal(t, http.StatusBadGateway, rec.Code)

	post := st.State().Posts[0]
	assert.False(t, post.Reposted)
	assert.Equal(t, 1, post.Metrics.Reposts)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/feed/missing/repost", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestViewCommentsTrendingAndMyPosts(t *testing.T) {
	src := new(mocks.DemoMock)
	st := seededFeed()
	user := &models.AuthUser{Handle: "neo"}
	router := setupFeedRouter(NewFeedHandler(st, new(mocks.APIMock), src), user)

	src.On("FetchComments", mock.Anything, "p1", 2).Return([]models.PostComment{{ID: "c"}}).Once()
	src.On("FetchStories", mock.Anything, demo.DefaultStoryCount).Return([]models.Story{{ID: "s"}}).Once()
	src.On("UserPosts", mock.Anything, user, 5).Return([]models.Post{{ID: "user-1"}}).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/feed/p1/view", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, st.State().Posts[0].Metrics.Views)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed/p1/comments?limit=2", nil))
	assert.JSONEq(t, `{"comments":[{"id":"c","post_id":"","name":"","handle":"","content":"","created_at":"0001-01-01T00:00:00Z"}]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trending", nil))
	var trending struct {
		Stories []models.Story `json:"stories"`
		Images  []string       `json:"images"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&trending))
	assert.Len(t, trending.Stories, 1)
	assert.Len(t, trending.Images, demo.DefaultPostCount)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me/posts", nil))
	assert.Contains(t, rec.Body.String(), "user-1")
	src.AssertExpectations(t)
}
