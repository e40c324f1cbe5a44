package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"social-client/internal/backend"
	"social-client/internal/demo"
	"social-client/internal/feed"
	"social-client/internal/models"
)

// DemoSource is the slice of the demo client the feed reads from.
type DemoSource interface {
	FetchPosts(ctx context.Context, count int) []models.Post
	FetchComments(ctx context.Context, postID string, count int) []models.PostComment
	FetchStories(ctx context.Context, count int) []models.Story
	UserPosts(ctx context.Context, user *models.AuthUser, count int) []models.Post
}

// FeedHandler serves the home timeline. When demo is nil posts come from the backend.
type FeedHandler struct {
	store *feed.Store
	api   backend.API
	demo  DemoSource
}

func NewFeedHandler(store *feed.Store, api backend.API, demo DemoSource) *FeedHandler {
	return &FeedHandler{store: store, api: api, demo: demo}
}

// ListPosts returns the timeline, loading it on first use or when refresh=1.
func (h *FeedHandler) ListPosts(c *gin.Context) {
	state := h.store.State()
	if len(state.Posts) == 0 || c.Query("refresh") == "1" {
		h.store.Dispatch(feed.SetLoading{Loading: true})
		posts, err := h.loadPosts(c.Request.Context())
		h.store.Dispatch(feed.SetLoading{Loading: false})
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load feed"})
			return
		}
		h.store.Dispatch(feed.SetPosts{Posts: posts})
		state = h.store.State()
	}
	c.JSON(http.StatusOK, gin.H{"posts": state.Posts})
}

func (h *FeedHandler) loadPosts(ctx context.Context) ([]models.Post, error) {
	if h.demo != nil {
		if posts := h.demo.FetchPosts(ctx, demo.DefaultPostCount); len(posts) > 0 {
			return posts, nil
		}
	}
	return h.api.ListPosts(ctx)
}

// CreatePost adds a post authored by the session user.
func (h *FeedHandler) CreatePost(c *gin.Context) {
	var req struct {
		Content string   `json:"content" binding:"required"`
		Images  []string `json:"images"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author := models.Author{Name: "You", Handle: "you"}
	if user := sessionUser(c); user != nil {
		author = models.Author{Name: user.Name, Handle: user.Handle, AvatarURL: user.AvatarURL}
	}
	post := models.Post{
		ID:        "local-" + requestIDFromContext(c),
		Author:    author,
		Content:   req.Content,
		CreatedAt: nowFunc(),
		Images:    req.Images,
	}
	h.store.Dispatch(feed.AddPost{Post: post})
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// ToggleLike flips the like optimistically and reverts when the backend fails.
func (h *FeedHandler) ToggleLike(c *gin.Context) {
	id := c.Param("id")
	h.toggle(c, feed.ToggleLike{ID: id}, func(ctx context.Context) error { return h.api.LikePost(ctx, id) })
}

// ToggleRepost flips the repost optimistically and reverts when the backend fails.
func (h *FeedHandler) ToggleRepost(c *gin.Context) {
	id := c.Param("id")
	h.toggle(c, feed.ToggleRepost{ID: id}, func(ctx context.Context) error { return h.api.RepostPost(ctx, id) })
}

func (h *FeedHandler) toggle(c *gin.Context, action feed.Action, call func(context.Context) error) {
	id := c.Param("id")
	if _, ok := h.post(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	h.store.Dispatch(action)
	// Demo posts are unknown to the backend; the local toggle stands.
	if err := call(c.Request.Context()); err != nil && !errors.Is(err, backend.ErrPostNotFound) {
		h.store.Dispatch(action)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to update post"})
		return
	}

	post, _ := h.post(id)
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// View counts an impression.
func (h *FeedHandler) View(c *gin.Context) {
	h.store.Dispatch(feed.IncrementViews{ID: c.Param("id")})
	c.Status(http.StatusNoContent)
}

func (h *FeedHandler) post(id string) (models.Post, bool) {
	for _, p := range h.store.State().Posts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}

// Comments returns replies for a post.
func (h *FeedHandler) Comments(c *gin.Context) {
	comments := []models.PostComment{}
	if h.demo != nil {
		comments = h.demo.FetchComments(c.Request.Context(), c.Param("id"), queryInt(c, "limit", demo.DefaultCommentCount))
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// Trending returns front-page stories and trending images.
func (h *FeedHandler) Trending(c *gin.Context) {
	stories := []models.Story{}
	if h.demo != nil {
		stories = h.demo.FetchStories(c.Request.Context(), queryInt(c, "limit", demo.DefaultStoryCount))
	}
	c.JSON(http.StatusOK, gin.H{
		"stories": stories,
		"images":  demo.TrendingImages(demo.DefaultPostCount),
	})
}

// MyPosts returns the session user's welcome post followed by demo posts.
func (h *FeedHandler) MyPosts(c *gin.Context) {
	if h.demo == nil {
		c.JSON(http.StatusOK, gin.H{"posts": []models.Post{}})
		return
	}
	posts := h.demo.UserPosts(c.Request.Context(), sessionUser(c), queryInt(c, "limit", 5))
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("ignoring invalid query param: key=%s value=%q", key, raw)
		return fallback
	}
	return n
}
