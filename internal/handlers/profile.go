package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"social-client/internal/backend"
	"social-client/internal/models"
	"social-client/internal/persist"
	"social-client/internal/profile"
)

type ProfileHandler struct {
	store   *profile.Store
	persist *persist.Store
	api     backend.API
}

func NewProfileHandler(store *profile.Store, p *persist.Store, api backend.API) *ProfileHandler {
	return &ProfileHandler{store: store, persist: p, api: api}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	state := h.store.State()
	c.JSON(http.StatusOK, gin.H{
		"me":        state.Me,
		"followers": state.Followers,
		"following": state.Following,
		"replies":   state.Replies,
		"media":     state.Media,
	})
}

// Update patches the profile and saves it to local storage.
func (h *ProfileHandler) Update(c *gin.Context) {
	var req struct {
		Name      *string `json:"name"`
		Handle    *string `json:"handle"`
		Bio       *string `json:"bio"`
		AvatarURL *string `json:"avatar_url"`
		BannerURL *string `json:"banner_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.store.Dispatch(profile.UpdateMe{Patch: profile.Patch{
		Name:      req.Name,
		Handle:    req.Handle,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
		BannerURL: req.BannerURL,
	}})
	me := h.store.State().Me
	if err := h.persist.SaveProfile(c.Request.Context(), models.ProfileData{
		Name:      me.Name,
		Handle:    me.Handle,
		Bio:       me.Bio,
		AvatarURL: me.AvatarURL,
		BannerURL: me.BannerURL,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"me": me})
}

func (h *ProfileHandler) Follow(c *gin.Context) {
	h.setFollowing(c, true)
}

func (h *ProfileHandler) Unfollow(c *gin.Context) {
	h.setFollowing(c, false)
}

func (h *ProfileHandler) setFollowing(c *gin.Context, following bool) {
	id := c.Param("id")
	ctx := c.Request.Context()

	var err error
	if following {
		err = h.api.FollowUser(ctx, id)
	} else {
		err = h.api.UnfollowUser(ctx, id)
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to update follow"})
		return
	}

	if following {
		h.store.Dispatch(profile.Follow{ID: id})
	} else {
		h.store.Dispatch(profile.Unfollow{ID: id})
	}

	list := h.persist.LoadWhoToFollow(ctx)
	for i := range list {
		if list[i].ID == id {
			list[i].IsFollowing = following
		}
	}
	if err := h.persist.SaveWhoToFollow(ctx, list); err != nil {
		log.Printf("save who to follow failed: user_id=%s err=%v", id, err)
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "following": following})
}

func (h *ProfileHandler) WhoToFollow(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"users": h.persist.LoadWhoToFollow(c.Request.Context())})
}

func (h *ProfileHandler) SaveWhoToFollow(c *gin.Context) {
	var req struct {
		Users []models.WhoToFollow `json:"users"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.persist.SaveWhoToFollow(c.Request.Context(), req.Users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save suggestions"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProfileHandler) AddReply(c *gin.Context) {
	var req struct {
		PostID  string `json:"post_id"`
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reply := models.Reply{ID: uuid.NewString(), PostID: req.PostID, Content: req.Content, CreatedAt: nowFunc()}
	h.store.Dispatch(profile.AddReply{Reply: reply})
	c.JSON(http.StatusCreated, gin.H{"reply": reply})
}

func (h *ProfileHandler) RemoveReply(c *gin.Context) {
	h.store.Dispatch(profile.RemoveReply{ID: c.Param("id")})
	c.Status(http.StatusNoContent)
}

func (h *ProfileHandler) AddMedia(c *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item := models.MediaItem{ID: uuid.NewString(), URL: req.URL, CreatedAt: nowFunc()}
	h.store.Dispatch(profile.AddMedia{Item: item})
	c.JSON(http.StatusCreated, gin.H{"media": item})
}

func (h *ProfileHandler) RemoveMedia(c *gin.Context) {
	h.store.Dispatch(profile.RemoveMedia{ID: c.Param("id")})
	c.Status(http.StatusNoContent)
}
