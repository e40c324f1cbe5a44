package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"social-client/internal/events"
	"social-client/internal/middleware"
	"social-client/internal/models"
	"social-client/internal/persist"
	"social-client/internal/session"
)

// AuthHandler runs the demo sign-in flow: any submitted identity is accepted
// and stored under a fresh token.
type AuthHandler struct {
	sess    *session.Store
	persist *persist.Store
	bus     *events.Bus
	ttlDays int
}

func NewAuthHandler(sess *session.Store, store *persist.Store, bus *events.Bus) *AuthHandler {
	return &AuthHandler{sess: sess, persist: store, bus: bus, ttlDays: session.DefaultTTLDays}
}

// Login issues an auth_token cookie for the submitted identity.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required"`
		Handle    string `json:"handle"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	handle := req.Handle
	if handle == "" {
		handle = strings.ToLower(strings.Join(strings.Fields(req.Name), ""))
	}
	user := models.AuthUser{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Handle:    handle,
		Email:     req.Email,
		AvatarURL: req.AvatarURL,
		Following: []string{},
	}
	token := uuid.NewString()

	if err := h.persist.SaveUserProfile(c.Request.Context(), token, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store profile"})
		return
	}
	session.SetAuthToken(c.Writer, token, h.ttlDays)
	h.sess.Dispatch(session.Login{User: user})
	if h.bus != nil {
		h.bus.Publish(events.LoggedIn{User: user, Token: token})
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout clears the cookie and the profile stored under it.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.TokenKey)
	if token != "" {
		if err := h.persist.DeleteUserProfile(c.Request.Context(), token); err != nil {
			log.Printf("delete user profile failed: err=%v", err)
		}
	}
	session.ClearAuthToken(c.Writer)
	h.sess.Dispatch(session.Logout{})
	if h.bus != nil {
		h.bus.Publish(events.LoggedOut{Token: token})
	}
	c.Status(http.StatusNoContent)
}

// Me reports the session and syncs it into the session store.
func (h *AuthHandler) Me(c *gin.Context) {
	h.syncSession(c, sessionUser(c))
	state := h.sess.State()
	c.JSON(http.StatusOK, gin.H{"authenticated": state.Authenticated, "user": state.User})
}

// UpdateMe patches the signed-in user and persists the result.
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req struct {
		Name      *string `json:"name"`
		Handle    *string `json:"handle"`
		Email     *string `json:"email"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fallback := sessionUser(c)
	if fallback == nil {
		fallback = &models.AuthUser{}
	}
	h.syncSession(c, fallback)
	h.sess.Dispatch(session.UpdateUser{Patch: session.UserPatch{
		Name:      req.Name,
		Handle:    req.Handle,
		Email:     req.Email,
		AvatarURL: req.AvatarURL,
	}})

	user := h.sess.State().User
	if err := h.persist.SaveUserProfile(c.Request.Context(), c.GetString(middleware.TokenKey), *user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// syncSession aligns the session store with the request's cookie. A stored
// user belonging to another token is replaced.
func (h *AuthHandler) syncSession(c *gin.Context, user *models.AuthUser) {
	authenticated := c.GetString(middleware.TokenKey) != ""
	if cur := h.sess.State().User; authenticated && user != nil && cur != nil && user.ID != "" && cur.ID != user.ID {
		h.sess.Dispatch(session.Login{User: *user})
		return
	}
	h.sess.Dispatch(session.SetAuthStatus{Authenticated: authenticated, Fallback: user})
}
