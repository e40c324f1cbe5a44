package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"social-client/internal/models"
	"social-client/internal/persist"
	"social-client/internal/session"
)

// Context keys set by Session.
const (
	TokenKey  = "authToken"
	UserKey   = "user"
	UserIDKey = "userID"
)

// Session resolves the auth_token cookie and the profile stored under it.
// A token with no stored profile still counts as signed in.
func Session(store *persist.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := session.AuthToken(c.Request)
		if !ok {
			c.Next()
			return
		}

		c.Set(TokenKey, token)
		if store != nil {
			if user, found := store.LoadUserProfile(c.Request.Context(), token); found {
				c.Set(UserKey, &user)
				if user.ID != "" {
					c.Set(UserIDKey, user.ID)
				}
			}
		}
		c.Next()
	}
}

// RequireSession rejects requests that carry no auth token.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(TokenKey) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
			return
		}
		c.Next()
	}
}

// User returns the profile resolved by Session, if any.
func User(c *gin.Context) *models.AuthUser {
	if val, ok := c.Get(UserKey); ok {
		if user, ok := val.(*models.AuthUser); ok {
			return user
		}
	}
	return nil
}
