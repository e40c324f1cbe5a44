package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-client/internal/models"
	"social-client/internal/persist"
	"social-client/internal/session"
	"social-client/internal/storage"
)

func setupRouter(store *persist.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(store))
	r.GET("/open", func(c *gin.Context) {
		handle := ""
		if u := User(c); u != nil {
			handle = u.Handle
		}
		c.JSON(http.StatusOK, gin.H{"token": c.GetString(TokenKey), "handle": handle, "user_id": c.GetString(UserIDKey)})
	})
	r.GET("/private", RequireSession(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func withToken(req *http.Request, token string) *http.Request {
	rec := httptest.NewRecorder()
	session.SetAuthToken(rec, token, session.DefaultTTLDays)
	for _, ck := range rec.Result().Cookies() {
		req.AddCookie(ck)
	}
	return req
}

func TestSessionResolvesStoredUser(t *testing.T) {
	store := persist.New(storage.NewMemoryStore())
	require.NoError(t, store.SaveUserProfile(context.Background(), "tok", models.AuthUser{ID: "u9", Handle: "neo"}))
	r := setupRouter(store)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, withToken(httptest.NewRequest(http.MethodGet, "/open", nil), "tok"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"tok","handle":"neo","user_id":"u9"}`, rec.Body.String())
}

func TestSessionWithoutCookie(t *testing.T) {
	r := setupRouter(persist.New(storage.NewMemoryStore()))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.JSONEq(t, `{"token":"","handle":"","user_id":""}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSessionAcceptsUnknownToken(t *testing.T) {
	r := setupRouter(persist.New(storage.NewMemoryStore()))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, withToken(httptest.NewRequest(http.MethodGet, "/private", nil), "fresh"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
