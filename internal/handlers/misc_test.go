package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-client/internal/backend"
	"social-client/internal/messages"
	"social-client/internal/mocks"
	"social-client/internal/models"
	"social-client/internal/realtime"
	"social-client/internal/ui"
)

func TestSearch(t *testing.T) {
	api := new(mocks.APIMock)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/search", NewSearchHandler(api).Search)

	api.On("SearchAll", mock.Anything, "jane").Return(backend.SearchResult{
		Users: []models.User{{ID: "u1", Name: "Jane Doe", Handle: "jane"}},
		Posts: []backend.SearchPost{},
	}, nil).Once()
	api.On("SearchAll", mock.Anything, "boom").Return(nil, assert.AnError).Once()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=jane", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"query":"jane","users":[{"id":"u1","name":"Jane Doe","handle":"jane"}],"posts":[]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=j", nil))
	assert.JSONEq(t, `{"query":"j","users":[],"posts":[]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=boom", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	api.AssertExpectations(t)
}

func TestUIRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewUIHandler(ui.NewStore())
	r := gin.New()
	r.GET("/ui", h.Get)
	r.POST("/ui/theme", h.SetTheme)
	r.POST("/ui/theme/toggle", h.ToggleTheme)
	r.POST("/ui/sidebar/toggle", h.ToggleSidebar)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ui/theme/toggle", nil))
	assert.JSONEq(t, `{"theme":"dark","sidebar_open":true}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ui/theme", bytes.NewBufferString(`{"theme":"sepia"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ui/theme", bytes.NewBufferString(`{"theme":"light"}`)))
	assert.JSONEq(t, `{"theme":"light","sidebar_open":true}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ui/sidebar/toggle", nil))
	assert.JSONEq(t, `{"theme":"light","sidebar_open":false}`, rec.Body.String())
}

func TestDebugRealtimeRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	st := messages.NewStore("me")
	st.Dispatch(messages.SetConversations{Conversations: []models.Conversation{
		{ID: "c1", Peer: models.Peer{ID: "u1"}, LastMessageAt: time.Now().Add(-time.Hour)},
	}})
	bus := realtime.NewBus()
	defer realtime.Bind(bus, st)()

	r := gin.New()
	RegisterDebugRoutes(r, nil, bus, true)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/debug/realtime/message", bytes.NewBufferString(`{"conversation_id":"c1","sender_id":"u1","text":"ping"}`)))
	require.Equal(t, http.StatusAccepted, rec.Code)
	msgs := st.State().Messages("c1")
	require.Len(t, msgs, 1)
	assert.Equal(t, "ping", msgs[0].Text)
	assert.Equal(t, models.StatusDelivered, msgs[0].Status)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/debug/realtime/presence", bytes.NewBufferString(`{"peer_id":"u1","online":true}`)))
	require.Equal(t, http.StatusAccepted, rec.Code)
	conv, _ := st.State().Conversation("c1")
	assert.True(t, conv.Peer.Online)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/debug/realtime/typing", bytes.NewBufferString(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/audit-test", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDebugRoutesDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterDebugRoutes(r, nil, realtime.NewBus(), false)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/audit-test", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
