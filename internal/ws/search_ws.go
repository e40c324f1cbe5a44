package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"social-client/internal/backend"
	"social-client/internal/models"
	"social-client/internal/observability"
	"social-client/internal/search"
)

// SearchResultEvent is pushed for every settled query.
type SearchResultEvent struct {
	Type  string               `json:"type"`
	Query string               `json:"query"`
	Users []models.User        `json:"users"`
	Posts []backend.SearchPost `json:"posts"`
	Error string               `json:"error,omitempty"`
}

// SearchHandler serves search-as-you-type: every text frame is a query and
// results arrive once input settles.
type SearchHandler struct {
	api      search.Searcher
	debounce time.Duration
}

func NewSearchHandler(api search.Searcher, debounce time.Duration) *SearchHandler {
	return &SearchHandler{api: api, debounce: debounce}
}

func (h *SearchHandler) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	observability.IncWSActive("search")
	observability.IncWSEvent("search", "ws_connect")

	var writeMu sync.Mutex
	d := search.NewDebouncer(h.api, h.debounce, func(r search.Result) {
		ev := SearchResultEvent{Type: "results", Query: r.Query, Users: r.Users, Posts: r.Posts}
		if r.Err != nil {
			ev.Type = "error"
			ev.Error = "search failed"
		}
		payload, _ := json.Marshal(ev)
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("search websocket write error: %v", err)
		}
	})

	go func() {
		defer func() {
			d.Close()
			observability.DecWSActive("search")
			observability.IncWSEvent("search", "ws_disconnect")
			conn.Close()
		}()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			d.Query(string(data))
		}
	}()
}
