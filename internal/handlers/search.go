package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"social-client/internal/search"
)

type SearchHandler struct {
	api search.Searcher
}

func NewSearchHandler(api search.Searcher) *SearchHandler {
	return &SearchHandler{api: api}
}

// Search matches people and posts. Queries under two characters return nothing.
func (h *SearchHandler) Search(c *gin.Context) {
	q := c.Query("q")
	res, err := search.Lookup(c.Request.Context(), h.api, q)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": q, "users": res.Users, "posts": res.Posts})
}
