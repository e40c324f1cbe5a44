package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"social-client/internal/ui"
)

type UIHandler struct {
	store *ui.Store
}

func NewUIHandler(store *ui.Store) *UIHandler {
	return &UIHandler{store: store}
}

func (h *UIHandler) Get(c *gin.Context) {
	state := h.store.State()
	c.JSON(http.StatusOK, gin.H{"theme": state.Theme, "sidebar_open": state.SidebarOpen})
}

func (h *UIHandler) SetTheme(c *gin.Context) {
	var req struct {
		Theme ui.Theme `json:"theme" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Theme != ui.ThemeLight && req.Theme != ui.ThemeDark {
		c.JSON(http.StatusBadRequest, gin.H{"error": "theme must be light or dark"})
		return
	}
	h.store.Dispatch(ui.SetTheme{Theme: req.Theme})
	h.Get(c)
}

func (h *UIHandler) ToggleTheme(c *gin.Context) {
	h.store.Dispatch(ui.ToggleTheme{})
	h.Get(c)
}

func (h *UIHandler) ToggleSidebar(c *gin.Context) {
	h.store.Dispatch(ui.ToggleSidebar{})
	h.Get(c)
}
