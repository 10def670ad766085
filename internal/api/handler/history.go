package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/snapcap/internal/logger"
	"github.com/timmy/snapcap/internal/repository"
)

// HistoryHandler handles history endpoints.
type HistoryHandler struct {
	store *repository.HistoryStore
}

// NewHistoryHandler creates a new history handler.
// Parameters:
//   - store: history store instance.
//
// Returns:
//   - *HistoryHandler: initialized handler.
func NewHistoryHandler(store *repository.HistoryStore) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// List handles GET /api/history.
func (h *HistoryHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": h.store.List()})
}

// Get handles GET /api/history/:id.
func (h *HistoryHandler) Get(c *gin.Context) {
	entry, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "History entry not found"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Delete handles DELETE /api/history/:id. Deleting an unknown id succeeds;
// a persistence failure is logged but not surfaced.
func (h *HistoryHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Param("id")); err != nil {
		logger.CtxWarn(c.Request.Context(), "failed to delete history entry: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted successfully"})
}

// Clear handles DELETE /api/history.
func (h *HistoryHandler) Clear(c *gin.Context) {
	if err := h.store.Clear(); err != nil {
		logger.CtxWarn(c.Request.Context(), "failed to clear history: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "History cleared successfully"})
}
