package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/snapcap/internal/logger"
	"github.com/timmy/snapcap/internal/repository"
	"github.com/timmy/snapcap/internal/service"
)

// DescribeHandler handles image upload and description.
type DescribeHandler struct {
	describer service.Describer
	store     *repository.HistoryStore
}

// NewDescribeHandler creates a new describe handler.
// Parameters:
//   - describer: vision description client.
//   - store: history store used for duplicate detection.
//
// Returns:
//   - *DescribeHandler: initialized handler.
func NewDescribeHandler(describer service.Describer, store *repository.HistoryStore) *DescribeHandler {
	return &DescribeHandler{describer: describer, store: store}
}

// Describe handles POST /api/describe. The uploaded image is fingerprinted
// first; a hash already present in history short-circuits the vision call
// and reuses the stored description.
func (h *DescribeHandler) Describe(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required."})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file."})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file."})
		return
	}

	if !isSupportedImage(data) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only JPG/PNG images are supported."})
		return
	}

	sum := sha256.Sum256(data)
	imageHash := hex.EncodeToString(sum[:])

	if entry, ok := h.store.FindByImageHash(imageHash); ok {
		c.JSON(http.StatusOK, gin.H{
			"description":        entry.Description,
			"image_hash":         imageHash,
			"is_duplicate":       true,
			"original_timestamp": entry.Timestamp,
		})
		return
	}

	ctx := c.Request.Context()
	description, err := h.describer.DescribeImage(ctx, data)
	if err != nil {
		logger.CtxError(ctx, "vision description failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Vision service error: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"description":  description,
		"image_hash":   imageHash,
		"is_duplicate": false,
	})
}

// isSupportedImage sniffs the upload content rather than trusting the
// multipart header.
func isSupportedImage(data []byte) bool {
	switch http.DetectContentType(data) {
	case "image/jpeg", "image/png":
		return true
	}
	return false
}
