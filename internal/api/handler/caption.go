package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/snapcap/internal/domain"
	"github.com/timmy/snapcap/internal/logger"
	"github.com/timmy/snapcap/internal/repository"
	"github.com/timmy/snapcap/internal/service"
)

// CaptionGenerator produces caption variants for a description.
type CaptionGenerator interface {
	Generate(ctx context.Context, description string, tone domain.Tone, modelOverride string) (*service.CaptionResult, error)
}

// CaptionHandler handles caption generation requests.
type CaptionHandler struct {
	captions CaptionGenerator
	store    *repository.HistoryStore
}

// NewCaptionHandler creates a new caption handler.
// Parameters:
//   - captions: caption generation pipeline.
//   - store: history store receiving successful results.
//
// Returns:
//   - *CaptionHandler: initialized handler.
func NewCaptionHandler(captions CaptionGenerator, store *repository.HistoryStore) *CaptionHandler {
	return &CaptionHandler{captions: captions, store: store}
}

type captionRequest struct {
	Description string `json:"description"`
	ImageName   string `json:"image_name"`
	ImageHash   string `json:"image_hash"`
	Tone        string `json:"tone"`
	ModelID     string `json:"model_id"`
}

// GenerateCaption handles POST /api/caption. A successful generation is
// recorded in history with the short caption truncated for storage; the
// response carries the untruncated caption set.
func (h *CaptionHandler) GenerateCaption(c *gin.Context) {
	var req captionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Description is required."})
		return
	}

	imageName := req.ImageName
	if imageName == "" {
		imageName = "Unknown Image"
	}

	ctx := c.Request.Context()
	tone := domain.ResolveTone(req.Tone)

	result, err := h.captions.Generate(ctx, req.Description, tone, req.ModelID)
	if err != nil {
		if errors.Is(err, service.ErrMissingToken) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "HF_TOKEN not set in environment."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Caption generation failed: " + err.Error()})
		return
	}

	stored := service.TruncateForHistory(result.Captions.Short)
	entry, err := h.store.Append(imageName, req.Description, stored, result.Think, req.ImageHash)
	if err != nil {
		// Availability over durability: the caller still gets captions.
		logger.CtxWarn(ctx, "failed to record history entry: %v", err)
	} else {
		logger.CtxInfo(ctx, "recorded history entry %s (tone=%s)", entry.ID, tone)
	}

	c.JSON(http.StatusOK, gin.H{
		"caption": result.Captions,
		"think":   result.Think,
	})
}
