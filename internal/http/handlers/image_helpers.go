package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/rich-menu-resizer/internal/models"
	"github.com/phambaophuc/rich-menu-resizer/internal/services/resizer"
	"github.com/phambaophuc/rich-menu-resizer/internal/services/storage"
	"go.uber.org/zap"
)

var sourceNotFoundMessage = resizer.MsgSourceNotFound

func resizedMessage(destination string) string {
	return fmt.Sprintf(resizer.MsgResizedFormat, destination)
}

type jobRequest struct {
	SourcePath      string            `json:"source_path" binding:"required"`
	DestinationPath string            `json:"destination_path" binding:"required"`
	Size            models.ResizeSize `json:"size"`
}

// === REQUEST PARSING ===

func (h *ImageHandler) parseJobRequest(c *gin.Context) (*models.ResizeJob, error) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, fmt.Errorf("invalid job request: %v", err)
	}

	if req.Size.Width < 0 || req.Size.Height < 0 {
		return nil, errors.New("size must not be negative")
	}

	root := filepath.Dir(h.runner.Config().DestinationPath)
	if err := resizer.CheckJobPaths(root, req.SourcePath, req.DestinationPath); err != nil {
		return nil, err
	}

	return &models.ResizeJob{
		SourcePath:      req.SourcePath,
		DestinationPath: req.DestinationPath,
		Size:            req.Size,
	}, nil
}

// === RESPONSE HANDLING ===

func (h *ImageHandler) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

// === UTILITY METHODS ===

func (h *ImageHandler) calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != models.Healthy && status != models.NotConfigured {
			return models.Unhealthy
		}
	}
	return models.Healthy
}

// collectStats gathers backend statistics for the health report. Backends that
// are absent or failing are left out.
func (h *ImageHandler) collectStats(ctx context.Context) map[string]interface{} {
	stats := map[string]interface{}{}

	if h.store != nil {
		if cache, err := h.store.GetCacheStats(ctx); err == nil {
			stats["cache"] = cache
		} else if !errors.Is(err, storage.ErrNotConfigured) {
			h.logger.Warn("Failed to collect cache stats", zap.Error(err))
		}
	}

	if h.queue != nil {
		if queue, err := h.queue.GetQueueStats(); err == nil {
			stats["queue"] = queue
		} else {
			h.logger.Warn("Failed to collect queue stats", zap.Error(err))
		}
	}

	if len(stats) == 0 {
		return nil
	}
	return stats
}

func (h *ImageHandler) sourceState() string {
	if _, err := os.Stat(h.runner.Config().SourcePath); err != nil {
		return "missing"
	}
	return "present"
}
