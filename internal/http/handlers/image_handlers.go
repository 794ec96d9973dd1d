package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/rich-menu-resizer/internal/config"
	"github.com/phambaophuc/rich-menu-resizer/internal/models"
	"github.com/phambaophuc/rich-menu-resizer/internal/services/processor"
	"github.com/phambaophuc/rich-menu-resizer/internal/services/storage"
	"github.com/phambaophuc/rich-menu-resizer/pkg/utils"
	"go.uber.org/zap"
)

const maxCacheAge = 3600

type Runner interface {
	Run(ctx context.Context) (*models.ResizeResult, error)
	ReadDestination() ([]byte, error)
	Config() config.ResizeConfig
}

type ResultStore interface {
	GetLastResult(ctx context.Context, cfg config.ResizeConfig) (*models.ResizeResult, error)
	GetCacheStats(ctx context.Context) (map[string]interface{}, error)
	HealthCheck(ctx context.Context) map[string]string
}

type JobQueue interface {
	PublishJob(ctx context.Context, job *models.ResizeJob) error
	GetQueueStats() (map[string]interface{}, error)
	HealthCheck() string
}

type ImageHandler struct {
	runner Runner
	store  ResultStore
	queue  JobQueue
	logger *zap.Logger
}

// NewImageHandler wires the handler. store and queue may be nil.
func NewImageHandler(runner Runner, store ResultStore, queue JobQueue, logger *zap.Logger) *ImageHandler {
	return &ImageHandler{
		runner: runner,
		store:  store,
		queue:  queue,
		logger: logger,
	}
}

// === MAIN API ENDPOINTS ===

func (h *ImageHandler) ResizeImage(c *gin.Context) {
	result, err := h.runner.Run(c.Request.Context())
	if err != nil {
		h.logger.Error("Resize failed", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to process image")
		return
	}

	if result.Status == models.ResultSourceMissing {
		h.respondError(c, http.StatusNotFound, sourceNotFoundMessage)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Message: resizedMessage(result.DestinationPath),
		Data:    result,
	})
}

// GetResizedImage serves the current destination file. ?format=jpeg (or png,
// gif, ...) re-encodes it on the way out.
func (h *ImageHandler) GetResizedImage(c *gin.Context) {
	data, err := h.runner.ReadDestination()
	if err != nil {
		h.respondError(c, http.StatusNotFound, "Resized image not found")
		return
	}

	format := processor.FormatOf(h.runner.Config().DestinationPath)
	if requested := c.Query("format"); requested != "" {
		data, err = processor.Transcode(data, requested)
		if err != nil {
			h.respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		format = processor.FormatOf("image." + requested)
	}

	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", maxCacheAge))
	c.Data(http.StatusOK, utils.ContentTypeFor(format), data)
}

func (h *ImageHandler) GetLastResult(c *gin.Context) {
	if h.store == nil {
		h.respondError(c, http.StatusServiceUnavailable, "Result cache not configured")
		return
	}

	result, err := h.store.GetLastResult(c.Request.Context(), h.runner.Config())
	if errors.Is(err, storage.ErrNotConfigured) {
		h.respondError(c, http.StatusServiceUnavailable, "Result cache not configured")
		return
	}
	if err != nil {
		h.logger.Error("Failed to read last result", zap.Error(err))
		h.respondError(c, http.StatusServiceUnavailable, "Result cache unavailable")
		return
	}
	if result == nil {
		h.respondError(c, http.StatusNotFound, "No resize recorded yet")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: result})
}

func (h *ImageHandler) EnqueueJob(c *gin.Context) {
	if h.queue == nil {
		h.respondError(c, http.StatusServiceUnavailable, "Job queue not configured")
		return
	}

	job, err := h.parseJobRequest(c)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.queue.PublishJob(c.Request.Context(), job); err != nil {
		h.logger.Error("Failed to enqueue job", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to enqueue job")
		return
	}

	c.JSON(http.StatusAccepted, models.APIResponse{Success: true, Data: job})
}

// HealthCheck
func (h *ImageHandler) HealthCheck(c *gin.Context) {
	services := map[string]string{
		"redis":    models.NotConfigured,
		"supabase": models.NotConfigured,
		"queue":    models.NotConfigured,
	}
	if h.store != nil {
		for k, v := range h.store.HealthCheck(c.Request.Context()) {
			services[k] = v
		}
	}
	if h.queue != nil {
		services["queue"] = h.queue.HealthCheck()
	}

	overall := h.calculateOverallHealth(services)

	statusCode := http.StatusOK
	if overall == models.Unhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.APIResponse{
		Success: overall == models.Healthy,
		Data: models.HealthCheck{
			Status:    overall,
			Timestamp: time.Now(),
			Source:    h.sourceState(),
			Services:  services,
			Stats:     h.collectStats(c.Request.Context()),
		},
	})
}
