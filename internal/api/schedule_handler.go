package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pickteum-api/internal/service"
	"github.com/rs/zerolog"
)

// sweepTimeout bounds an on-demand publish pass
const sweepTimeout = 30 * time.Second

// ScheduleHandler exposes the scheduled-publish sweep over HTTP
type ScheduleHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(services *service.Services, log zerolog.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		services: services,
		log:      log.With().Str("handler", "schedule").Logger(),
	}
}

// PublishScheduled handles POST /api/posts/publish-scheduled
func (h *ScheduleHandler) PublishScheduled(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, sweepTimeout)
	defer cancel()

	result, err := h.services.Scheduler.Sweep(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("On-demand publish sweep failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":        false,
			"publishedCount": 0,
			"error":          "failed to publish scheduled articles",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
