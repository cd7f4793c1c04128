package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pickteum-api/internal/models"
	"github.com/pickteum-api/internal/service"
	"github.com/pickteum-api/internal/validation"
	"github.com/rs/zerolog"
)

const defaultFeedLimit = 10

// FeedHandler serves the public article feed
type FeedHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(services *service.Services, log zerolog.Logger) *FeedHandler {
	return &FeedHandler{
		services: services,
		log:      log.With().Str("handler", "feed").Logger(),
	}
}

// GetFeed handles GET /api/articles?page=&limit=&category=
func (h *FeedHandler) GetFeed(c *gin.Context) {
	var q models.FeedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page and limit must be integers"})
		return
	}

	if c.Query("page") == "" {
		q.Page = 1
	}
	if c.Query("limit") == "" {
		q.Limit = defaultFeedLimit
	}
	if q.Category == "" {
		q.Category = models.AllCategories
	}

	if err := h.services.Validator.Struct(q); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "errors": verrs})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.services.Feed.Page(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found", "category": q.Category})
			return
		}
		// Readers get an empty page rather than an error
		h.log.Error().Err(err).Int("page", q.Page).Str("category", q.Category).Msg("Feed query failed")
		c.JSON(http.StatusOK, &models.FeedPage{Articles: []models.ArticleSummary{}, HasMore: false})
		return
	}

	c.JSON(http.StatusOK, page)
}
