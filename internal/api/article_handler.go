package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pickteum-api/internal/models"
	"github.com/pickteum-api/internal/service"
	"github.com/rs/zerolog"
)

// ArticleHandler handles article endpoints
type ArticleHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// GetPublished handles GET /api/articles/:slug
func (h *ArticleHandler) GetPublished(c *gin.Context) {
	article, err := h.services.Article.GetPublished(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// List handles GET /api/admin/articles?status=&category_id=&q=&page=&limit=
func (h *ArticleHandler) List(c *gin.Context) {
	status := models.ArticleStatus(c.Query("status"))
	if status != "" && !models.ValidStatuses[status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of: draft, published, scheduled"})
		return
	}

	categoryID := c.Query("category_id")
	if categoryID != "" {
		if _, err := uuid.Parse(categoryID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category_id must be a UUID"})
			return
		}
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	list, err := h.services.Article.List(c.Request.Context(), models.ArticleFilter{
		Status:     status,
		CategoryID: categoryID,
		Search:     c.Query("q"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create handles POST /api/admin/articles
func (h *ArticleHandler) Create(c *gin.Context) {
	var in models.ArticleInput
	if !bindAndValidate(c, h.services, &in) {
		return
	}

	if in.Author == nil {
		author := currentSession(c).Username
		in.Author = &author
	}

	article, err := h.services.Article.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, article)
}

// Get handles GET /api/admin/articles/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	article, err := h.services.Article.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Update handles PUT /api/admin/articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var in models.ArticleInput
	if !bindAndValidate(c, h.services, &in) {
		return
	}

	article, err := h.services.Article.Update(c.Request.Context(), id, &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /api/admin/articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.services.Article.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Publish handles POST /api/admin/articles/:id/publish
func (h *ArticleHandler) Publish(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	article, err := h.services.Article.Publish(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// StageAutosave handles PUT /api/admin/articles/:id/autosave
func (h *ArticleHandler) StageAutosave(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var in models.ArticleInput
	if !bindAndValidate(c, h.services, &in) {
		return
	}

	if err := h.services.Autosave.Stage(c.Request.Context(), id, &in); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusAccepted, h.services.Autosave.Status(id))
}

// AutosaveStatus handles GET /api/admin/articles/:id/autosave
func (h *ArticleHandler) AutosaveStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.services.Autosave.Status(id))
}
