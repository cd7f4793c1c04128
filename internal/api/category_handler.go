package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pickteum-api/internal/models"
	"github.com/pickteum-api/internal/service"
	"github.com/rs/zerolog"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(services *service.Services, log zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		services: services,
		log:      log.With().Str("handler", "category").Logger(),
	}
}

// List handles GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.services.Category.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Create handles POST /api/admin/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var in models.CategoryInput
	if !bindAndValidate(c, h.services, &in) {
		return
	}

	category, err := h.services.Category.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// Update handles PUT /api/admin/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var in models.CategoryInput
	if !bindAndValidate(c, h.services, &in) {
		return
	}

	category, err := h.services.Category.Update(c.Request.Context(), id, &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// Delete handles DELETE /api/admin/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.services.Category.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
