package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pickteum-api/internal/service"
	"github.com/pickteum-api/internal/validation"
	"github.com/rs/zerolog"
)

// respondError maps service errors to status codes; anything unrecognised is logged and becomes a 500
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "errors": verrs})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
	case errors.Is(err, service.ErrSlugTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "slug already exists"})
	case errors.Is(err, service.ErrCategoryNameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "category name already exists"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, service.ErrInvalidMedia):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// bindAndValidate decodes the JSON body into dst and runs the struct rules
// idParam returns the :id path parameter, answering 404 when it is not a UUID.
// Every id column is a Postgres uuid, so anything else cannot match a row.
func idParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return "", false
	}
	return id, true
}

func bindAndValidate(c *gin.Context, services *service.Services, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	if err := services.Validator.Struct(dst); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "errors": verrs})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
