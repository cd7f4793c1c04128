package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pickteum-api/internal/config"
	"github.com/pickteum-api/internal/service"
	"github.com/rs/zerolog"
)

// multipartOverhead is allowed on top of the file size for form boundaries and headers
const multipartOverhead = 1 << 20

// MediaHandler handles media upload endpoints
type MediaHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "media").Logger(),
	}
}

// Upload handles POST /api/admin/media (multipart field "file")
func (h *MediaHandler) Upload(c *gin.Context) {
	maxSize := h.cfg.Media.MaxUploadSize
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+multipartOverhead)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file upload is required"})
		return
	}
	defer file.Close()

	// Validate file size
	if header.Size > maxSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("file too large, max size is %d MB", maxSize/(1024*1024)),
		})
		return
	}

	asset, err := h.services.Media.Upload(c.Request.Context(), &service.UploadRequest{
		Body:       file,
		FileName:   header.Filename,
		Size:       header.Size,
		UploadedBy: currentSession(c).Username,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, asset)
}

// List handles GET /api/admin/media?page=&limit=
func (h *MediaHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	assets, err := h.services.Media.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"media": assets})
}

// Delete handles DELETE /api/admin/media/:id
func (h *MediaHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.services.Media.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
