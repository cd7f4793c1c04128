package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pickteum-api/internal/service"
	"github.com/rs/zerolog"
)

// ExportHandler handles export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// StreamExport handles GET /api/admin/export/articles?format=...
// Streams the export directly to the response
func (h *ExportHandler) StreamExport(c *gin.Context) {
	ctx := c.Request.Context()

	format := c.Query("format")
	if format == "" {
		format = "ndjson" // Default to NDJSON for streaming
	}
	if !service.ExportFormats[format] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: ndjson, json, csv"})
		return
	}

	h.log.Info().
		Str("format", format).
		Str("requested_by", currentSession(c).Username).
		Msg("Starting streaming export")

	if err := h.services.Export.StreamArticles(ctx, c.Writer, format); err != nil {
		h.log.Error().Err(err).Str("format", format).Msg("Export failed")
		// Can't return error JSON after streaming has started
		return
	}
}
