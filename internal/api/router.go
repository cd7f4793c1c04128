package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pickteum-api/internal/config"
	"github.com/pickteum-api/internal/service"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	authHandler := NewAuthHandler(services, log)
	articleHandler := NewArticleHandler(services, log)
	feedHandler := NewFeedHandler(services, log)
	categoryHandler := NewCategoryHandler(services, log)
	mediaHandler := NewMediaHandler(services, cfg, log)
	scheduleHandler := NewScheduleHandler(services, log)
	exportHandler := NewExportHandler(services, log)

	// Health check
	router.GET("/health", healthCheck(services))
	router.GET("/metrics", metricsHandler(services))

	api := router.Group("/api")
	{
		// Public reads
		api.GET("/articles", feedHandler.GetFeed)
		api.GET("/articles/:slug", articleHandler.GetPublished)
		api.GET("/categories", categoryHandler.List)

		// Scheduled publishing, triggered by the cron token or an admin session
		api.POST("/posts/publish-scheduled",
			cronOrSession(services, cfg.Scheduler.TriggerToken),
			scheduleHandler.PublishScheduled,
		)

		api.POST("/admin/login", authHandler.Login)

		admin := api.Group("/admin", requireSession(services))
		{
			admin.POST("/logout", authHandler.Logout)
			admin.GET("/session", authHandler.Current)

			articles := admin.Group("/articles")
			{
				articles.GET("", articleHandler.List)
				articles.POST("", articleHandler.Create)
				articles.GET("/:id", articleHandler.Get)
				articles.PUT("/:id", articleHandler.Update)
				articles.DELETE("/:id", articleHandler.Delete)
				articles.POST("/:id/publish", articleHandler.Publish)
				articles.PUT("/:id/autosave", articleHandler.StageAutosave)
				articles.GET("/:id/autosave", articleHandler.AutosaveStatus)
			}

			categories := admin.Group("/categories")
			{
				categories.POST("", categoryHandler.Create)
				categories.PUT("/:id", categoryHandler.Update)
				categories.DELETE("/:id", categoryHandler.Delete)
			}

			media := admin.Group("/media")
			{
				media.GET("", mediaHandler.List)
				media.POST("", mediaHandler.Upload)
				media.DELETE("/:id", mediaHandler.Delete)
			}

			admin.GET("/export/articles", exportHandler.StreamExport)
		}
	}

	return router
}

// healthCheck returns the health status, pinging the database when one is attached
func healthCheck(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if services.Database != nil {
			ctx, cancel := contextWithTimeout(c, 2*time.Second)
			defer cancel()
			if err := services.Database.HealthCheck(ctx); err != nil {
				status, code = "unhealthy", http.StatusServiceUnavailable
			}
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "pickteum-api",
		})
	}
}

// metricsHandler returns article counts per status
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, err := services.Export.GetCounts(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to read article counts"})
			return
		}

		total := 0
		for _, n := range counts {
			total += n
		}

		body := gin.H{
			"articles":  counts,
			"total":     total,
			"timestamp": time.Now().Format(time.RFC3339),
		}
		if services.Database != nil {
			stats := services.Database.Stats()
			body["db"] = gin.H{
				"open_connections": stats.OpenConnections,
				"in_use":           stats.InUse,
				"idle":             stats.Idle,
				"wait_count":       stats.WaitCount,
			}
		}

		c.JSON(http.StatusOK, body)
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Cron-Token")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// contextWithTimeout creates a context with timeout for handlers
func contextWithTimeout(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}
