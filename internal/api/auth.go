package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pickteum-api/internal/models"
	"github.com/pickteum-api/internal/service"
	"github.com/rs/zerolog"
)

// sessionKey is the gin context key holding the authenticated *models.Session
const sessionKey = "session"

// AuthHandler handles admin login and logout
type AuthHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		services: services,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

// Login handles POST /api/admin/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindAndValidate(c, h.services, &req) {
		return
	}

	session, err := h.services.Session.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// Logout handles POST /api/admin/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	session := currentSession(c)
	if err := h.services.Session.Logout(c.Request.Context(), session.Token); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Current handles GET /api/admin/session
func (h *AuthHandler) Current(c *gin.Context) {
	session := currentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"username":   session.Username,
		"expires_at": session.ExpiresAt,
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// requireSession rejects requests without a live admin session
func requireSession(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := services.Session.Get(c.Request.Context(), bearerToken(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// cronOrSession accepts either the scheduler trigger token or an admin session.
// An empty configured token disables token access.
func cronOrSession(services *service.Services, triggerToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if given := c.GetHeader("X-Cron-Token"); triggerToken != "" && given != "" {
			if subtle.ConstantTimeCompare([]byte(given), []byte(triggerToken)) == 1 {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		requireSession(services)(c)
	}
}

// currentSession returns the session set by requireSession
func currentSession(c *gin.Context) *models.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*models.Session); ok {
			return s
		}
	}
	return &models.Session{}
}
