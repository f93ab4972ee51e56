package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"campus-attendance-svc/src/internal/config"
	"campus-attendance-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Cache is the slice of the session cache this package consumes. Satisfied by
// the cache service; declared here so the cache package can depend on the
// Session type without a cycle.
type Cache interface {
	CacheSession(ctx context.Context, s *Session) error
	InvalidateSession(ctx context.Context, sessionID string) error
}

type Handler interface {
	CreateSession(c *gin.Context)
	EndSession(c *gin.Context)
}

type handler struct {
	config       *config.Configuration
	service      Service
	cacheService Cache
}

func NewHandler(cfg *config.Configuration, service Service, cacheService Cache) Handler {
	return &handler{
		config:       cfg,
		service:      service,
		cacheService: cacheService,
	}
}

func (h *handler) CreateSession(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	// The teacher identity comes from the authenticated context, not the
	// request body.
	req.TeacherID = c.GetString("user_id")

	session, err := h.service.Create(ctx, &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Branch, semester, division and course are required"})
		case models.IsStorageFault(err):
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Storage unavailable, please retry"})
		default:
			logrus.WithError(err).Error("Failed to create session")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	// Best effort: check-ins fall back to the registry on a cache miss.
	h.cacheService.CacheSession(ctx, session)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"sessionId": session.SessionID,
		"expiresAt": session.ExpiresAt,
	})
}

func (h *handler) EndSession(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	var req struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Session ID is required"})
		return
	}

	if err := h.service.End(ctx, req.SessionID); err != nil {
		switch {
		case errors.Is(err, models.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Session not found"})
		case models.IsStorageFault(err):
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Storage unavailable, please retry"})
		default:
			logrus.WithError(err).Error("Failed to end session")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	h.cacheService.InvalidateSession(ctx, req.SessionID)

	c.JSON(http.StatusOK, gin.H{"success": true})
}
