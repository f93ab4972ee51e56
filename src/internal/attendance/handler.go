package attendance

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"campus-attendance-svc/src/internal/config"
	"campus-attendance-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler interface {
	MarkAttendance(c *gin.Context)
	StudentHistory(c *gin.Context)
}

type handler struct {
	config  *config.Configuration
	service Service
}

func NewHandler(cfg *config.Configuration, service Service) Handler {
	return &handler{
		config:  cfg,
		service: service,
	}
}

type markAttendanceRequest struct {
	SessionID string `json:"sessionId"`
	StudentID string `json:"studentId"`
}

func (h *handler) MarkAttendance(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	var req markAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	origin := originSignature(c)

	result, err := h.service.CheckIn(ctx, req.SessionID, req.StudentID, origin)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Session ID and student ID are required"})
		case models.IsStorageFault(err):
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Storage unavailable, please retry"})
		default:
			logrus.WithError(err).Error("Check-in failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	response := gin.H{
		"success": result.Success(),
		"message": result.Message(),
	}
	if result.Outcome == OutcomeAlreadyMarked {
		response["alreadyMarked"] = true
	}

	c.JSON(http.StatusOK, response)
}

func (h *handler) StudentHistory(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	studentID := c.Param("studentId")

	// Students may only read their own ledger.
	if studentID != c.GetString("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Access forbidden"})
		return
	}

	history, err := h.service.History(ctx, studentID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Student ID is required"})
		case models.IsStorageFault(err):
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Storage unavailable, please retry"})
		default:
			logrus.WithError(err).Error("Failed to get student history")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	if history == nil {
		history = []*Record{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"history": history,
	})
}

// originSignature fingerprints the submitting client's network origin:
// X-Forwarded-For when behind a proxy, else the remote address.
func originSignature(c *gin.Context) string {
	origin := c.GetHeader("X-Forwarded-For")
	if origin != "" {
		// First hop only
		if idx := strings.Index(origin, ","); idx != -1 {
			origin = origin[:idx]
		}
		origin = strings.TrimSpace(origin)
	} else {
		origin = c.Request.RemoteAddr
		if host, _, err := net.SplitHostPort(origin); err == nil {
			origin = host
		}
	}

	if origin == "::1" {
		origin = "127.0.0.1"
	}

	return origin
}
