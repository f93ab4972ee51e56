package report

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

type Handler interface {
	GetSession(c *gin.Context)
	TeacherReport(c *gin.Context)
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

// GetSession serves the live view the teacher dashboard polls while a session
// is open.
func (h *handler) GetSession(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	sessionID := c.Param("sessionId")

	view, err := h.service.LiveRoster(ctx, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Session not found"})
		case models.IsStorageFault(err):
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Storage unavailable, please retry"})
		default:
			logrus.WithError(err).Error("Failed to build live roster")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": gin.H{
			"sessionId":    view.Session.SessionID,
			"teacherId":    view.Session.TeacherID,
			"branch":       view.Session.Branch,
			"semester":     view.Session.Semester,
			"division":     view.Session.Division,
			"course":       view.Session.Course,
			"timeslot":     view.Session.Timeslot,
			"active":       view.Session.Active,
			"createdAt":    view.Session.CreatedAt,
			"expiresAt":    view.Session.ExpiresAt,
			"studentList":  view.StudentList,
			"presentCount": view.PresentCount,
			"totalCount":   view.TotalCount,
		},
	})
}

type teacherReportRequest struct {
	Date     string `json:"date"`
	Course   string `json:"course"`
	Timeslot string `json:"timeslot"`
	Semester string `json:"semester"`
	Division string `json:"division"`
}

func (h *handler) TeacherReport(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	var req teacherReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	day, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	result, err := h.service.HistoricalReport(ctx, &ReportRequest{
		Day:      day,
		Course:   req.Course,
		Timeslot: req.Timeslot,
		Semester: req.Semester,
		Division: req.Division,
	})
	if err != nil {
		if models.IsStorageFault(err) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Storage unavailable, please retry"})
			return
		}
		logrus.WithError(err).Error("Failed to build report")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Data,
		"summary": result.Summary,
	})
}
