package auth

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
	TeacherLogin(c *gin.Context)
	StudentLogin(c *gin.Context)
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

type teacherLoginRequest struct {
	TeacherID string `json:"teacherId"`
	Password  string `json:"password"`
}

type studentLoginRequest struct {
	StudentID string `json:"studentId"`
	Password  string `json:"password"`
}

func (h *handler) TeacherLogin(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	var req teacherLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	teacher, token, err := h.service.TeacherLogin(ctx, req.TeacherID, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrTeacherNotFound):
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Teacher ID not found"})
		case errors.Is(err, models.ErrInvalidPassword):
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid Password"})
		case errors.Is(err, models.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Teacher ID and password are required"})
		case models.IsStorageFault(err):
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Storage unavailable, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"message":         "Login Successful",
		"token":           token,
		"teacherId":       teacher.TeacherID,
		"name":            teacher.Name,
		"department":      teacher.Department,
		"assignedCourses": teacher.AssignedCourses,
	})
}

func (h *handler) StudentLogin(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	var req studentLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	student, token, err := h.service.StudentLogin(ctx, req.StudentID, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidStudentID):
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid SRN format. Example: 02FE24BCS410"})
		case errors.Is(err, models.ErrStudentNotFound):
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Student ID not found"})
		case errors.Is(err, models.ErrInvalidPassword):
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid Password"})
		case errors.Is(err, models.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Student ID and password are required"})
		case models.IsStorageFault(err):
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Storage unavailable, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	logrus.WithField("student_id", student.StudentID).Debug("Student login response sent")

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Login Successful",
		"token":     token,
		"studentId": student.StudentID,
	})
}
