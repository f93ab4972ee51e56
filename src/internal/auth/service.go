package auth

import (
	"context"
	"regexp"
	"time"

	"campus-attendance-svc/src/internal/config"
	"campus-attendance-svc/src/internal/middleware"
	"campus-attendance-svc/src/internal/models"
	"campus-attendance-svc/src/internal/roster"

	"github.com/sirupsen/logrus"
)

// srnPattern is the institutional roll-number shape, e.g. 02FE24BCS410.
// The prefix is accepted case-insensitively, as students type it by hand.
var srnPattern = regexp.MustCompile(`(?i)^02FE(22|23|24|25)[A-Z]{3}\d{3}$`)

type Service interface {
	TeacherLogin(ctx context.Context, teacherID, password string) (*roster.Teacher, string, error)
	StudentLogin(ctx context.Context, studentID, password string) (*roster.Student, string, error)
}

type service struct {
	roster      roster.Repository
	jwtKey      string
	tokenExpiry time.Duration
}

func NewService(rosterRepo roster.Repository, cfg *config.Configuration) Service {
	return &service{
		roster:      rosterRepo,
		jwtKey:      cfg.Security.JwtKey,
		tokenExpiry: time.Duration(cfg.Security.TokenExpiryMinutes) * time.Minute,
	}
}

func (s *service) TeacherLogin(ctx context.Context, teacherID, password string) (*roster.Teacher, string, error) {
	if teacherID == "" || password == "" {
		return nil, "", models.ErrInvalidInput
	}

	teacher, err := s.roster.GetTeacher(ctx, teacherID)
	if err != nil {
		return nil, "", err
	}

	if teacher.Password != password {
		return nil, "", models.ErrInvalidPassword
	}

	token, err := middleware.NewAccessToken(s.jwtKey, teacher.TeacherID, teacher.Name, middleware.RoleTeacher, s.tokenExpiry)
	if err != nil {
		logrus.WithError(err).WithField("teacher_id", teacherID).Error("Failed to sign access token")
		return nil, "", err
	}

	logrus.WithField("teacher_id", teacherID).Info("Teacher logged in")
	return teacher, token, nil
}

func (s *service) StudentLogin(ctx context.Context, studentID, password string) (*roster.Student, string, error) {
	if studentID == "" || password == "" {
		return nil, "", models.ErrInvalidInput
	}

	if !srnPattern.MatchString(studentID) {
		return nil, "", models.ErrInvalidStudentID
	}

	student, err := s.roster.GetStudent(ctx, studentID)
	if err != nil {
		return nil, "", err
	}

	if student.Password != password {
		return nil, "", models.ErrInvalidPassword
	}

	token, err := middleware.NewAccessToken(s.jwtKey, student.StudentID, student.Name, middleware.RoleStudent, s.tokenExpiry)
	if err != nil {
		logrus.WithError(err).WithField("student_id", studentID).Error("Failed to sign access token")
		return nil, "", err
	}

	logrus.WithField("student_id", studentID).Info("Student logged in")
	return student, token, nil
}
