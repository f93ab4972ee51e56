package session

import (
	"context"
	"errors"
	"time"

	"campus-attendance-svc/src/internal/config"
	"campus-attendance-svc/src/internal/events"
	"campus-attendance-svc/src/internal/models"

	"github.com/sirupsen/logrus"
)

// tokenRetries bounds the re-roll loop on a token collision. A collision is
// astronomically unlikely with 36^9 tokens, so hitting the bound means the
// random source is broken.
const tokenRetries = 5

type Service interface {
	Create(ctx context.Context, req *CreateRequest) (*Session, error)
	Get(ctx context.Context, sessionID string) (*Session, error)
	Peek(ctx context.Context, sessionID string) (*Session, error)
	Expire(ctx context.Context, sessionID string) error
	End(ctx context.Context, sessionID string) error
}

type service struct {
	repository Repository
	publisher  events.Publisher
	window     time.Duration
	now        func() time.Time
}

func NewService(repository Repository, publisher events.Publisher, cfg *config.Configuration) Service {
	return &service{
		repository: repository,
		publisher:  publisher,
		window:     time.Duration(cfg.Session.WindowSeconds) * time.Second,
		now:        time.Now,
	}
}

func (s *service) Create(ctx context.Context, req *CreateRequest) (*Session, error) {
	if !req.Cohort().IsComplete() || req.Course == "" {
		return nil, models.ErrInvalidInput
	}

	now := s.now()
	session := &Session{
		TeacherID: req.TeacherID,
		Branch:    req.Branch,
		Semester:  req.Semester,
		Division:  req.Division,
		Course:    req.Course,
		Timeslot:  req.Timeslot,
		Active:    true,
		CreatedAt: now,
		ExpiresAt: now.Add(s.window),
	}

	for attempt := 0; attempt < tokenRetries; attempt++ {
		token, err := NewToken()
		if err != nil {
			logrus.WithError(err).Error("Failed to generate session token")
			return nil, models.ErrSessionCreating
		}
		session.SessionID = token

		err = s.repository.Insert(ctx, session)
		if err == nil {
			logrus.WithFields(logrus.Fields{
				"session_id": session.SessionID,
				"teacher_id": session.TeacherID,
				"course":     session.Course,
				"expires_at": session.ExpiresAt,
			}).Info("Session created")

			s.publisher.SessionCreated(events.SessionEvent{
				SessionID: session.SessionID,
				TeacherID: session.TeacherID,
				Branch:    session.Branch,
				Semester:  session.Semester,
				Division:  session.Division,
				Course:    session.Course,
				Timeslot:  session.Timeslot,
				ExpiresAt: session.ExpiresAt,
			})
			return session, nil
		}
		if !errors.Is(err, models.ErrDuplicateRecord) {
			return nil, err
		}
		logrus.WithField("session_id", session.SessionID).Warn("Session token collision, regenerating")
	}

	return nil, models.ErrSessionCreating
}

// Get returns the session and applies the lazy expiry transition: the first
// reader that observes an active session past its window flips it to expired.
func (s *service) Get(ctx context.Context, sessionID string) (*Session, error) {
	session, err := s.repository.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Active && session.ExpiredAt(s.now()) {
		if err := s.Expire(ctx, sessionID); err != nil {
			return nil, err
		}
		session.Active = false
	}

	return session, nil
}

// Peek returns the stored session state without applying the expiry
// transition. Callers that need to distinguish an explicitly ended session
// from one whose window just closed read through Peek and trigger Expire
// themselves.
func (s *service) Peek(ctx context.Context, sessionID string) (*Session, error) {
	return s.repository.GetByID(ctx, sessionID)
}

// Expire flips an open session whose window has closed. Terminal: nothing
// ever sets active back to true.
func (s *service) Expire(ctx context.Context, sessionID string) error {
	if _, err := s.repository.Deactivate(ctx, sessionID); err != nil {
		return err
	}
	logrus.WithField("session_id", sessionID).Info("Session expired")
	return nil
}

// End deactivates in a single round trip; the published event is fed from the
// document that operation returned.
func (s *service) End(ctx context.Context, sessionID string) error {
	session, err := s.repository.Deactivate(ctx, sessionID)
	if err != nil {
		return err
	}

	logrus.WithField("session_id", sessionID).Info("Session ended")

	s.publisher.SessionEnded(events.SessionEvent{
		SessionID: session.SessionID,
		TeacherID: session.TeacherID,
		Branch:    session.Branch,
		Semester:  session.Semester,
		Division:  session.Division,
		Course:    session.Course,
		Timeslot:  session.Timeslot,
	})

	return nil
}
