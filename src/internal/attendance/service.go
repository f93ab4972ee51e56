package attendance

import (
	"context"
	"errors"
	"time"

	"campus-attendance-svc/src/internal/cache"
	"campus-attendance-svc/src/internal/config"
	"campus-attendance-svc/src/internal/events"
	"campus-attendance-svc/src/internal/models"
	"campus-attendance-svc/src/internal/session"

	"github.com/sirupsen/logrus"
)

type Service interface {
	CheckIn(ctx context.Context, sessionID, studentID, originSignature string) (*Result, error)
	History(ctx context.Context, studentID string) ([]*Record, error)
}

type service struct {
	repository      Repository
	sessions        session.Service
	cacheService    cache.Service
	publisher       events.Publisher
	skipOriginCheck bool
	locks           *sessionLocks
	now             func() time.Time
}

func NewService(repository Repository, sessions session.Service, cacheService cache.Service,
	publisher events.Publisher, cfg *config.Configuration) Service {
	return &service{
		repository:      repository,
		sessions:        sessions,
		cacheService:    cacheService,
		publisher:       publisher,
		skipOriginCheck: cfg.Attendance.SkipOriginCheck,
		locks:           newSessionLocks(),
		now:             time.Now,
	}
}

// CheckIn validates a check-in attempt and appends a ledger record when it is
// accepted. The checks run in a fixed order so a re-scan by the same student
// reads as AlreadyMarked before the origin check can flag it as a proxy.
// Everything from the session lookup to the append holds the per-session lock
// so two concurrent attempts cannot both pass the duplicate checks.
func (s *service) CheckIn(ctx context.Context, sessionID, studentID, originSignature string) (*Result, error) {
	if sessionID == "" || studentID == "" {
		return nil, models.ErrInvalidInput
	}

	release := s.locks.Acquire(sessionID)
	defer release()

	ses, err := s.lookupSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			return rejected(ReasonInvalidSession), nil
		}
		return nil, err
	}

	if !ses.Active {
		return rejected(ReasonSessionInactive), nil
	}

	if ses.ExpiredAt(s.now()) {
		if err := s.sessions.Expire(ctx, sessionID); err != nil {
			return nil, err
		}
		s.cacheService.InvalidateSession(ctx, sessionID)
		return rejected(ReasonSessionExpired), nil
	}

	existing, err := s.repository.FindBySessionAndStudent(ctx, sessionID, studentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return alreadyMarked(), nil
	}

	if !s.skipOriginCheck {
		origin, err := s.repository.FindBySessionAndOrigin(ctx, sessionID, originSignature)
		if err != nil {
			return nil, err
		}
		if origin != nil && origin.StudentID != studentID {
			logrus.WithFields(logrus.Fields{
				"session_id": sessionID,
				"student_id": studentID,
				"origin":     originSignature,
			}).Warn("Duplicate origin check-in blocked")
			return rejected(ReasonDuplicateOrigin), nil
		}
	}

	record := &Record{
		SessionID:       sessionID,
		StudentID:       studentID,
		OriginSignature: originSignature,
		Course:          ses.Course,
		Branch:          ses.Branch,
		Semester:        ses.Semester,
		Division:        ses.Division,
		Timeslot:        ses.Timeslot,
		RecordedAt:      s.now(),
		Status:          StatusPresent,
	}

	if err := s.repository.Insert(ctx, record); err != nil {
		if errors.Is(err, models.ErrDuplicateRecord) {
			return s.resolveDuplicate(ctx, sessionID, studentID)
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"session_id": sessionID,
		"student_id": studentID,
	}).Info("Attendance marked")

	s.publisher.CheckInAccepted(events.CheckInEvent{
		SessionID:  sessionID,
		StudentID:  studentID,
		Course:     ses.Course,
		RecordedAt: record.RecordedAt,
	})

	return accepted(), nil
}

// resolveDuplicate maps a unique-index violation on insert to an outcome: a
// concurrent writer for the same student lost the race (AlreadyMarked), while
// a violation of the origin index means another identity got there first.
func (s *service) resolveDuplicate(ctx context.Context, sessionID, studentID string) (*Result, error) {
	existing, err := s.repository.FindBySessionAndStudent(ctx, sessionID, studentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return alreadyMarked(), nil
	}
	return rejected(ReasonDuplicateOrigin), nil
}

// lookupSession reads the session from the cache first, falling back to the
// registry. Cache failures degrade to a registry read, never to a rejection.
// The check-in path never writes to the cache: only session creation does.
// Re-caching here could race an explicit end-session, putting a stale active
// copy back after the invalidation already ran.
func (s *service) lookupSession(ctx context.Context, sessionID string) (*session.Session, error) {
	cached, err := s.cacheService.GetSession(ctx, sessionID)
	if err == nil && cached != nil {
		return cached, nil
	}

	return s.sessions.Peek(ctx, sessionID)
}

func (s *service) History(ctx context.Context, studentID string) ([]*Record, error) {
	if studentID == "" {
		return nil, models.ErrInvalidInput
	}
	return s.repository.ListByStudent(ctx, studentID)
}
