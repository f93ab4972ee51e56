package session

import (
	"time"

	"campus-attendance-svc/src/internal/roster"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session is a time-bounded attendance session opened by a teacher. Active is
// true only while the session window is open; once it drops to false it never
// returns to true. Sessions are retained after expiry for reporting.
type Session struct {
	ID        primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	SessionID string             `json:"sessionId" bson:"session_id"`
	TeacherID string             `json:"teacherId" bson:"teacher_id"`
	Branch    string             `json:"branch" bson:"branch"`
	Semester  string             `json:"semester" bson:"semester"`
	Division  string             `json:"division" bson:"division"`
	Course    string             `json:"course" bson:"course"`
	Timeslot  string             `json:"timeslot" bson:"timeslot"`
	Active    bool               `json:"active" bson:"active"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	ExpiresAt time.Time          `json:"expiresAt" bson:"expires_at"`
}

func (s *Session) Cohort() roster.Cohort {
	return roster.Cohort{Branch: s.Branch, Semester: s.Semester, Division: s.Division}
}

// ExpiredAt reports whether the session window has closed at the given time.
func (s *Session) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// CreateRequest carries the teacher's input for opening a session.
type CreateRequest struct {
	TeacherID string `json:"teacherId"`
	Branch    string `json:"branch"`
	Semester  string `json:"semester"`
	Division  string `json:"division"`
	Course    string `json:"course"`
	Timeslot  string `json:"timeslot"`
}

func (r *CreateRequest) Cohort() roster.Cohort {
	return roster.Cohort{Branch: r.Branch, Semester: r.Semester, Division: r.Division}
}
