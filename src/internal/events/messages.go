package events

import "time"

type SessionEvent struct {
	EventID   string    `json:"event_id"`
	SessionID string    `json:"session_id"`
	TeacherID string    `json:"teacher_id"`
	Branch    string    `json:"branch"`
	Semester  string    `json:"semester"`
	Division  string    `json:"division"`
	Course    string    `json:"course"`
	Timeslot  string    `json:"timeslot"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type CheckInEvent struct {
	EventID    string    `json:"event_id"`
	SessionID  string    `json:"session_id"`
	StudentID  string    `json:"student_id"`
	Course     string    `json:"course"`
	RecordedAt time.Time `json:"recorded_at"`
	Timestamp  time.Time `json:"timestamp"`
}

// Routing key suffixes per event kind
const (
	KeySessionCreated = "session.created"
	KeySessionEnded   = "session.ended"
	KeyCheckIn        = "checkin.accepted"
)
