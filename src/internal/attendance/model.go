package attendance

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

// Record is one check-in in the ledger. Records are append-only: created once
// per accepted check-in, immutable, never deleted. Cohort fields are
// denormalized from the session so reports can filter without a join.
type Record struct {
	ID              primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	SessionID       string             `json:"sessionId" bson:"session_id"`
	StudentID       string             `json:"studentId" bson:"student_id"`
	OriginSignature string             `json:"-" bson:"origin_signature"`
	Course          string             `json:"course" bson:"course"`
	Branch          string             `json:"branch" bson:"branch"`
	Semester        string             `json:"semester" bson:"semester"`
	Division        string             `json:"division" bson:"division"`
	Timeslot        string             `json:"timeslot" bson:"timeslot"`
	RecordedAt      time.Time          `json:"date" bson:"recorded_at"`
	Status          string             `json:"status" bson:"status"`
}

type Outcome string

const (
	OutcomeAccepted      Outcome = "accepted"
	OutcomeAlreadyMarked Outcome = "already_marked"
	OutcomeRejected      Outcome = "rejected"
)

type RejectReason string

const (
	ReasonInvalidSession  RejectReason = "invalid_session"
	ReasonSessionInactive RejectReason = "session_inactive"
	ReasonSessionExpired  RejectReason = "session_expired"
	ReasonDuplicateOrigin RejectReason = "duplicate_origin"
)

// Result is the discriminated outcome of a check-in attempt. AlreadyMarked is
// a success variant: a re-scan by the same student must look identical to the
// first scan from the caller's side.
type Result struct {
	Outcome Outcome      `json:"outcome"`
	Reason  RejectReason `json:"reason,omitempty"`
}

func (r *Result) Success() bool {
	return r.Outcome == OutcomeAccepted || r.Outcome == OutcomeAlreadyMarked
}

// Message returns the student-facing text for this result.
func (r *Result) Message() string {
	switch r.Outcome {
	case OutcomeAccepted:
		return "Attendance marked successfully"
	case OutcomeAlreadyMarked:
		return "Attendance already marked"
	}

	switch r.Reason {
	case ReasonInvalidSession:
		return "Invalid Session ID"
	case ReasonSessionInactive:
		return "Session is inactive"
	case ReasonSessionExpired:
		return "Session expired"
	case ReasonDuplicateOrigin:
		return "Proxy Alert: This device has already marked attendance for this session!"
	}
	return "Attendance could not be marked"
}

func accepted() *Result {
	return &Result{Outcome: OutcomeAccepted}
}

func alreadyMarked() *Result {
	return &Result{Outcome: OutcomeAlreadyMarked}
}

func rejected(reason RejectReason) *Result {
	return &Result{Outcome: OutcomeRejected, Reason: reason}
}
