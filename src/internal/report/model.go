package report

import (
	"time"

	"campus-attendance-svc/src/internal/session"
)

type RosterEntry struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Status    string `json:"status"`
}

// LiveRoster is the instructor's view of one session: every student in the
// cohort with a Present/Absent status. Polled while the session is open, so
// each instance is a fresh snapshot.
type LiveRoster struct {
	Session      *session.Session `json:"session"`
	StudentList  []RosterEntry    `json:"studentList"`
	PresentCount int              `json:"presentCount"`
	TotalCount   int              `json:"totalCount"`
}

// ReportRequest selects one calendar day of ledger records. Empty filter
// fields mean no restriction.
type ReportRequest struct {
	Day      time.Time
	Course   string
	Timeslot string
	Semester string
	Division string
}

type ReportEntry struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Division  string `json:"division"`
	Course    string `json:"course"`
	Status    string `json:"status"`
}

type Summary struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Absent  int `json:"absent"`
}

type Report struct {
	Data    []ReportEntry `json:"data"`
	Summary Summary       `json:"summary"`
}
