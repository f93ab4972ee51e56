package report

import (
	"context"

	"campus-attendance-svc/src/internal/attendance"
	"campus-attendance-svc/src/internal/roster"
	"campus-attendance-svc/src/internal/session"

	"github.com/sirupsen/logrus"
)

type Service interface {
	LiveRoster(ctx context.Context, sessionID string) (*LiveRoster, error)
	HistoricalReport(ctx context.Context, req *ReportRequest) (*Report, error)
}

type service struct {
	sessions   session.Service
	roster     roster.Repository
	attendance attendance.Repository
}

func NewService(sessions session.Service, rosterRepo roster.Repository, attendanceRepo attendance.Repository) Service {
	return &service{
		sessions:   sessions,
		roster:     rosterRepo,
		attendance: attendanceRepo,
	}
}

// LiveRoster joins the session's cohort against the ledger. It reads storage
// on every call; the view is polled while a session is open and must always
// be fresh.
func (s *service) LiveRoster(ctx context.Context, sessionID string) (*LiveRoster, error) {
	ses, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	students, err := s.roster.ListStudentsByCohort(ctx, ses.Cohort())
	if err != nil {
		return nil, err
	}

	records, err := s.attendance.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(records))
	for _, record := range records {
		present[record.StudentID] = true
	}

	view := &LiveRoster{
		Session:     ses,
		StudentList: make([]RosterEntry, 0, len(students)),
		TotalCount:  len(students),
	}

	for _, student := range students {
		status := attendance.StatusAbsent
		if present[student.StudentID] {
			status = attendance.StatusPresent
			view.PresentCount++
		}
		view.StudentList = append(view.StudentList, RosterEntry{
			StudentID: student.StudentID,
			Name:      student.Name,
			Status:    status,
		})
	}

	return view, nil
}

// HistoricalReport reports Present/Absent for every student matching the
// cohort filters against the day's ledger records. The summary is derived
// from the entries so total always equals present plus absent.
func (s *service) HistoricalReport(ctx context.Context, req *ReportRequest) (*Report, error) {
	students, err := s.roster.ListStudents(ctx, req.Semester, req.Division)
	if err != nil {
		return nil, err
	}

	records, err := s.attendance.ListForDay(ctx, &attendance.DayQuery{
		Day:      req.Day,
		Course:   req.Course,
		Timeslot: req.Timeslot,
		Semester: req.Semester,
		Division: req.Division,
	})
	if err != nil {
		return nil, err
	}

	statusByStudent := make(map[string]string, len(records))
	for _, record := range records {
		statusByStudent[record.StudentID] = record.Status
	}

	courseLabel := req.Course
	if courseLabel == "" {
		courseLabel = "All"
	}

	result := &Report{Data: make([]ReportEntry, 0, len(students))}
	for _, student := range students {
		status, ok := statusByStudent[student.StudentID]
		if !ok {
			status = attendance.StatusAbsent
		}
		result.Data = append(result.Data, ReportEntry{
			StudentID: student.StudentID,
			Name:      student.Name,
			Division:  student.Division,
			Course:    courseLabel,
			Status:    status,
		})

		if status == attendance.StatusPresent {
			result.Summary.Present++
		} else {
			result.Summary.Absent++
		}
		result.Summary.Total++
	}

	logrus.WithFields(logrus.Fields{
		"day":     req.Day.Format("2006-01-02"),
		"total":   result.Summary.Total,
		"present": result.Summary.Present,
		"absent":  result.Summary.Absent,
	}).Debug("Historical report built")

	return result, nil
}
