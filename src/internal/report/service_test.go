package report

import (
	"context"
	"fmt"
	"testing"
	"time"

	"campus-attendance-svc/src/internal/attendance"
	"campus-attendance-svc/src/internal/models"
	"campus-attendance-svc/src/internal/roster"
	"campus-attendance-svc/src/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	sessions map[string]*session.Session
}

func (f *fakeSessions) Create(ctx context.Context, req *session.CreateRequest) (*session.Session, error) {
	panic("not used")
}

func (f *fakeSessions) Get(ctx context.Context, sessionID string) (*session.Session, error) {
	stored, ok := f.sessions[sessionID]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	return stored, nil
}

func (f *fakeSessions) Peek(ctx context.Context, sessionID string) (*session.Session, error) {
	return f.Get(ctx, sessionID)
}

func (f *fakeSessions) Expire(ctx context.Context, sessionID string) error { return nil }
func (f *fakeSessions) End(ctx context.Context, sessionID string) error    { return nil }

type fakeRoster struct {
	students []*roster.Student
}

func (f *fakeRoster) GetStudent(ctx context.Context, studentID string) (*roster.Student, error) {
	for _, s := range f.students {
		if s.StudentID == studentID {
			return s, nil
		}
	}
	return nil, models.ErrStudentNotFound
}

func (f *fakeRoster) GetTeacher(ctx context.Context, teacherID string) (*roster.Teacher, error) {
	return nil, models.ErrTeacherNotFound
}

func (f *fakeRoster) ListStudentsByCohort(ctx context.Context, cohort roster.Cohort) ([]*roster.Student, error) {
	var out []*roster.Student
	for _, s := range f.students {
		if s.Cohort() == cohort {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRoster) ListStudents(ctx context.Context, semester, division string) ([]*roster.Student, error) {
	var out []*roster.Student
	for _, s := range f.students {
		if semester != "" && s.Semester != semester {
			continue
		}
		if division != "" && s.Division != division {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeRoster) UpsertStudent(ctx context.Context, student *roster.Student) error { return nil }
func (f *fakeRoster) UpsertTeacher(ctx context.Context, teacher *roster.Teacher) error { return nil }
func (f *fakeRoster) EnsureIndexes(ctx context.Context) error                          { return nil }

type memLedger struct {
	records []*attendance.Record
}

func (m *memLedger) Insert(ctx context.Context, record *attendance.Record) error {
	m.records = append(m.records, record)
	return nil
}

func (m *memLedger) FindBySessionAndStudent(ctx context.Context, sessionID, studentID string) (*attendance.Record, error) {
	return nil, nil
}

func (m *memLedger) FindBySessionAndOrigin(ctx context.Context, sessionID, origin string) (*attendance.Record, error) {
	return nil, nil
}

func (m *memLedger) ListBySession(ctx context.Context, sessionID string) ([]*attendance.Record, error) {
	var out []*attendance.Record
	for _, r := range m.records {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memLedger) ListByStudent(ctx context.Context, studentID string) ([]*attendance.Record, error) {
	return nil, nil
}

func (m *memLedger) ListForDay(ctx context.Context, query *attendance.DayQuery) ([]*attendance.Record, error) {
	start := time.Date(query.Day.Year(), query.Day.Month(), query.Day.Day(), 0, 0, 0, 0, query.Day.Location())
	end := start.Add(24 * time.Hour)

	var out []*attendance.Record
	for _, r := range m.records {
		if r.RecordedAt.Before(start) || !r.RecordedAt.Before(end) {
			continue
		}
		if query.Course != "" && r.Course != query.Course {
			continue
		}
		if query.Timeslot != "" && r.Timeslot != query.Timeslot {
			continue
		}
		if query.Semester != "" && r.Semester != query.Semester {
			continue
		}
		if query.Division != "" && r.Division != query.Division {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memLedger) EnsureIndexes(ctx context.Context) error { return nil }

var testDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func cohortStudents(n int) []*roster.Student {
	students := make([]*roster.Student, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("02FE24BCS%03d", 410+i)
		students = append(students, &roster.Student{
			StudentID: id,
			Name:      "Student " + id,
			Branch:    "BCS",
			Semester:  "5",
			Division:  "A",
		})
	}
	return students
}

func openSession(id string) *session.Session {
	return &session.Session{
		SessionID: id,
		TeacherID: "T001",
		Branch:    "BCS",
		Semester:  "5",
		Division:  "A",
		Course:    "Software Engineering",
		Timeslot:  "08:00-09:00",
		Active:    true,
		CreatedAt: testDay.Add(8 * time.Hour),
		ExpiresAt: testDay.Add(8*time.Hour + time.Minute),
	}
}

func presentRecord(sessionID, studentID string) *attendance.Record {
	return &attendance.Record{
		SessionID:  sessionID,
		StudentID:  studentID,
		Course:     "Software Engineering",
		Branch:     "BCS",
		Semester:   "5",
		Division:   "A",
		Timeslot:   "08:00-09:00",
		RecordedAt: testDay.Add(8*time.Hour + 10*time.Second),
		Status:     attendance.StatusPresent,
	}
}

func TestLiveRoster(t *testing.T) {
	sessions := &fakeSessions{sessions: map[string]*session.Session{
		"SES-AAAAAAAAA": openSession("SES-AAAAAAAAA"),
	}}
	ledger := &memLedger{records: []*attendance.Record{
		presentRecord("SES-AAAAAAAAA", "02FE24BCS410"),
	}}
	svc := NewService(sessions, &fakeRoster{students: cohortStudents(10)}, ledger)

	view, err := svc.LiveRoster(context.Background(), "SES-AAAAAAAAA")
	require.NoError(t, err)

	assert.Equal(t, 1, view.PresentCount)
	assert.Equal(t, 10, view.TotalCount)
	require.Len(t, view.StudentList, 10)

	absent := 0
	for _, entry := range view.StudentList {
		if entry.Status == attendance.StatusAbsent {
			absent++
		}
	}
	assert.Equal(t, view.TotalCount, view.PresentCount+absent)
}

func TestLiveRosterIsFresh(t *testing.T) {
	sessions := &fakeSessions{sessions: map[string]*session.Session{
		"SES-AAAAAAAAA": openSession("SES-AAAAAAAAA"),
	}}
	ledger := &memLedger{}
	svc := NewService(sessions, &fakeRoster{students: cohortStudents(3)}, ledger)

	view, err := svc.LiveRoster(context.Background(), "SES-AAAAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, 0, view.PresentCount)

	// A check-in lands between two polls; the next snapshot must see it.
	require.NoError(t, ledger.Insert(context.Background(), presentRecord("SES-AAAAAAAAA", "02FE24BCS411")))

	view, err = svc.LiveRoster(context.Background(), "SES-AAAAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, 1, view.PresentCount)
}

func TestLiveRosterUnknownSession(t *testing.T) {
	svc := NewService(&fakeSessions{sessions: map[string]*session.Session{}}, &fakeRoster{}, &memLedger{})

	_, err := svc.LiveRoster(context.Background(), "SES-NOSUCHSES")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestHistoricalReport(t *testing.T) {
	students := cohortStudents(5)
	students = append(students, &roster.Student{
		StudentID: "02FE24BCS415_3",
		Name:      "Student 02FE24BCS415_3",
		Branch:    "BCS",
		Semester:  "3",
		Division:  "B",
	})

	ledger := &memLedger{records: []*attendance.Record{
		presentRecord("SES-AAAAAAAAA", "02FE24BCS410"),
		presentRecord("SES-AAAAAAAAA", "02FE24BCS411"),
	}}
	svc := NewService(&fakeSessions{}, &fakeRoster{students: students}, ledger)

	result, err := svc.HistoricalReport(context.Background(), &ReportRequest{
		Day:      testDay,
		Semester: "5",
		Division: "A",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, result.Summary.Total)
	assert.Equal(t, 2, result.Summary.Present)
	assert.Equal(t, 3, result.Summary.Absent)
	assert.Equal(t, result.Summary.Total, result.Summary.Present+result.Summary.Absent)
	assert.Len(t, result.Data, 5)
}

func TestHistoricalReportEmptyFiltersIncludeAll(t *testing.T) {
	students := cohortStudents(3)
	students = append(students, &roster.Student{
		StudentID: "02FE24BCS415_3",
		Name:      "Student 02FE24BCS415_3",
		Branch:    "BCS",
		Semester:  "3",
		Division:  "B",
	})
	svc := NewService(&fakeSessions{}, &fakeRoster{students: students}, &memLedger{})

	result, err := svc.HistoricalReport(context.Background(), &ReportRequest{Day: testDay})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Summary.Total)
	assert.Equal(t, 4, result.Summary.Absent)
}

func TestHistoricalReportFiltersRecordsByCourse(t *testing.T) {
	other := presentRecord("SES-BBBBBBBBB", "02FE24BCS411")
	other.Course = "Cloud Computing"

	ledger := &memLedger{records: []*attendance.Record{
		presentRecord("SES-AAAAAAAAA", "02FE24BCS410"),
		other,
	}}
	svc := NewService(&fakeSessions{}, &fakeRoster{students: cohortStudents(3)}, ledger)

	result, err := svc.HistoricalReport(context.Background(), &ReportRequest{
		Day:    testDay,
		Course: "Software Engineering",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Summary.Present)
	for _, entry := range result.Data {
		assert.Equal(t, "Software Engineering", entry.Course)
	}
}

func TestHistoricalReportExcludesOtherDays(t *testing.T) {
	stale := presentRecord("SES-AAAAAAAAA", "02FE24BCS410")
	stale.RecordedAt = testDay.AddDate(0, 0, -1).Add(8 * time.Hour)

	ledger := &memLedger{records: []*attendance.Record{stale}}
	svc := NewService(&fakeSessions{}, &fakeRoster{students: cohortStudents(3)}, ledger)

	result, err := svc.HistoricalReport(context.Background(), &ReportRequest{Day: testDay})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Summary.Present)
	assert.Equal(t, 3, result.Summary.Absent)
}
