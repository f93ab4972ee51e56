package roster

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRepo struct {
	students []*Student
	teachers []*Teacher
}

func (r *recordingRepo) GetStudent(ctx context.Context, studentID string) (*Student, error) {
	panic("not used")
}

func (r *recordingRepo) GetTeacher(ctx context.Context, teacherID string) (*Teacher, error) {
	panic("not used")
}

func (r *recordingRepo) ListStudentsByCohort(ctx context.Context, cohort Cohort) ([]*Student, error) {
	panic("not used")
}

func (r *recordingRepo) ListStudents(ctx context.Context, semester, division string) ([]*Student, error) {
	panic("not used")
}

func (r *recordingRepo) UpsertStudent(ctx context.Context, student *Student) error {
	r.students = append(r.students, student)
	return nil
}

func (r *recordingRepo) UpsertTeacher(ctx context.Context, teacher *Teacher) error {
	r.teachers = append(r.teachers, teacher)
	return nil
}

func (r *recordingRepo) EnsureIndexes(ctx context.Context) error { return nil }

func TestSeed(t *testing.T) {
	repo := &recordingRepo{}
	require.NoError(t, Seed(context.Background(), repo))

	require.Len(t, repo.teachers, 3)
	assert.Equal(t, "T001", repo.teachers[0].TeacherID)
	assert.Contains(t, repo.teachers[0].AssignedCourses["5"], "Software Engineering")

	// 10 students per semester across semesters 3-8.
	require.Len(t, repo.students, 60)

	ids := make(map[string]bool, len(repo.students))
	semesterCounts := make(map[string]int)
	divisionCounts := make(map[string]int)

	for _, s := range repo.students {
		assert.False(t, ids[s.StudentID], "duplicate student id %s", s.StudentID)
		ids[s.StudentID] = true
		semesterCounts[s.Semester]++
		divisionCounts[s.Division]++
		assert.Equal(t, "BCS", s.Branch)
		assert.NotEmpty(t, s.Password)
	}

	for _, sem := range []string{"3", "4", "5", "6", "7", "8"} {
		assert.Equal(t, 10, semesterCounts[sem], "semester %s", sem)
	}
	assert.Equal(t, 30, divisionCounts["A"])
	assert.Equal(t, 30, divisionCounts["B"])
}

func TestSeedSemesterFiveKeepsBareRollNumbers(t *testing.T) {
	repo := &recordingRepo{}
	require.NoError(t, Seed(context.Background(), repo))

	bare := regexp.MustCompile(`^02FE24BCS\d{3}$`)
	suffixed := regexp.MustCompile(`^02FE24BCS\d{3}_\d$`)

	for _, s := range repo.students {
		if s.Semester == "5" {
			assert.Regexp(t, bare, s.StudentID)
		} else {
			assert.Regexp(t, suffixed, s.StudentID)
		}
	}
}
