package roster

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

const seedPassword = "password123"

// Seed upserts the reference teachers and the demo cohorts: five students per
// division A/B for semesters 3-8. Semester 5 keeps the unsuffixed roll numbers
// so existing attendance records still resolve.
func Seed(ctx context.Context, repo Repository) error {
	if err := seedTeachers(ctx, repo); err != nil {
		return err
	}
	if err := seedStudents(ctx, repo); err != nil {
		return err
	}
	return nil
}

func seedTeachers(ctx context.Context, repo Repository) error {
	teachers := []*Teacher{
		{
			TeacherID:  "T001",
			Password:   seedPassword,
			Name:       "John Doe",
			Department: "CSE",
			AssignedCourses: map[string][]string{
				"5": {"Software Engineering"},
				"6": {"Cloud Computing"},
			},
		},
		{
			TeacherID:  "T002",
			Password:   seedPassword,
			Name:       "Jane Smith",
			Department: "ECE",
			AssignedCourses: map[string][]string{
				"3": {"Circuit Theory"},
				"4": {"Digital Logic"},
			},
		},
		{
			TeacherID:  "T003",
			Password:   seedPassword,
			Name:       "Robert Brown",
			Department: "MECH",
			AssignedCourses: map[string][]string{
				"7": {"Thermodynamics"},
				"8": {"Fluid Mechanics"},
			},
		},
	}

	for _, t := range teachers {
		if err := repo.UpsertTeacher(ctx, t); err != nil {
			return err
		}
	}

	logrus.Info("Teachers seeded")
	return nil
}

func seedStudents(ctx context.Context, repo Repository) error {
	semesters := []string{"3", "4", "5", "6", "7", "8"}

	for _, sem := range semesters {
		for i := 410; i <= 419; i++ {
			division := "A"
			if i >= 415 {
				division = "B"
			}

			studentID := fmt.Sprintf("02FE24BCS%03d", i)
			if sem != "5" {
				studentID = fmt.Sprintf("%s_%s", studentID, sem)
			}

			student := &Student{
				StudentID: studentID,
				Password:  seedPassword,
				Name:      "Student " + studentID,
				Branch:    "BCS",
				Semester:  sem,
				Division:  division,
			}
			if err := repo.UpsertStudent(ctx, student); err != nil {
				return err
			}
		}
	}

	logrus.Info("Students seeded")
	return nil
}
