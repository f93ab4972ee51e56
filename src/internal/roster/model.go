package roster

import "go.mongodb.org/mongo-driver/bson/primitive"

// Cohort identifies the (branch, semester, division) group of students that
// share a roster.
type Cohort struct {
	Branch   string `json:"branch" bson:"branch"`
	Semester string `json:"semester" bson:"semester"`
	Division string `json:"division" bson:"division"`
}

func (c Cohort) IsComplete() bool {
	return c.Branch != "" && c.Semester != "" && c.Division != ""
}

type Student struct {
	ID        primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	StudentID string             `json:"studentId" bson:"student_id"`
	Password  string             `json:"-" bson:"password"`
	Name      string             `json:"name" bson:"name"`
	Branch    string             `json:"branch" bson:"branch"`
	Semester  string             `json:"semester" bson:"semester"`
	Division  string             `json:"division" bson:"division"`
}

func (s *Student) Cohort() Cohort {
	return Cohort{Branch: s.Branch, Semester: s.Semester, Division: s.Division}
}

// Teacher is cohort-assignment reference data. AssignedCourses maps a
// semester to the courses the teacher may open sessions for.
type Teacher struct {
	ID              primitive.ObjectID  `json:"-" bson:"_id,omitempty"`
	TeacherID       string              `json:"teacherId" bson:"teacher_id"`
	Password        string              `json:"-" bson:"password"`
	Name            string              `json:"name" bson:"name"`
	Department      string              `json:"department" bson:"department"`
	AssignedCourses map[string][]string `json:"assignedCourses" bson:"assigned_courses"`
}
