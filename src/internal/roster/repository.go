package roster

import (
	"context"
	"errors"

	"campus-attendance-svc/src/clients"
	"campus-attendance-svc/src/internal/config"
	"campus-attendance-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	GetStudent(ctx context.Context, studentID string) (*Student, error)
	GetTeacher(ctx context.Context, teacherID string) (*Teacher, error)
	ListStudentsByCohort(ctx context.Context, cohort Cohort) ([]*Student, error)
	ListStudents(ctx context.Context, semester, division string) ([]*Student, error)
	UpsertStudent(ctx context.Context, student *Student) error
	UpsertTeacher(ctx context.Context, teacher *Teacher) error
	EnsureIndexes(ctx context.Context) error
}

type repository struct {
	students *mongo.Collection
	teachers *mongo.Collection
}

func NewRepository(db *clients.MongoDB, cfg *config.Database) Repository {
	return &repository{
		students: db.Database.Collection(cfg.StudentCollection),
		teachers: db.Database.Collection(cfg.TeacherCollection),
	}
}

func (r *repository) GetStudent(ctx context.Context, studentID string) (*Student, error) {
	var student Student
	err := r.students.FindOne(ctx, bson.M{"student_id": studentID}).Decode(&student)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrStudentNotFound
		}
		logrus.WithError(err).WithField("student_id", studentID).Error("Failed to get student")
		return nil, models.ErrDatabaseQuery
	}
	return &student, nil
}

func (r *repository) GetTeacher(ctx context.Context, teacherID string) (*Teacher, error) {
	var teacher Teacher
	err := r.teachers.FindOne(ctx, bson.M{"teacher_id": teacherID}).Decode(&teacher)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrTeacherNotFound
		}
		logrus.WithError(err).WithField("teacher_id", teacherID).Error("Failed to get teacher")
		return nil, models.ErrDatabaseQuery
	}
	return &teacher, nil
}

func (r *repository) ListStudentsByCohort(ctx context.Context, cohort Cohort) ([]*Student, error) {
	filter := bson.M{
		"branch":   cohort.Branch,
		"semester": cohort.Semester,
		"division": cohort.Division,
	}
	return r.findStudents(ctx, filter)
}

// ListStudents selects students by the optional semester/division report
// filters. Empty values mean no restriction.
func (r *repository) ListStudents(ctx context.Context, semester, division string) ([]*Student, error) {
	filter := bson.M{}
	if semester != "" {
		filter["semester"] = semester
	}
	if division != "" {
		filter["division"] = division
	}
	return r.findStudents(ctx, filter)
}

func (r *repository) findStudents(ctx context.Context, filter bson.M) ([]*Student, error) {
	opts := options.Find().SetSort(bson.M{"student_id": 1})

	cursor, err := r.students.Find(ctx, filter, opts)
	if err != nil {
		logrus.WithError(err).Error("Failed to find students")
		return nil, models.ErrDatabaseQuery
	}
	defer cursor.Close(ctx)

	var students []*Student
	for cursor.Next(ctx) {
		var student Student
		if err := cursor.Decode(&student); err != nil {
			logrus.WithError(err).Error("Failed to decode student")
			continue
		}
		students = append(students, &student)
	}

	if err := cursor.Err(); err != nil {
		logrus.WithError(err).Error("Cursor error")
		return nil, models.ErrDatabaseQuery
	}

	return students, nil
}

func (r *repository) UpsertStudent(ctx context.Context, student *Student) error {
	filter := bson.M{"student_id": student.StudentID}
	update := bson.M{"$set": bson.M{
		"student_id": student.StudentID,
		"password":   student.Password,
		"name":       student.Name,
		"branch":     student.Branch,
		"semester":   student.Semester,
		"division":   student.Division,
	}}

	_, err := r.students.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		logrus.WithError(err).WithField("student_id", student.StudentID).Error("Failed to upsert student")
		return models.ErrDatabaseUpdate
	}
	return nil
}

func (r *repository) UpsertTeacher(ctx context.Context, teacher *Teacher) error {
	filter := bson.M{"teacher_id": teacher.TeacherID}
	update := bson.M{"$set": bson.M{
		"teacher_id":       teacher.TeacherID,
		"password":         teacher.Password,
		"name":             teacher.Name,
		"department":       teacher.Department,
		"assigned_courses": teacher.AssignedCourses,
	}}

	_, err := r.teachers.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		logrus.WithError(err).WithField("teacher_id", teacher.TeacherID).Error("Failed to upsert teacher")
		return models.ErrDatabaseUpdate
	}
	return nil
}

func (r *repository) EnsureIndexes(ctx context.Context) error {
	studentIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "student_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.students.Indexes().CreateOne(ctx, studentIndex); err != nil {
		logrus.WithError(err).Error("Failed to create student index")
		return models.ErrDatabaseUpdate
	}

	teacherIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "teacher_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.teachers.Indexes().CreateOne(ctx, teacherIndex); err != nil {
		logrus.WithError(err).Error("Failed to create teacher index")
		return models.ErrDatabaseUpdate
	}

	return nil
}
