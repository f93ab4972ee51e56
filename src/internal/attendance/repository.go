package attendance

import (
	"context"
	"errors"
	"time"

	"campus-attendance-svc/src/clients"
	"campus-attendance-svc/src/internal/config"
	"campus-attendance-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DayQuery selects ledger records for one calendar day. Empty filter fields
// mean no restriction.
type DayQuery struct {
	Day      time.Time
	Course   string
	Timeslot string
	Semester string
	Division string
}

type Repository interface {
	Insert(ctx context.Context, record *Record) error
	FindBySessionAndStudent(ctx context.Context, sessionID, studentID string) (*Record, error)
	FindBySessionAndOrigin(ctx context.Context, sessionID, originSignature string) (*Record, error)
	ListBySession(ctx context.Context, sessionID string) ([]*Record, error)
	ListByStudent(ctx context.Context, studentID string) ([]*Record, error)
	ListForDay(ctx context.Context, query *DayQuery) ([]*Record, error)
	EnsureIndexes(ctx context.Context) error
}

type repository struct {
	collection      *mongo.Collection
	skipOriginCheck bool
}

func NewRepository(db *clients.MongoDB, cfg *config.Configuration) Repository {
	return &repository{
		collection:      db.Database.Collection(cfg.Database.AttendanceCollection),
		skipOriginCheck: cfg.Attendance.SkipOriginCheck,
	}
}

func (r *repository) Insert(ctx context.Context, record *Record) error {
	_, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicateRecord
		}
		logrus.WithError(err).WithFields(logrus.Fields{
			"session_id": record.SessionID,
			"student_id": record.StudentID,
		}).Error("Failed to insert attendance record")
		return models.ErrDatabaseInsert
	}
	return nil
}

// FindBySessionAndStudent returns (nil, nil) when no record exists.
func (r *repository) FindBySessionAndStudent(ctx context.Context, sessionID, studentID string) (*Record, error) {
	filter := bson.M{"session_id": sessionID, "student_id": studentID}
	return r.findOne(ctx, filter)
}

// FindBySessionAndOrigin returns (nil, nil) when no record exists.
func (r *repository) FindBySessionAndOrigin(ctx context.Context, sessionID, originSignature string) (*Record, error) {
	filter := bson.M{"session_id": sessionID, "origin_signature": originSignature}
	return r.findOne(ctx, filter)
}

func (r *repository) findOne(ctx context.Context, filter bson.M) (*Record, error) {
	var record Record
	err := r.collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		logrus.WithError(err).Error("Failed to find attendance record")
		return nil, models.ErrDatabaseQuery
	}
	return &record, nil
}

func (r *repository) ListBySession(ctx context.Context, sessionID string) ([]*Record, error) {
	return r.find(ctx, bson.M{"session_id": sessionID}, nil)
}

func (r *repository) ListByStudent(ctx context.Context, studentID string) ([]*Record, error) {
	opts := options.Find().SetSort(bson.M{"recorded_at": -1})
	return r.find(ctx, bson.M{"student_id": studentID}, opts)
}

func (r *repository) ListForDay(ctx context.Context, query *DayQuery) ([]*Record, error) {
	start := time.Date(query.Day.Year(), query.Day.Month(), query.Day.Day(), 0, 0, 0, 0, query.Day.Location())
	end := start.Add(24 * time.Hour)

	filter := bson.M{"recorded_at": bson.M{"$gte": start, "$lt": end}}
	if query.Course != "" {
		filter["course"] = query.Course
	}
	if query.Timeslot != "" {
		filter["timeslot"] = query.Timeslot
	}
	if query.Semester != "" {
		filter["semester"] = query.Semester
	}
	if query.Division != "" {
		filter["division"] = query.Division
	}

	return r.find(ctx, filter, nil)
}

func (r *repository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*Record, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.collection.Find(ctx, filter, opts)
	} else {
		cursor, err = r.collection.Find(ctx, filter)
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to find attendance records")
		return nil, models.ErrDatabaseQuery
	}
	defer cursor.Close(ctx)

	var records []*Record
	for cursor.Next(ctx) {
		var record Record
		if err := cursor.Decode(&record); err != nil {
			logrus.WithError(err).Error("Failed to decode attendance record")
			continue
		}
		records = append(records, &record)
	}

	if err := cursor.Err(); err != nil {
		logrus.WithError(err).Error("Cursor error")
		return nil, models.ErrDatabaseQuery
	}

	return records, nil
}

// EnsureIndexes enforces the ledger uniqueness constraints. The
// (session, origin) index is built only while the origin check is enabled;
// with the check disabled the same origin may legitimately carry several
// identities.
func (r *repository) EnsureIndexes(ctx context.Context) error {
	studentIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "session_id", Value: 1}, {Key: "student_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, studentIndex); err != nil {
		logrus.WithError(err).Error("Failed to create attendance student index")
		return models.ErrDatabaseUpdate
	}

	if !r.skipOriginCheck {
		originIndex := mongo.IndexModel{
			Keys:    bson.D{{Key: "session_id", Value: 1}, {Key: "origin_signature", Value: 1}},
			Options: options.Index().SetUnique(true),
		}
		if _, err := r.collection.Indexes().CreateOne(ctx, originIndex); err != nil {
			logrus.WithError(err).Error("Failed to create attendance origin index")
			return models.ErrDatabaseUpdate
		}
	}

	return nil
}
