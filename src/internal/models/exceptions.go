package models

import "errors"

var (
	ErrRedisConnection = errors.New("redis connection error")
	ErrRedisGet        = errors.New("redis get error")
	ErrRedisSet        = errors.New("redis set error")
	ErrRedisDelete     = errors.New("redis delete error")
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionInactive = errors.New("session inactive")
	ErrSessionCreating = errors.New("error creating session")
	ErrSessionUpdating = errors.New("error updating session")
)

var (
	ErrInvalidInput     = errors.New("missing or invalid input")
	ErrStudentNotFound  = errors.New("student not found")
	ErrTeacherNotFound  = errors.New("teacher not found")
	ErrDuplicateOrigin  = errors.New("origin already marked attendance for this session")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrInvalidStudentID = errors.New("invalid student id format")
)

var (
	ErrDatabaseConnection = errors.New("database connection error")
	ErrDatabaseQuery      = errors.New("database query error")
	ErrDatabaseInsert     = errors.New("database insert error")
	ErrDatabaseUpdate     = errors.New("database update error")
	ErrRecordNotFound     = errors.New("record not found")
	ErrDuplicateRecord    = errors.New("duplicate record")
)

// IsStorageFault reports whether err is a backing-store failure rather than a
// domain outcome. Storage faults must surface as retryable 503s, never as a
// rejection of the check-in itself.
func IsStorageFault(err error) bool {
	return errors.Is(err, ErrDatabaseConnection) ||
		errors.Is(err, ErrDatabaseQuery) ||
		errors.Is(err, ErrDatabaseInsert) ||
		errors.Is(err, ErrDatabaseUpdate) ||
		errors.Is(err, ErrRedisGet) ||
		errors.Is(err, ErrRedisSet)
}
