package store

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrInvalidID is returned when an identifier is not a positive integer. It is raised before any query runs.
	ErrInvalidID = errors.New("invalid id")
	// ErrNotFound wraps gorm.ErrRecordNotFound so callers do not depend on gorm.
	ErrNotFound = errors.New("record not found")
	// ErrForbidden is returned when the actor does not own the row and is not an admin.
	ErrForbidden = errors.New("forbidden")
	// ErrEmptyReply is returned for a reply without text.
	ErrEmptyReply = errors.New("reply cannot be empty")
	// ErrInvalidParent is returned when a nested reply targets something other than a top-level reply of the same post.
	ErrInvalidParent = errors.New("parent must be a top-level reply of the same post")
	// ErrInvalidInput is returned when a field fails length, range or enum validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownTopic is returned when a post names a topic slug that does not exist.
	ErrUnknownTopic = errors.New("unknown topic")
	// ErrInvalidFilter is returned for unsupported sorting, period or enum filters.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrInvalidDate is returned when leaderboard date components do not form a real date.
	ErrInvalidDate = errors.New("invalid date")
	// ErrFutureDate is returned when a leaderboard window starts in the future.
	ErrFutureDate = errors.New("future date")
	// ErrAlreadyClaimed is returned when an idea has been claimed by someone else.
	ErrAlreadyClaimed = errors.New("idea already claimed")
	// ErrDuplicate is returned when a unique constraint rejects an insert.
	ErrDuplicate = errors.New("duplicate record")
)

// IsDuplicateKey reports whether err is a unique-constraint violation on MySQL or PostgreSQL.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case IsDuplicateKey(err):
		return ErrDuplicate
	default:
		return err
	}
}
