package services

import (
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUserNotFound     = errors.New("user not found")
	ErrPostNotFound     = errors.New("post not found")
	ErrNotOwner         = errors.New("not the creator of this post")
	ErrPostRejected     = errors.New("post rejected")
	ErrInvalidVote      = errors.New("invalid vote value")
	ErrInvalidCursor    = errors.New("invalid cursor")
)

// FieldError reports a user-correctable problem with one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func fieldError(field, message string) []FieldError {
	return []FieldError{{Field: field, Message: message}}
}

const (
	pgUniqueViolation   = "23505"
	mysqlDuplicateEntry = 1062
)

// uniqueViolation reports whether err is a unique-constraint failure and,
// if so, the name of the violated constraint (or the driver message when
// the driver does not expose one).
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return myErr.Message, true
	}
	return "", false
}

// conflictField maps a users-table unique violation to the offending field.
func conflictField(constraint string) string {
	if strings.Contains(strings.ToLower(constraint), "email") {
		return "email"
	}
	return "username"
}
