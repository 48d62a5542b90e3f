package main

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrorKind is the closed set of failure categories surfaced to callers.
// Handlers and stores switch on the kind instead of inspecting error text.
type ErrorKind string

const (
	// KindTransport covers network failures and any server-side rejection
	// that is not one of the more specific kinds below, including
	// permission denials.
	KindTransport ErrorKind = "transport"
	// KindValidation covers schema-level rejections: missing or malformed
	// required fields.
	KindValidation ErrorKind = "validation"
	// KindConflict covers uniqueness violations, most notably a duplicate
	// participant email on the same event.
	KindConflict ErrorKind = "conflict"
	// KindNotFound covers lookups with no matching row.
	KindNotFound ErrorKind = "not_found"
)

// ErrPermissionDenied marks a backend authorization rejection. It is wrapped
// inside a transport-kind AppError so the HTTP layer can answer 403 while the
// taxonomy stays closed.
var ErrPermissionDenied = errors.New("permission denied")

// ErrDuplicateParticipant marks the specific uniqueness conflict for a
// participant email already registered on the same event, so callers can show
// a tailored message instead of a generic failure.
var ErrDuplicateParticipant = errors.New("participant already registered for this event")

// AppError is the structured outcome attached to every failed operation.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func transportErr(msg string, err error) *AppError {
	return &AppError{Kind: KindTransport, Message: msg, Err: err}
}

func validationErr(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

func conflictErr(msg string, err error) *AppError {
	return &AppError{Kind: KindConflict, Message: msg, Err: err}
}

func notFoundErr(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg}
}

func permissionErr(msg string) *AppError {
	return &AppError{Kind: KindTransport, Message: msg, Err: ErrPermissionDenied}
}

// Postgres SQLSTATE codes the repositories care about.
const (
	pgUniqueViolation       = "23505"
	pgInsufficientPrivilege = "42501"
)

// classify translates a raw database error into the closed taxonomy.
func classify(op string, err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundErr(op + ": no matching row")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return conflictErr(op+": unique constraint violated", err)
		case pgInsufficientPrivilege:
			return permissionErr(op + ": permission denied")
		}
	}
	return transportErr(op+" failed", err)
}

// ErrKind extracts the kind from any error, defaulting to transport for
// errors that escaped classification.
func ErrKind(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindTransport
}
