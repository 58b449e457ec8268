// Package apperror defines the single error value used by every layer to
// report a client-facing failure: a message plus an HTTP status code.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("resource not found")

// Postgres SQLSTATE codes translated into client errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
	pgInvalidTextRepr     = "22P02"
)

// Error is a client-facing failure.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, fmt.Sprintf(format, args...))
}

func BadRequest(format string, args ...any) *Error {
	return New(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(format string, args ...any) *Error {
	return New(http.StatusForbidden, fmt.Sprintf(format, args...))
}

// Duplicate reports a unique-constraint violation; err is kept for logs.
func Duplicate(err error) *Error {
	return &Error{Status: http.StatusBadRequest, Message: "Duplicate field value entered", Err: err}
}

// Internal wraps an unexpected failure. The message never includes err.
func Internal(message string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message, Err: err}
}

// Validation aggregates field violations into one message, fields sorted by name.
func Validation(fields map[string]string) *Error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+fields[k])
	}
	return New(http.StatusBadRequest, strings.Join(parts, ", "))
}

// From normalises any error into an *Error. Known storage shapes are
// translated; everything else becomes a generic 500.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, pgx.ErrNoRows) {
		return &Error{Status: http.StatusNotFound, Message: "Resource not found", Err: err}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return Duplicate(err)
		case pgInvalidTextRepr, pgForeignKeyViolation:
			return &Error{Status: http.StatusNotFound, Message: "Resource not found", Err: err}
		case pgCheckViolation, pgNotNullViolation:
			msg := "Invalid value"
			if pgErr.ColumnName != "" {
				msg = pgErr.ColumnName + " is invalid"
			} else if pgErr.ConstraintName != "" {
				msg = pgErr.ConstraintName + " violated"
			}
			return &Error{Status: http.StatusBadRequest, Message: msg, Err: err}
		}
	}
	return Internal("Server Error", err)
}
