package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrom_PassesThroughAppErrors(t *testing.T) {
	orig := Forbidden("User role %s is not authorized", "user")
	wrapped := fmt.Errorf("create: %w", orig)

	got := From(wrapped)
	require.NotNil(t, got)
	assert.Same(t, orig, got)
	assert.Equal(t, http.StatusForbidden, got.Status)
}

func TestFrom_StorageShapes(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"not found sentinel", ErrNotFound, http.StatusNotFound, "Resource not found"},
		{"no rows", pgx.ErrNoRows, http.StatusNotFound, "Resource not found"},
		{"bad uuid", &pgconn.PgError{Code: pgInvalidTextRepr}, http.StatusNotFound, "Resource not found"},
		{"unique", &pgconn.PgError{Code: pgUniqueViolation}, http.StatusBadRequest, "Duplicate field value entered"},
		{"check", &pgconn.PgError{Code: pgCheckViolation, ConstraintName: "reviews_rating_check"}, http.StatusBadRequest, "reviews_rating_check violated"},
		{"not null", &pgconn.PgError{Code: pgNotNullViolation, ColumnName: "title"}, http.StatusBadRequest, "title is invalid"},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError, "Server Error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := From(fmt.Errorf("wrapped: %w", tc.err))
			assert.Equal(t, tc.status, got.Status)
			assert.Equal(t, tc.msg, got.Message)
		})
	}
}

func TestFrom_Nil(t *testing.T) {
	assert.Nil(t, From(nil))
}

func TestDuplicate_KeepsCause(t *testing.T) {
	cause := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	e := Duplicate(cause)
	assert.Equal(t, http.StatusBadRequest, e.Status)
	assert.Equal(t, "Duplicate field value entered", e.Message)
	assert.ErrorIs(t, e, cause)
	assert.Equal(t, e, From(cause))
}

func TestInternal_HidesCause(t *testing.T) {
	e := Internal("File upload failed", errors.New("permission denied: /var/data"))
	assert.Equal(t, "File upload failed", e.Message)
	assert.Contains(t, e.Error(), "permission denied")
}

func TestValidation_AggregatesSortedFields(t *testing.T) {
	e := Validation(map[string]string{
		"title":  "is required",
		"email":  "must be a valid email",
		"rating": "must be at most 10",
	})
	assert.Equal(t, http.StatusBadRequest, e.Status)
	assert.Equal(t, "email must be a valid email, rating must be at most 10, title is required", e.Message)
}
