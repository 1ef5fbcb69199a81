// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package dberr_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duybui/inkwell/internal/platform/apperr"
	"github.com/duybui/inkwell/internal/platform/dberr"
)

/*
TestWrap_NoRows verifies the pgx.ErrNoRows → NOT_FOUND mapping.
*/
func TestWrap_NoRows(t *testing.T) {
	err := dberr.Wrap(pgx.ErrNoRows, "find_account")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

/*
TestWrap_UniqueViolation verifies that unique-constraint violations become
409 conflicts carrying the offending field name, extracted from the
constraint identifier rather than the error text.
*/
func TestWrap_UniqueViolation(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		wantField  string
	}{
		{"username_key", "account_username_key", "username"},
		{"email_key", "account_email_key", "email"},
		{"composite_unique", "favorite_userid_postid_unique", "postid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pgErr := &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: tt.constraint,
				Message:        "duplicate key value violates unique constraint",
			}

			ae := apperr.As(dberr.Wrap(pgErr, "create_account"))
			require.NotNil(t, ae)
			assert.Equal(t, "CONFLICT", ae.Code)
			assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
			require.NotEmpty(t, ae.Details)
			assert.Equal(t, tt.wantField, ae.Details[0].Field)
		})
	}
}

/*
TestWrap_UnknownError verifies that arbitrary storage failures are hidden
behind a generic 500 while the action and cause survive for logging.
*/
func TestWrap_UnknownError(t *testing.T) {
	cause := errors.New("connection reset by peer")
	ae := apperr.As(dberr.Wrap(cause, "list_posts"))

	require.NotNil(t, ae)
	assert.Equal(t, "INTERNAL_ERROR", ae.Code)
	assert.ErrorIs(t, ae, cause)
	assert.Contains(t, ae.Cause.Error(), "list_posts")
	assert.NotContains(t, ae.Message, "connection")
}

/*
TestAsConflict_NonPgError verifies non-Postgres errors are not classified.
*/
func TestAsConflict_NonPgError(t *testing.T) {
	assert.Nil(t, dberr.AsConflict(errors.New("whatever")))
	assert.Nil(t, dberr.AsConflict(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}))
}
