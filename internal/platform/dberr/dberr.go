// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Typed Conflict Detection
//
// Unique-constraint violations are classified by Postgres SQLSTATE
// (23505) and the violated constraint's name — never by matching substrings
// of the driver's error text, which changes between driver versions and
// locales.
package dberr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/duybui/inkwell/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error
// type. The action identifies the failed store operation in server-side logs.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Constraint violations become client-safe conflicts
	if conflict := AsConflict(err); conflict != nil {
		return conflict
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// AsConflict returns a 409 [apperr.AppError] naming the conflicting field when
// err is a Postgres unique-constraint violation, or nil otherwise.
//
// The field name is derived from the constraint name, which by schema
// convention is "<table>_<column>_key".
func AsConflict(err error) *apperr.AppError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}

	if pgErr.Code != pgerrcode.UniqueViolation {
		return nil
	}

	field := FieldFromConstraint(pgErr.ConstraintName)
	if field == "" {
		return apperr.Conflict("Resource already exists")
	}

	return apperr.ConflictField(field, capitalize(field)+" already exists")
}

// FieldFromConstraint extracts the column name from a "<table>_<column>_key"
// or "<table>_<column>_unique" constraint identifier. Unknown shapes yield an
// empty string.
func FieldFromConstraint(constraint string) string {
	trimmed := strings.TrimSuffix(constraint, "_key")
	trimmed = strings.TrimSuffix(trimmed, "_unique")

	parts := strings.Split(trimmed, "_")
	if len(parts) < 2 {
		return ""
	}

	return parts[len(parts)-1]
}

// capitalize upper-cases the first byte of an ASCII identifier for display.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
