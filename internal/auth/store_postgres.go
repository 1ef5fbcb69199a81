// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duybui/inkwell/internal/platform/apperr"
	"github.com/duybui/inkwell/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the account table.

Description: Unique-constraint violations on username/email are classified by
SQLSTATE and constraint name into a typed 409 conflict naming the field.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO account (
			id, username, email, passwordhash, bio, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Bio,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "create_account")
	}

	return nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT id, username, email, passwordhash, bio, createdat, updatedat
		FROM account
		WHERE email = $1`

	return repository.scanOne(context, query, email)
}

/*
FindByUsername retrieves a user record by their unique username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	const query = `
		SELECT id, username, email, passwordhash, bio, createdat, updatedat
		FROM account
		WHERE username = $1`

	return repository.scanOne(context, query, username)
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `
		SELECT id, username, email, passwordhash, bio, createdat, updatedat
		FROM account
		WHERE id = $1`

	return repository.scanOne(context, query, id)
}

// scanOne executes a single-row account lookup and hydrates the entity.
func (repository *PostgresUserRepository) scanOne(context context.Context, query string, argument any) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(context, query, argument).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Bio,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err, "find_account")
	}

	return user, nil
}

/*
UpdatePassword updates only the password hash for a specific user.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	const query = `
		UPDATE account
		SET passwordhash = $2, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return dberr.Wrap(err, "update_password")
	}

	return nil
}

// # Refresh Token Repository

// PostgresRefreshTokenRepository implements the RefreshTokenRepository interface.
type PostgresRefreshTokenRepository struct {
	pool *pgxpool.Pool
}

// NewRefreshTokenRepository creates a new PostgreSQL implementation of RefreshTokenRepository.
func NewRefreshTokenRepository(pool *pgxpool.Pool) *PostgresRefreshTokenRepository {
	return &PostgresRefreshTokenRepository{pool: pool}
}

/*
Store persists a new refresh-token record into the refresh_token table.

Parameters:
  - context: context.Context
  - record: *RefreshTokenRecord

Returns:
  - error: Storage failures
*/
func (repository *PostgresRefreshTokenRepository) Store(context context.Context, record *RefreshTokenRecord) error {
	const query = `
		INSERT INTO refresh_token (
			id, userid, tokenhash, expiresat, createdat
		) VALUES ($1, $2, $3, $4, $5)`

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		record.ID,
		record.UserID,
		record.TokenHash,
		record.ExpiresAt,
		record.CreatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "store_refresh_token")
	}

	return nil
}

/*
ConsumeIfValid atomically deletes the record matching tokenHash and userID
and returns what was deleted.

Description: The single DELETE ... RETURNING statement guarantees at most one
caller observes the row when two refresh attempts race on the same raw token.
The row is removed even when already expired; expiry is the caller's check.

Parameters:
  - context: context.Context
  - tokenHash: string
  - userID: string

Returns:
  - time.Time: The deleted record's expiry (zero when not found)
  - bool: Whether a record was deleted
  - error: Execution errors
*/
func (repository *PostgresRefreshTokenRepository) ConsumeIfValid(context context.Context, tokenHash, userID string) (time.Time, bool, error) {
	const query = `
		DELETE FROM refresh_token
		WHERE tokenhash = $1 AND userid = $2
		RETURNING expiresat`

	var expiresAt time.Time
	err := repository.pool.QueryRow(context, query, tokenHash, userID).Scan(&expiresAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, dberr.Wrap(err, "consume_refresh_token")
	}

	return expiresAt, true, nil
}

/*
RevokeOne deletes the record matching tokenHash.

Description: Idempotent revocation — an absent record is reported, not failed.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - bool: Whether a record was deleted
  - error: Execution errors
*/
func (repository *PostgresRefreshTokenRepository) RevokeOne(context context.Context, tokenHash string) (bool, error) {
	const query = "DELETE FROM refresh_token WHERE tokenhash = $1"

	commandTag, err := repository.pool.Exec(context, query, tokenHash)
	if err != nil {
		return false, dberr.Wrap(err, "revoke_refresh_token")
	}

	return commandTag.RowsAffected() > 0, nil
}

/*
RevokeAllForUser deletes every refresh-token record belonging to a user.

Description: Security nuking of all live refresh tokens for a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Batch deletion failures
*/
func (repository *PostgresRefreshTokenRepository) RevokeAllForUser(context context.Context, userID string) error {
	const query = "DELETE FROM refresh_token WHERE userid = $1"

	_, err := repository.pool.Exec(context, query, userID)
	if err != nil {
		return dberr.Wrap(err, "revoke_all_refresh_tokens")
	}

	return nil
}

/*
RevokeOthers deletes every record for a user except the one matching keepTokenHash.

Parameters:
  - context: context.Context
  - userID: string
  - keepTokenHash: string

Returns:
  - error: Filtered deletion failures
*/
func (repository *PostgresRefreshTokenRepository) RevokeOthers(context context.Context, userID, keepTokenHash string) error {
	const query = "DELETE FROM refresh_token WHERE userid = $1 AND tokenhash != $2"

	_, err := repository.pool.Exec(context, query, userID, keepTokenHash)
	if err != nil {
		return dberr.Wrap(err, "revoke_other_refresh_tokens")
	}

	return nil
}

/*
DeleteExpired permanently removes all records past their expiration.

Description: Cleanup task to reclaim storage from stale token records.

Parameters:
  - context: context.Context

Returns:
  - error: Cleanup failures
*/
func (repository *PostgresRefreshTokenRepository) DeleteExpired(context context.Context) error {
	const query = "DELETE FROM refresh_token WHERE expiresat <= NOW()"

	_, err := repository.pool.Exec(context, query)
	if err != nil {
		return dberr.Wrap(err, "delete_expired_refresh_tokens")
	}

	return nil
}
