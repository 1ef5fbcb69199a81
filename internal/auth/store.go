// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"time"
)

// ErrResetTokenNotFound is returned by [ResetTokenRepository.Get] when no
// live record matches the presented hash. Callers collapse it (and every
// other reset-token failure) into one generic client outcome.
var ErrResetTokenNotFound = errors.New("auth: reset token not found")

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Unique-constraint violations surface as typed 409 conflicts naming
		the offending field, never as free-text matches.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Conflict or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error
}

// # Refresh Token Data Access

// RefreshTokenRepository defines the data access contract for the persistent
// half of refresh tokens.
//
// # Rotation Semantics
//
// ConsumeIfValid is the heart of single-use enforcement: it must atomically
// delete the matching record and report what was deleted, so that two
// concurrent presentations of the same raw token race safely (first-deleter-
// wins; the loser observes not-found).
type RefreshTokenRepository interface {

	/*
		Store persists the hashed record of a freshly issued refresh token.

		Parameters:
		  - context: context.Context
		  - record: *RefreshTokenRecord

		Returns:
		  - error: Persistence failures
	*/
	Store(context context.Context, record *RefreshTokenRecord) error

	/*
		ConsumeIfValid atomically deletes the record matching tokenHash AND
		userID and returns its stored expiry. The record is removed whether or
		not it has expired; the caller checks the returned expiry afterwards.

		Parameters:
		  - context: context.Context
		  - tokenHash: string
		  - userID: string

		Returns:
		  - time.Time: The deleted record's expiry (zero when not found)
		  - bool: Whether a record was found and deleted
		  - error: Persistence failures
	*/
	ConsumeIfValid(context context.Context, tokenHash, userID string) (time.Time, bool, error)

	/*
		RevokeOne deletes the record matching tokenHash. Absence is not an
		error; the operation is idempotent.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - bool: Whether a record was deleted
		  - error: Persistence failures
	*/
	RevokeOne(context context.Context, tokenHash string) (bool, error)

	/*
		RevokeAllForUser deletes every record belonging to the userID. Used
		defensively on refresh-reuse anomalies and on password reset.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	RevokeAllForUser(context context.Context, userID string) error

	/*
		RevokeOthers deletes every record belonging to the userID except the
		one matching keepTokenHash. Used by change-password to keep the
		current session alive while forcing re-login everywhere else.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - keepTokenHash: string

		Returns:
		  - error: Persistence failures
	*/
	RevokeOthers(context context.Context, userID, keepTokenHash string) error

	/*
		DeleteExpired physically removes records whose ExpiresAt is in the past.

		Parameters:
		  - context: context.Context

		Returns:
		  - error: Persistence failures
	*/
	DeleteExpired(context context.Context) error
}

// # Volatile Data Access

// ResetTokenRepository defines the contract for storing volatile password
// reset tokens. Implementations store only token hashes and must enforce at
// most one live token per user: setting a new one invalidates the previous.
type ResetTokenRepository interface {

	/*
		Set stores a hashed reset token for userID with the given TTL,
		invalidating any previously issued token for that user.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - tokenHash: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, userID, tokenHash string, ttl time.Duration) error

	/*
		Get retrieves the userID associated with a hashed reset token.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - string: UserID
		  - error: ErrResetTokenNotFound when absent or expired; other
		    retrieval failures otherwise
	*/
	Get(context context.Context, tokenHash string) (string, error)

	/*
		Delete removes a consumed reset token.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - tokenHash: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, userID, tokenHash string) error
}
