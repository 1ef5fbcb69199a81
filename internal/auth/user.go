// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

/*
Package auth implements the authentication and session core of Inkwell.

It handles everything from user registration and secure password hashing to
refresh-token rotation and the password-reset lifecycle.

# Architecture

  - Service: Orchestrates the flows (Register, Login, Refresh, Logout, Reset).
  - Repository: Abstracted interfaces for Postgres (users, refresh tokens)
    and Redis (reset tokens).
  - Security: Bcrypt password hashing, dual-key HS256 JWTs, hashed-at-rest
    token records.

This layer is the "Truth" of the system for identity. Any change to hashing,
rotation, or revocation logic is security-sensitive and must be reviewed.
*/
package auth

import "time"

// # Domain Entities

// User represents a registered member of the Inkwell platform.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	Bio          string    `json:"bio,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RefreshTokenRecord is the persistent half of an issued refresh token.
//
// The client holds the signed stateless half; the server keeps only this
// hashed record. A refresh token is usable only while its record exists —
// rotation deletes the record on first use.
type RefreshTokenRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"` // Hashed value of the raw token. Omitted for security.
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldLogin           = "login"
	FieldToken           = "token"
	FieldRefreshToken    = "refresh_token"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldUser            = "user"
	FieldMessage         = "message"
)
