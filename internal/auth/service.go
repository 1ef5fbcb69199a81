// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/duybui/inkwell/internal/platform/apperr"
	"github.com/duybui/inkwell/internal/platform/ctxutil"
	"github.com/duybui/inkwell/internal/platform/email"
	"github.com/duybui/inkwell/internal/platform/sec"
	"github.com/duybui/inkwell/pkg/uuidv7"
)

// Service orchestrates the authentication and session flows.
//
// # State Machine
//
// Each refresh-token lineage moves through ISSUED -> {CONSUMED, REVOKED,
// EXPIRED-AND-PURGED}. There is no resurrection: once a raw token's record is
// gone, resubmitting the same value can never succeed again, and presenting
// a validly-signed token whose record is missing is treated as a reuse
// anomaly that revokes the whole lineage.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, rotation,
// or revocation logic must be reviewed by the security team.
type Service struct {
	userRepository         UserRepository
	refreshTokenRepository RefreshTokenRepository
	resetTokenRepository   ResetTokenRepository
	hasher                 *sec.Hasher
	codec                  *sec.Codec
	mailer                 email.Sender
	resetTokenTTL          time.Duration
}

// NewService constructs a new [Service] with its collaborators.
func NewService(
	userRepo UserRepository,
	refreshRepo RefreshTokenRepository,
	resetRepo ResetTokenRepository,
	hasher *sec.Hasher,
	codec *sec.Codec,
	mailer email.Sender,
	resetTokenTTL time.Duration,
) *Service {
	return &Service{
		userRepository:         userRepo,
		refreshTokenRepository: refreshRepo,
		resetTokenRepository:   resetRepo,
		hasher:                 hasher,
		codec:                  codec,
		mailer:                 mailer,
		resetTokenTTL:          resetTokenTTL,
	}
}

// # Session Types

// Session represents a successfully established user session.
type Session struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string // Can be Username or Email
	Password string
}

// # Registration & Login

/*
Register validates, hashes, and persists a brand new user account, then
establishes the first session.

Description: Duplicate usernames/emails surface as typed 409 conflicts from
the storage layer (SQLSTATE based), never as error-text matches.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *Session: Access/refresh pair plus the created user
  - error: Conflict or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Session, error) {

	// Prevent storing plain-text passwords. The work factor is configured at
	// startup; hashing runs on a bounded-concurrency slot.
	hashedPassword, err := service.hasher.Hash(context, input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuidv7.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}

	// Persist the user. A unique violation comes back as a client-safe conflict.
	if err := service.userRepository.Create(context, user); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	return service.issueSession(context, user)
}

/*
Login validates user credentials and issues a fresh token pair.

Description: "Unknown identity" and "wrong password" are indistinguishable by
design; both yield the same generic Unauthorized outcome.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *Session: Transport-ready session identifiers
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	// Flexible login: look up by Email, then by Username.
	user, err := service.userRepository.FindByEmail(context, input.Login)
	if apperr.IsNotFound(err) {
		user, err = service.userRepository.FindByUsername(context, input.Login)
	}

	if err != nil {
		// Unknown identity gets the generic message to prevent enumeration.
		// A store failure is not an authentication verdict; it stays a 500.
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid login credentials")
		}
		return nil, apperr.Internal(fmt.Errorf("auth_service_login_lookup_failed: %w", err))
	}

	// Constant-time password comparison. A malformed stored hash also reports false.
	if !service.hasher.Verify(context, input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	return service.issueSession(context, user)
}

// # Token Rotation

/*
Refresh implements the refresh-token rotation mechanism.

Description: The presented token's stored record is DELETED before its expiry
is checked. This ordering is deliberate: even an expired-but-presented token
consumes its slot, so an attacker cannot race the legitimate rotation. A
validly-signed token whose record is missing signals replay from a stale
rotation; the entire lineage for that subject is revoked in response.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *Session: New rotated credentials
  - error: Unauthorized or storage failures
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*Session, error) {

	// 1. Stateless check: signature and expiry of the presented token.
	userID, err := service.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// 2. Stateful check: consume the persistent record (delete-and-return).
	tokenHash := sec.HashToken(refreshToken)
	storedExpiry, found, err := service.refreshTokenRepository.ConsumeIfValid(context, tokenHash, userID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_consume_failed: %w", err)
	}

	// 3. Missing record despite a valid signature: reuse or tampering.
	// Revoke everything this subject holds and fail generically.
	if !found {
		service.logAnomaly(context, "refresh_token_reuse_detected", userID)
		_ = service.refreshTokenRepository.RevokeAllForUser(context, userID)
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// 4. The record existed but had already expired. Its slot is consumed
	// above; clean out the rest of the lineage as well.
	if storedExpiry.Before(time.Now()) {
		_ = service.refreshTokenRepository.RevokeAllForUser(context, userID)
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// 5. Rotation succeeded: issue a brand new pair.
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	return service.issueSession(context, user)
}

/*
Logout revokes the one presented refresh token.

Description: Idempotent — success is reported whether or not a record existed,
so callers cannot probe token validity through this endpoint.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - error: Storage failures only
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {

	tokenHash := sec.HashToken(refreshToken)

	if _, err := service.refreshTokenRepository.RevokeOne(context, tokenHash); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Password Recovery

/*
ForgotPassword initiates the password recovery flow.

Description: Enumeration resistance is a hard invariant here. The outcome is
identical for an unknown email, a known email, and an internal failure along
the way — errors are logged and swallowed, never surfaced.

Parameters:
  - context: context.Context
  - emailAddress: string

Returns:
  - error: Always nil
*/
func (service *Service) ForgotPassword(context context.Context, emailAddress string) error {

	user, err := service.userRepository.FindByEmail(context, emailAddress)
	if err != nil {
		if !apperr.IsAppError(err) {
			service.logAnomaly(context, "forgot_password_lookup_failed", "")
		}
		return nil
	}

	// Opaque random token: delivered out-of-band, stored only as a hash.
	rawToken, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		service.logAnomaly(context, "forgot_password_token_generation_failed", user.ID)
		return nil
	}

	// Setting a new token invalidates any previously issued one for this user.
	if err := service.resetTokenRepository.Set(context, user.ID, sec.HashToken(rawToken), service.resetTokenTTL); err != nil {
		service.logAnomaly(context, "forgot_password_store_failed", user.ID)
		return nil
	}

	// Out-of-band delivery. The raw token travels only inside the email.
	if err := service.mailer.SendPasswordReset(context, user.Email, rawToken); err != nil {
		service.logAnomaly(context, "forgot_password_delivery_failed", user.ID)
	}

	return nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the token, updates the password hash, deletes the
consumed token, and revokes every refresh token for the user (force re-login
everywhere). "Not found", "expired", and "malformed" all collapse into one
generic outcome.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - error: apperr.InvalidToken or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {

	tokenHash := sec.HashToken(token)

	userID, err := service.resetTokenRepository.Get(context, tokenHash)
	if err != nil {
		// One generic outcome regardless of why verification failed.
		return apperr.InvalidToken("Reset token is invalid or expired")
	}

	hashedPassword, err := service.hasher.Hash(context, newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	// Single-use enforcement: remove the consumed token.
	_ = service.resetTokenRepository.Delete(context, userID, tokenHash)

	// Security cleanup: every live refresh token for this user dies now.
	_ = service.refreshTokenRepository.RevokeAllForUser(context, userID)

	return nil
}

/*
ChangePassword allows an authenticated user to update their credentials.

Description: Verifies the current password, updates the hash, and revokes
every OTHER refresh token so stolen sessions on other devices die while the
current one survives.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string
  - currentRefreshToken: string

Returns:
  - error: Unauthorized or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword, currentRefreshToken string) error {

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing change
	if !service.hasher.Verify(context, currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hashedPassword, err := service.hasher.Hash(context, newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	// Security side effect: force re-login on every other device.
	keepHash := sec.HashToken(currentRefreshToken)
	_ = service.refreshTokenRepository.RevokeOthers(context, userID, keepHash)

	return nil
}

// # Internal Helpers

// issueSession creates a signed access/refresh pair and persists the hashed
// refresh record. Shared by register, login, and refresh.
func (service *Service) issueSession(context context.Context, user *User) (*Session, error) {

	accessToken, err := service.codec.SignAccess(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.codec.SignRefresh(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	expiresAt := time.Now().Add(service.codec.RefreshTTL())
	record := &RefreshTokenRecord{
		ID:        uuidv7.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(refreshToken),
		ExpiresAt: expiresAt,
	}

	if err := service.refreshTokenRepository.Store(context, record); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_store_failed: %w", err)
	}

	return &Session{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}

// logAnomaly records a security-relevant event with full detail internally.
// These distinctions are never leaked to the caller.
func (service *Service) logAnomaly(context context.Context, event, userID string) {
	logger := ctxutil.GetLogger(context)

	attributes := []any{}
	if userID != "" {
		attributes = append(attributes, slog.String("user_id", userID))
	}

	logger.WarnContext(context, event, attributes...)
}
