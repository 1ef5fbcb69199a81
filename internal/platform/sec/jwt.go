// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces defined at the point of use.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sentinel errors returned by token verification.
var (
	// ErrTokenExpired indicates a structurally valid token past its expiry.
	ErrTokenExpired = errors.New("sec: token expired")

	// ErrTokenMalformed indicates a token whose structure or signature is invalid.
	ErrTokenMalformed = errors.New("sec: token malformed")
)

// AccessClaims represents the payload embedded inside a JWT access token.
//
// # Why custom claims?
//
// By embedding the UserID and Username directly inside the JWT, the
// authentication middleware can reconstruct the active user context WITHOUT
// querying the database on every single API request.
type AccessClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID   string `json:"uid"`
	Username string `json:"unm"`
}

// refreshClaims is the minimal payload of a refresh token: subject + expiry.
type refreshClaims struct {
	jwt.RegisteredClaims
}

// Codec signs and verifies the stateless halves of access and refresh tokens.
//
// # Key Separation
//
// Access and refresh tokens are signed with two independent HMAC keys, so a
// leaked access-signing key cannot forge refresh tokens and vice versa.
//
// # Limits
//
// Signature and expiry are all a Codec can check. A refresh token that
// verifies here must STILL be matched against its persistent record before it
// grants anything — that check lives in the auth store, not here.
type Codec struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
}

// NewCodec constructs a [Codec] from the two signing secrets and lifetimes.
//
// The caller (config) guarantees both secrets are non-empty; this constructor
// re-checks as a last line of defense because signing with an empty key would
// silently produce forgeable tokens.
func NewCodec(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, issuer string) (*Codec, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("sec: access and refresh signing secrets must both be set")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("sec: access and refresh signing secrets must differ")
	}

	return &Codec{
		accessKey:  []byte(accessSecret),
		refreshKey: []byte(refreshSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		issuer:     issuer,
	}, nil
}

// AccessTTL returns the configured access-token lifetime.
func (codec *Codec) AccessTTL() time.Duration { return codec.accessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (codec *Codec) RefreshTTL() time.Duration { return codec.refreshTTL }

// SignAccess creates a signed, short-lived access token for a user.
func (codec *Codec) SignAccess(userID, username string) (string, error) {
	currentTime := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    codec.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(codec.accessTTL)),
		},
		UserID:   userID,
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(codec.accessKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign access token: %w", err)
	}

	return signedToken, nil
}

// SignRefresh creates a signed, long-lived refresh token carrying only the subject.
//
// The signed string is the client-facing half of a refresh token; the server
// additionally persists a hashed record of it for rotation enforcement.
func (codec *Codec) SignRefresh(userID string) (string, error) {
	currentTime := time.Now()
	claims := refreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    codec.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(codec.refreshTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(codec.refreshKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign refresh token: %w", err)
	}

	return signedToken, nil
}

// VerifyAccess checks signature and expiry of an access token and returns its claims.
//
// Failures are collapsed to [ErrTokenExpired] or [ErrTokenMalformed].
func (codec *Codec) VerifyAccess(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := codec.verify(tokenString, codec.accessKey, claims); err != nil {
		return nil, err
	}

	if claims.UserID == "" || claims.Username == "" {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// VerifyRefresh checks signature and expiry of a refresh token and returns the subject ID.
func (codec *Codec) VerifyRefresh(tokenString string) (string, error) {
	claims := &refreshClaims{}
	if err := codec.verify(tokenString, codec.refreshKey, claims); err != nil {
		return "", err
	}

	if claims.Subject == "" {
		return "", ErrTokenMalformed
	}

	return claims.Subject, nil
}

// verify parses and validates a token against one of the two signing keys.
func (codec *Codec) verify(tokenString string, key []byte, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	}, jwt.WithIssuer(codec.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenMalformed
	}

	if !token.Valid {
		return ErrTokenMalformed
	}

	return nil
}
