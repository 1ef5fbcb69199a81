// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a URL-safe random token backed by byteLength
// bytes of OS entropy.
//
// # Usage
//
// Password-reset tokens are delivered out-of-band (email) and must be
// indistinguishable from random noise — unlike JWTs they carry no structure
// and cannot be parsed.
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

// HashToken returns the hex-encoded SHA-256 digest of a raw token.
//
// Tokens at rest are stored only as digests so a leaked database does not
// expose usable credentials. SHA-256 is deterministic, which is what makes
// lookup-by-hash possible; the input space (256 bits of entropy) makes
// brute-forcing the digest infeasible without a work factor.
func HashToken(rawToken string) string {
	digest := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(digest[:])
}
