// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package auth

// # Authentication Constraints

const (
	// ResetTokenLength is the byte length of the random password reset token.
	// Reset tokens are opaque random bytes, not signed tokens: they travel
	// out-of-band (email) and must be non-parseable.
	ResetTokenLength = 32

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8

	// MinUsernameLength is the minimum accepted username length.
	MinUsernameLength = 3

	// MaxUsernameLength caps usernames to keep display layouts sane.
	MaxUsernameLength = 40
)
