// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package sec

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// Hasher performs one-way password hashing with a tunable work factor.
//
// # Denial-of-Service Protection
//
// Bcrypt is deliberately expensive. Without a bound, an attacker can saturate
// every CPU core by spamming login or registration requests. Hash and Verify
// therefore acquire a slot on a weighted semaphore before doing any work, so
// at most maxConcurrent hashing operations run at once; the rest queue on the
// request context.
type Hasher struct {
	cost     int
	hashSlot *semaphore.Weighted
}

// NewHasher constructs a [Hasher] with the given bcrypt cost and concurrency cap.
//
// Out-of-range costs are clamped to bcrypt's supported window rather than
// failing at startup.
func NewHasher(cost, maxConcurrent int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Hasher{
		cost:     cost,
		hashSlot: semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// Hash derives a salted bcrypt hash from a plain-text secret.
//
// The salt is generated per call, so hashing the same secret twice yields two
// different stored values that both verify.
func (hasher *Hasher) Hash(ctx context.Context, plainTextSecret string) (string, error) {
	if err := hasher.hashSlot.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("sec: hashing slot unavailable: %w", err)
	}
	defer hasher.hashSlot.Release(1)

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextSecret), hasher.cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash secret: %w", err)
	}
	return string(hashedBytes), nil
}

// Verify compares a plain-text secret with its stored hash.
//
// It never returns an error: a malformed hash, a context cancellation while
// queueing, and a genuine mismatch all report false. Bcrypt's comparison is
// constant-time with respect to the password bytes.
func (hasher *Hasher) Verify(ctx context.Context, plainTextSecret, existingHash string) bool {
	if err := hasher.hashSlot.Acquire(ctx, 1); err != nil {
		return false
	}
	defer hasher.hashSlot.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextSecret)) == nil
}
