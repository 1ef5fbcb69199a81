// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/duybui/inkwell/internal/platform/constants"
)

// RedisResetTokenRepository implements ResetTokenRepository using Redis.
//
// # Key Scheme
//
// Two keys per live token, both expiring with the token's TTL:
//
//	auth:reset_token:<tokenHash> -> userID     (lookup on verify)
//	auth:reset_user:<userID>     -> tokenHash  (at-most-one-live enforcement)
//
// The per-user pointer key lets Set delete the previously issued token before
// storing the new one, so issuing a replacement invalidates the predecessor.
type RedisResetTokenRepository struct {
	client *redis.Client
}

// NewResetTokenRepository creates a new Redis-backed ResetTokenRepository.
func NewResetTokenRepository(client *redis.Client) *RedisResetTokenRepository {
	return &RedisResetTokenRepository{client: client}
}

/*
Set stores a hashed reset token for a user, invalidating any prior token.

Parameters:
  - context: context.Context
  - userID: string
  - tokenHash: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisResetTokenRepository) Set(context context.Context, userID, tokenHash string, ttl time.Duration) error {

	userKey := constants.RedisPrefixResetUser + userID

	// Invalidate the previously issued token for this user, if any.
	previousHash, err := repository.client.Get(context, userKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis_reset_token_lookup_previous_failed: %w", err)
	}
	if err == nil && previousHash != "" {
		if err := repository.client.Del(context, constants.RedisPrefixResetToken+previousHash).Err(); err != nil {
			return fmt.Errorf("redis_reset_token_delete_previous_failed: %w", err)
		}
	}

	// Store both halves atomically so neither key can outlive the other.
	pipeline := repository.client.TxPipeline()
	pipeline.Set(context, constants.RedisPrefixResetToken+tokenHash, userID, ttl)
	pipeline.Set(context, userKey, tokenHash, ttl)

	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("redis_reset_token_set_failed: %w", err)
	}

	return nil
}

/*
Get retrieves the userID for a given hashed token.

Description: Returns ErrResetTokenNotFound when the token is absent or has
expired. Redis TTL handles natural expiry, so both cases look identical here.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - string: Owning UserID
  - error: ErrResetTokenNotFound or connectivity errors
*/
func (repository *RedisResetTokenRepository) Get(context context.Context, tokenHash string) (string, error) {

	userID, err := repository.client.Get(context, constants.RedisPrefixResetToken+tokenHash).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrResetTokenNotFound
		}
		return "", fmt.Errorf("redis_reset_token_get_failed: %w", err)
	}

	return userID, nil
}

/*
Delete removes both halves of a consumed reset token.

Parameters:
  - context: context.Context
  - userID: string
  - tokenHash: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisResetTokenRepository) Delete(context context.Context, userID, tokenHash string) error {

	keys := []string{
		constants.RedisPrefixResetToken + tokenHash,
		constants.RedisPrefixResetUser + userID,
	}

	if err := repository.client.Del(context, keys...).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_delete_failed: %w", err)
	}

	return nil
}
