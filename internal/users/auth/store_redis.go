// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/poetpiece/internal/platform/constants"
)

// RedisSessionRepository implements [SessionRepository].
//
// Each session is a hash at auth:session:<token hash> that expires with the
// session. auth:user_sessions:<user id> is a set of the user's token hashes
// so every session of a user can be dropped at once.
type RedisSessionRepository struct {
	client redis.UniversalClient
}

func NewSessionRepository(client redis.UniversalClient) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

type redisSession struct {
	UserID    string `redis:"user_id"`
	UserAgent string `redis:"user_agent"`
	IPAddress string `redis:"ip_address"`
	CreatedAt int64  `redis:"created_at"`
	ExpiresAt int64  `redis:"expires_at"`
}

func sessionKey(tokenHash string) string {
	return constants.RedisPrefixSession + tokenHash
}

func userSessionsKey(userID string) string {
	return constants.RedisPrefixUserSession + userID
}

func (repository *RedisSessionRepository) Create(context context.Context, session *Session) error {
	record := redisSession{
		UserID:    session.UserID,
		UserAgent: session.UserAgent,
		IPAddress: session.IPAddress,
		CreatedAt: session.CreatedAt.Unix(),
		ExpiresAt: session.ExpiresAt.Unix(),
	}

	_, err := repository.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.HSet(context, sessionKey(session.TokenHash), record)
		pipe.ExpireAt(context, sessionKey(session.TokenHash), session.ExpiresAt)
		pipe.SAdd(context, userSessionsKey(session.UserID), session.TokenHash)
		pipe.Expire(context, userSessionsKey(session.UserID), RefreshTokenTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_session_create_failed: %w", err)
	}
	return nil
}

func (repository *RedisSessionRepository) FindByTokenHash(context context.Context, tokenHash string) (*Session, error) {
	cmd := repository.client.HGetAll(context, sessionKey(tokenHash))
	fields, err := cmd.Result()
	if err != nil {
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrSessionNotFound
	}

	var record redisSession
	if err := cmd.Scan(&record); err != nil {
		return nil, fmt.Errorf("redis_session_scan_failed: %w", err)
	}

	return &Session{
		TokenHash: tokenHash,
		UserID:    record.UserID,
		UserAgent: record.UserAgent,
		IPAddress: record.IPAddress,
		CreatedAt: time.Unix(record.CreatedAt, 0),
		ExpiresAt: time.Unix(record.ExpiresAt, 0),
	}, nil
}

func (repository *RedisSessionRepository) Revoke(context context.Context, session *Session) error {
	_, err := repository.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Del(context, sessionKey(session.TokenHash))
		pipe.SRem(context, userSessionsKey(session.UserID), session.TokenHash)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_session_revoke_failed: %w", err)
	}
	return nil
}

func (repository *RedisSessionRepository) RevokeAll(context context.Context, userID string) error {
	return repository.RevokeOthers(context, userID, "")
}

func (repository *RedisSessionRepository) RevokeOthers(context context.Context, userID, keepHash string) error {
	hashes, err := repository.client.SMembers(context, userSessionsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("redis_session_list_failed: %w", err)
	}

	_, err = repository.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		for _, hash := range hashes {
			if hash == keepHash {
				continue
			}
			pipe.Del(context, sessionKey(hash))
			pipe.SRem(context, userSessionsKey(userID), hash)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_session_revoke_all_failed: %w", err)
	}
	return nil
}
