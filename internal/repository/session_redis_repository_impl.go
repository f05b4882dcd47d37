package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-healthbot/internal/domain/entity"
	domainRepo "go-healthbot/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "healthbot:session:"

type redisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionRepository stores each session as a JSON document under
// healthbot:session:<user id>. A non-positive ttl keeps keys forever.
func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) domainRepo.SessionRepository {
	return &redisSessionRepository{client: client, ttl: ttl}
}

func sessionKey(userID string) string {
	return sessionKeyPrefix + userID
}

func (r *redisSessionRepository) Get(ctx context.Context, userID string) (*entity.Session, error) {
	raw, err := r.client.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return entity.UnmarshalSession(raw)
}

func (r *redisSessionRepository) Save(ctx context.Context, session *entity.Session) error {
	raw, err := entity.MarshalSession(session)
	if err != nil {
		return err
	}

	ttl := r.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, sessionKey(session.UserID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
