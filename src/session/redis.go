package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"budgetit-server/src/db"
	"budgetit-server/src/models"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "budgetit:session:"

// RedisStore keeps session records in redis with a key TTL equal to the
// session's expiry, so expired records disappear on their own.
type RedisStore struct {
	client *redis.Client
}

var _ db.SessionStore = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// DialRedis parses url, connects and pings.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func sessionKey(id string) string {
	return keyPrefix + id
}

func (s *RedisStore) CreateSession(ctx context.Context, sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, sessionKey(sess.ID), data, time.Until(sess.ExpiresAt)).Result()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	if !ok {
		return fmt.Errorf("failed to create session: %w", db.ErrDuplicate)
	}
	return nil
}

func (s *RedisStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) TouchSession(ctx context.Context, id string, lastSeenAt, expiresAt time.Time) error {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return err
	}
	sess.LastSeenAt = lastSeenAt
	sess.ExpiresAt = expiresAt
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	// XX so a concurrent revoke is not undone
	if err := s.client.SetXX(ctx, sessionKey(id), data, time.Until(expiresAt)).Err(); err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteSession(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions is a no-op: redis expires keys itself.
func (s *RedisStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}
