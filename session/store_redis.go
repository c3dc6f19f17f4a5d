package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultSessionTTL bounds sessions whose tokens carry no expiry claim.
const DefaultSessionTTL = 7 * 24 * time.Hour

// RedisStore persists sessions as JSON values in redis. Keys expire with the
// token so an expired session disappears even if the portal never touches it
// again.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) key(sid string) string {
	return "session:" + sid
}

func (s *RedisStore) Load(ctx context.Context, sid string) (*Record, error) {
	data, err := s.client.Get(ctx, s.key(sid)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		// Corrupt entry: wipe it and report no session.
		_ = s.client.Del(ctx, s.key(sid)).Err()
		return nil, nil
	}
	return &rec, nil
}

func (s *RedisStore) Save(ctx context.Context, sid string, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	ttl := DefaultSessionTTL
	if rec.ExpiresAt > 0 {
		ttl = time.Until(time.UnixMilli(rec.ExpiresAt))
		if ttl <= 0 {
			return s.Delete(ctx, sid)
		}
	}
	return s.client.Set(ctx, s.key(sid), data, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	return s.client.Del(ctx, s.key(sid)).Err()
}
