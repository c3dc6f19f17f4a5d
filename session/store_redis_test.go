package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/pumaprintables/portal/models"
	"github.com/pumaprintables/portal/session"
)

func newRedisStore(t *testing.T) (*session.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return session.NewRedisStore(client), mr
}

func TestRedisStore_SaveLoadDelete(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	rec := &session.Record{
		Token: "tok-123",
		User: models.AuthUser{
			Username: "alice",
			Role:     models.RoleAdmin,
			Email:    "alice@example.com",
		},
		ExpiresAt: time.Now().Add(time.Hour).UnixMilli(),
	}
	assert.NoError(t, store.Save(ctx, "sid-1", rec))

	got, err := store.Load(ctx, "sid-1")
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, rec.Token, got.Token)
	assert.Equal(t, rec.User, got.User)
	assert.Equal(t, rec.ExpiresAt, got.ExpiresAt)

	assert.NoError(t, store.Delete(ctx, "sid-1"))
	got, err = store.Load(ctx, "sid-1")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_MissingKey(t *testing.T) {
	store, _ := newRedisStore(t)

	got, err := store.Load(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_TTLTracksExpiry(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	rec := &session.Record{
		Token:     "tok-123",
		ExpiresAt: time.Now().Add(time.Hour).UnixMilli(),
	}
	assert.NoError(t, store.Save(ctx, "sid-1", rec))

	ttl := mr.TTL("session:sid-1")
	assert.Greater(t, ttl, 55*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)
}

func TestRedisStore_NoExpiryGetsDefaultTTL(t *testing.T) {
	store, mr := newRedisStore(t)

	assert.NoError(t, store.Save(context.Background(), "sid-1", &session.Record{Token: "tok"}))
	assert.Equal(t, session.DefaultSessionTTL, mr.TTL("session:sid-1"))
}

func TestRedisStore_PastExpiryDeletes(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	mr.Set("session:sid-1", "old")
	rec := &session.Record{
		Token:     "tok",
		ExpiresAt: time.Now().Add(-time.Minute).UnixMilli(),
	}
	assert.NoError(t, store.Save(ctx, "sid-1", rec))
	assert.False(t, mr.Exists("session:sid-1"))
}

func TestRedisStore_CorruptEntryWiped(t *testing.T) {
	store, mr := newRedisStore(t)

	mr.Set("session:sid-1", "{not json")

	got, err := store.Load(context.Background(), "sid-1")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists("session:sid-1"))
}
