package session

import (
	"context"
	"os"
	"testing"
	"time"

	"budgetit-server/src/db"
	"budgetit-server/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "budgetit:session:abc", sessionKey("abc"))
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	client, err := DialRedis(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	store := NewRedisStore(client)

	now := time.Now().Truncate(time.Second)
	sess := &models.Session{
		ID:         "redis-test-" + now.Format("150405"),
		Principal:  models.Principal{UserID: 1, Email: "a@x.com", Name: "A", UserType: "student"},
		CreatedAt:  now,
		LastSeenAt: now,
		ExpiresAt:  now.Add(time.Minute),
	}
	require.NoError(t, store.CreateSession(ctx, sess))
	t.Cleanup(func() { store.DeleteSession(ctx, sess.ID) })
	assert.ErrorIs(t, store.CreateSession(ctx, sess), db.ErrDuplicate)

	got, err := store.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Principal, got.Principal)

	require.NoError(t, store.TouchSession(ctx, sess.ID, now.Add(time.Second), now.Add(2*time.Minute)))
	got, err = store.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, got.ExpiresAt.Equal(now.Add(2*time.Minute)))

	require.NoError(t, store.DeleteSession(ctx, sess.ID))
	_, err = store.GetSession(ctx, sess.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.ErrorIs(t, store.TouchSession(ctx, sess.ID, now, now.Add(time.Minute)), db.ErrNotFound)
}
