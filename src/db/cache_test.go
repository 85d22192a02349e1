package db

import (
	"testing"
	"time"

	"budgetit-server/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCacheRoundTrip(t *testing.T) {
	cache, err := NewSessionCache(100, time.Minute)
	require.NoError(t, err)
	defer cache.Close()

	s := &models.Session{
		ID:        "abc",
		Principal: models.Principal{UserID: 7, Email: "a@x.com", Name: "A", UserType: models.UserTypeStudent},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	cache.Set(s)
	cache.cache.Wait()

	got, ok := cache.Get("abc")
	require.True(t, ok)
	assert.Equal(t, int64(7), got.UserID)

	// The cached value is a copy.
	got.UserID = 99
	again, ok := cache.Get("abc")
	require.True(t, ok)
	assert.Equal(t, int64(7), again.UserID)

	cache.Delete("abc")
	_, ok = cache.Get("abc")
	assert.False(t, ok)
}

func TestSessionCacheSkipsExpired(t *testing.T) {
	cache, err := NewSessionCache(100, time.Minute)
	require.NoError(t, err)
	defer cache.Close()

	cache.Set(&models.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Second)})
	cache.cache.Wait()

	_, ok := cache.Get("old")
	assert.False(t, ok)
}
