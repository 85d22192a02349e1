package db

import (
	"fmt"
	"time"

	"budgetit-server/src/models"

	"github.com/dgraph-io/ristretto"
)

// SessionCache fronts session lookups. Entries live at most maxStale so a
// revocation made by another process is seen within that bound.
type SessionCache struct {
	cache    *ristretto.Cache
	maxStale time.Duration
}

func NewSessionCache(maxEntries int64, maxStale time.Duration) (*SessionCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10, // number of keys to track frequency of
		MaxCost:     maxEntries,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session cache: %w", err)
	}
	return &SessionCache{cache: cache, maxStale: maxStale}, nil
}

func (c *SessionCache) Get(id string) (*models.Session, bool) {
	v, ok := c.cache.Get(id)
	if !ok {
		return nil, false
	}
	s, ok := v.(models.Session)
	if !ok {
		return nil, false
	}
	return &s, true
}

func (c *SessionCache) Set(s *models.Session) {
	ttl := time.Until(s.ExpiresAt)
	if ttl > c.maxStale {
		ttl = c.maxStale
	}
	if ttl <= 0 {
		return
	}
	c.cache.SetWithTTL(s.ID, *s, 1, ttl)
}

// Delete evicts id and waits for buffered writes so a pending Set cannot
// resurrect it.
func (c *SessionCache) Delete(id string) {
	c.cache.Del(id)
	c.cache.Wait()
}

func (c *SessionCache) Close() {
	c.cache.Close()
}
