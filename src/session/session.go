// Package session issues and resolves login sessions. Records live in a
// server-side store; the client holds a signed token naming the record.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"budgetit-server/src/db"
	"budgetit-server/src/logger"
	"budgetit-server/src/models"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const CookieName = "budgetit_session"

// ErrInvalid covers every reason a presented token does not map to a live
// session: bad signature, unknown id, revoked or expired.
var ErrInvalid = errors.New("invalid session")

type Options struct {
	Secret      []byte
	IdleTimeout time.Duration
	MaxAge      time.Duration
	Now         func() time.Time
}

type Manager struct {
	store  db.SessionStore
	cache  *db.SessionCache
	secret []byte
	idle   time.Duration
	maxAge time.Duration
	now    func() time.Time
}

// NewManager returns a manager over store. cache may be nil.
func NewManager(store db.SessionStore, cache *db.SessionCache, opts Options) *Manager {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxAge < opts.IdleTimeout {
		opts.MaxAge = opts.IdleTimeout
	}
	return &Manager{
		store:  store,
		cache:  cache,
		secret: opts.Secret,
		idle:   opts.IdleTimeout,
		maxAge: opts.MaxAge,
		now:    opts.Now,
	}
}

// RandomSecret returns a fresh signing key for processes started without one.
func RandomSecret() ([]byte, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate session secret: %w", err)
	}
	return b, nil
}

func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Issue creates a session for p and returns its signed token.
func (m *Manager) Issue(ctx context.Context, p models.Principal) (string, *models.Session, error) {
	id, err := newID()
	if err != nil {
		return "", nil, err
	}
	now := m.now()
	sess := &models.Session{
		ID:         id,
		Principal:  p,
		CreatedAt:  now,
		LastSeenAt: now,
		ExpiresAt:  now.Add(m.idle),
	}
	if err := m.store.CreateSession(ctx, sess); err != nil {
		return "", nil, fmt.Errorf("failed to store session: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        id,
		Subject:   strconv.FormatInt(p.UserID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
	})
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	if m.cache != nil {
		m.cache.Set(sess)
	}
	return tokenString, sess, nil
}

// parse verifies the token and returns the session id and user id it names.
func (m *Manager) parse(tokenString string) (string, int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signing method")
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", 0, ErrInvalid
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || claims.ID == "" {
		return "", 0, ErrInvalid
	}
	return claims.ID, userID, nil
}

func (m *Manager) lookup(ctx context.Context, id string) (*models.Session, error) {
	if m.cache != nil {
		if sess, ok := m.cache.Get(id); ok {
			return sess, nil
		}
	}
	sess, err := m.store.GetSession(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrInvalid
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Resolve maps a token to its live session, renewing the idle deadline once
// more than half of it has elapsed.
func (m *Manager) Resolve(ctx context.Context, tokenString string) (*models.Session, error) {
	id, userID, err := m.parse(tokenString)
	if err != nil {
		return nil, err
	}

	sess, err := m.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, ErrInvalid
	}

	now := m.now()
	hardLimit := sess.CreatedAt.Add(m.maxAge)
	if !now.Before(sess.ExpiresAt) || !now.Before(hardLimit) {
		m.drop(ctx, id)
		return nil, ErrInvalid
	}

	if sess.ExpiresAt.Sub(now) < m.idle/2 {
		expiresAt := now.Add(m.idle)
		if expiresAt.After(hardLimit) {
			expiresAt = hardLimit
		}
		if expiresAt.After(sess.ExpiresAt) {
			if err := m.store.TouchSession(ctx, id, now, expiresAt); err != nil {
				// the current deadline still holds; serve the request anyway
				logger.Get().Warn("failed to renew session", zap.Int64("user_id", sess.UserID), zap.Error(err))
			} else {
				sess.LastSeenAt = now
				sess.ExpiresAt = expiresAt
			}
		}
	}

	if m.cache != nil {
		m.cache.Set(sess)
	}
	return sess, nil
}

// Revoke deletes the session named by token. Unknown or invalid tokens are
// not an error.
func (m *Manager) Revoke(ctx context.Context, tokenString string) error {
	id, _, err := m.parse(tokenString)
	if err != nil {
		return nil
	}
	if m.cache != nil {
		m.cache.Delete(id)
	}
	if err := m.store.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// Sweep removes every expired record.
func (m *Manager) Sweep(ctx context.Context) (int64, error) {
	return m.store.DeleteExpiredSessions(ctx, m.now())
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := m.Sweep(ctx)
			if err != nil {
				if ctx.Err() == nil {
					logger.Get().Warn("expired session sweep failed", zap.Error(err))
				}
				continue
			}
			if n > 0 {
				logger.Get().Info("removed expired sessions", zap.Int64("count", n))
			}
		}
	}
}

func (m *Manager) drop(ctx context.Context, id string) {
	if m.cache != nil {
		m.cache.Delete(id)
	}
	if err := m.store.DeleteSession(ctx, id); err != nil {
		logger.Get().Warn("failed to delete expired session", zap.Error(err))
	}
}

// MaxAge is the absolute lifetime of a session, used for cookie expiry.
func (m *Manager) MaxAge() time.Duration {
	return m.maxAge
}
