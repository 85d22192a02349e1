package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"budgetit-server/src/db/sqlite"
	"budgetit-server/src/logger"
	"budgetit-server/src/models"
	"budgetit-server/src/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}

func newManager(t *testing.T) (*session.Manager, models.Principal) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "budgetit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	uid, err := store.CreateUser(context.Background(), &models.User{Name: "A", Email: "a@x.com", PasswordHash: "h", UserType: "student"})
	require.NoError(t, err)

	m := session.NewManager(store, nil, session.Options{Secret: []byte("s"), IdleTimeout: time.Hour, MaxAge: time.Hour})
	return m, models.Principal{UserID: uid, Email: "a@x.com", Name: "A", UserType: "student"}
}

func TestSessionAuth(t *testing.T) {
	m, p := newManager(t)
	token, _, err := m.Issue(context.Background(), p)
	require.NoError(t, err)

	var seen models.Principal
	h := SessionAuth(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = PrincipalFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authenticated", errorBody(t, rec))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, p, seen)

	seen = models.Principal{}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, p, seen, "bearer header is equivalent to the cookie")
}

func TestPrincipalFromEmptyContext(t *testing.T) {
	assert.True(t, PrincipalFromContext(context.Background()).IsZero())
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"http://localhost:5173"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/expenses", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestDemoMode(t *testing.T) {
	tests := []struct {
		name   string
		demo   bool
		method string
		path   string
		want   int
	}{
		{"reads allowed", true, http.MethodGet, "/api/expenses", http.StatusOK},
		{"signin allowed", true, http.MethodPost, "/api/auth/signin", http.StatusOK},
		{"signup allowed", true, http.MethodPost, "/api/auth/signup", http.StatusOK},
		{"logout allowed", true, http.MethodPost, "/api/auth/logout", http.StatusOK},
		{"writes rejected", true, http.MethodPost, "/api/expenses", http.StatusForbidden},
		{"off by default", false, http.MethodPost, "/api/expenses", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			DemoMode(tt.demo)(okHandler).ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	h := rl.Handler(okHandler)

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1001"), "ports share a bucket")
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1000"), "clients are limited independently")
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(nil) })

	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/goals", nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/api/goals", fields["path"])
	assert.Equal(t, int64(http.StatusBadRequest), fields["status"])
}
