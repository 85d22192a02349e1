package db

import (
	"context"
	"os"
	"testing"
	"time"

	base "budgetit-server/src/db"
	"budgetit-server/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore connects to TEST_DATABASE_URL, which must point at a
// disposable database.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, base.RunMigrations(base.DriverPostgres, url))

	ctx := context.Background()
	pool, err := base.Connect(ctx, url)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `TRUNCATE users, expenses, budgets, goals, sessions RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	store := NewStore(pool)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPostgresStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	uid, err := store.CreateUser(ctx, &models.User{Name: "A", Email: "a@x.com", PasswordHash: "h", UserType: "student"})
	require.NoError(t, err)
	_, err = store.CreateUser(ctx, &models.User{Name: "B", Email: "a@x.com", PasswordHash: "h", UserType: "student"})
	assert.ErrorIs(t, err, base.ErrDuplicate)

	for _, e := range []models.Expense{
		{UserID: uid, Amount: 10, Category: "food", Date: "2024-01-01"},
		{UserID: uid, Amount: 5, Category: "food", Date: "2024-01-07"},
		{UserID: uid, Amount: 50, Category: "food", Date: "2024-01-08"},
	} {
		_, err := store.CreateExpense(ctx, &e)
		require.NoError(t, err)
	}
	list, err := store.ListExpenses(ctx, uid)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "2024-01-08", list[0].Date)

	totals, err := store.SumExpensesByCategory(ctx, uid, "2024-01-01", "2024-01-07")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"food": 15}, totals)

	first, err := store.UpsertBudget(ctx, &models.Budget{UserID: uid, Category: "food", Amount: 100, Period: "monthly"})
	require.NoError(t, err)
	second, err := store.UpsertBudget(ctx, &models.Budget{UserID: uid, Category: "food", Amount: 40, Period: "weekly"})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	budgets, err := store.ListBudgetsByPeriod(ctx, uid, "weekly")
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, 40.0, budgets[0].Amount)

	_, err = store.CreateGoal(ctx, &models.Goal{UserID: uid, Title: "Bike", TargetAmount: 300, TargetDate: "2025-06-01"})
	require.NoError(t, err)
	goals, err := store.ListGoals(ctx, uid)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "2025-06-01", goals[0].TargetDate)

	now := time.Now()
	sess := &models.Session{
		ID:        "s1",
		Principal: models.Principal{UserID: uid, Email: "a@x.com", Name: "A", UserType: "student"},
		CreatedAt: now, LastSeenAt: now, ExpiresAt: now.Add(-time.Minute),
	}
	require.NoError(t, store.CreateSession(ctx, sess))
	n, err := store.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = store.GetSession(ctx, "s1")
	assert.ErrorIs(t, err, base.ErrNotFound)
}
