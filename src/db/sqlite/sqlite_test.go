package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	base "budgetit-server/src/db"
	"budgetit-server/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
}

func (s *StoreTestSuite) SetupTest() {
	store, err := Open(filepath.Join(s.T().TempDir(), "budgetit.db"))
	require.NoError(s.T(), err, "failed to open test database")
	s.store = store
	s.ctx = context.Background()
}

func (s *StoreTestSuite) TearDownTest() {
	if s.store != nil {
		s.store.Close()
	}
}

func (s *StoreTestSuite) createUser(email string) int64 {
	id, err := s.store.CreateUser(s.ctx, &models.User{
		Name:         "Test",
		Email:        email,
		PasswordHash: "hash",
		UserType:     models.UserTypeStudent,
	})
	require.NoError(s.T(), err)
	return id
}

func (s *StoreTestSuite) TestCreateAndGetUser() {
	id := s.createUser("a@x.com")
	assert.Positive(s.T(), id)

	u, err := s.store.GetUserByEmail(s.ctx, "a@x.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), id, u.ID)
	assert.Equal(s.T(), "hash", u.PasswordHash)
	assert.Equal(s.T(), models.UserTypeStudent, u.UserType)
	assert.False(s.T(), u.CreatedAt.IsZero())
}

func (s *StoreTestSuite) TestDuplicateEmail() {
	s.createUser("a@x.com")
	_, err := s.store.CreateUser(s.ctx, &models.User{Name: "B", Email: "a@x.com", PasswordHash: "h", UserType: "student"})
	assert.ErrorIs(s.T(), err, base.ErrDuplicate)
}

func (s *StoreTestSuite) TestUnknownEmail() {
	_, err := s.store.GetUserByEmail(s.ctx, "nobody@x.com")
	assert.ErrorIs(s.T(), err, base.ErrNotFound)
}

func (s *StoreTestSuite) TestUpdatePasswordHash() {
	id := s.createUser("a@x.com")
	require.NoError(s.T(), s.store.UpdatePasswordHash(s.ctx, id, "new"))

	u, err := s.store.GetUserByEmail(s.ctx, "a@x.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "new", u.PasswordHash)

	assert.ErrorIs(s.T(), s.store.UpdatePasswordHash(s.ctx, 9999, "x"), base.ErrNotFound)
}

func (s *StoreTestSuite) TestExpensesOrderedAndIsolated() {
	alice := s.createUser("alice@x.com")
	bob := s.createUser("bob@x.com")

	for _, e := range []models.Expense{
		{UserID: alice, Amount: 10, Category: "food", Date: "2024-01-01"},
		{UserID: alice, Amount: 20, Category: "travel", Date: "2024-01-03"},
		{UserID: alice, Amount: 30, Category: "food", Date: "2024-01-03"},
		{UserID: bob, Amount: 99, Category: "food", Date: "2024-01-05"},
	} {
		_, err := s.store.CreateExpense(s.ctx, &e)
		require.NoError(s.T(), err)
	}

	list, err := s.store.ListExpenses(s.ctx, alice)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 3)
	// same date breaks ties by id desc
	assert.Equal(s.T(), 30.0, list[0].Amount)
	assert.Equal(s.T(), 20.0, list[1].Amount)
	assert.Equal(s.T(), "2024-01-01", list[2].Date)
	for _, e := range list {
		assert.Equal(s.T(), alice, e.UserID)
	}

	empty, err := s.store.ListExpenses(s.ctx, 4242)
	require.NoError(s.T(), err)
	assert.NotNil(s.T(), empty)
	assert.Empty(s.T(), empty)
}

func (s *StoreTestSuite) TestSumExpensesByCategoryIsInclusive() {
	uid := s.createUser("a@x.com")
	for _, e := range []models.Expense{
		{UserID: uid, Amount: 5, Category: "food", Date: "2024-01-01"},
		{UserID: uid, Amount: 7, Category: "food", Date: "2024-01-07"},
		{UserID: uid, Amount: 3, Category: "fun", Date: "2024-01-04"},
		{UserID: uid, Amount: 100, Category: "food", Date: "2023-12-31"},
		{UserID: uid, Amount: 100, Category: "food", Date: "2024-01-08"},
	} {
		_, err := s.store.CreateExpense(s.ctx, &e)
		require.NoError(s.T(), err)
	}

	totals, err := s.store.SumExpensesByCategory(s.ctx, uid, "2024-01-01", "2024-01-07")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), map[string]float64{"food": 12, "fun": 3}, totals)
}

func (s *StoreTestSuite) TestExpenseConstraints() {
	uid := s.createUser("a@x.com")

	_, err := s.store.CreateExpense(s.ctx, &models.Expense{UserID: uid, Amount: -1, Category: "food", Date: "2024-01-01"})
	assert.ErrorIs(s.T(), err, base.ErrConstraint)

	_, err = s.store.CreateExpense(s.ctx, &models.Expense{UserID: uid, Amount: 1, Category: "food", Date: "not-a-date"})
	assert.ErrorIs(s.T(), err, base.ErrConstraint)

	_, err = s.store.CreateExpense(s.ctx, &models.Expense{UserID: 9999, Amount: 1, Category: "food", Date: "2024-01-01"})
	assert.ErrorIs(s.T(), err, base.ErrConstraint, "foreign keys must be enforced")
}

func (s *StoreTestSuite) TestUpsertBudgetKeepsOneRow() {
	uid := s.createUser("a@x.com")

	first, err := s.store.UpsertBudget(s.ctx, &models.Budget{UserID: uid, Category: "food", Amount: 100, Period: models.PeriodMonthly})
	require.NoError(s.T(), err)
	second, err := s.store.UpsertBudget(s.ctx, &models.Budget{UserID: uid, Category: "food", Amount: 50, Period: models.PeriodWeekly})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), first, second)

	budgets, err := s.store.ListBudgets(s.ctx, uid)
	require.NoError(s.T(), err)
	require.Len(s.T(), budgets, 1)
	assert.Equal(s.T(), 50.0, budgets[0].Amount)
	assert.Equal(s.T(), models.PeriodWeekly, budgets[0].Period)

	weekly, err := s.store.ListBudgetsByPeriod(s.ctx, uid, models.PeriodWeekly)
	require.NoError(s.T(), err)
	assert.Len(s.T(), weekly, 1)
	monthly, err := s.store.ListBudgetsByPeriod(s.ctx, uid, models.PeriodMonthly)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), monthly)
}

func (s *StoreTestSuite) TestBudgetsPerUser() {
	alice := s.createUser("alice@x.com")
	bob := s.createUser("bob@x.com")

	_, err := s.store.UpsertBudget(s.ctx, &models.Budget{UserID: alice, Category: "food", Amount: 1, Period: "weekly"})
	require.NoError(s.T(), err)
	_, err = s.store.UpsertBudget(s.ctx, &models.Budget{UserID: bob, Category: "food", Amount: 2, Period: "weekly"})
	require.NoError(s.T(), err)

	budgets, err := s.store.ListBudgets(s.ctx, alice)
	require.NoError(s.T(), err)
	require.Len(s.T(), budgets, 1)
	assert.Equal(s.T(), 1.0, budgets[0].Amount)
}

func (s *StoreTestSuite) TestGoals() {
	uid := s.createUser("a@x.com")
	id, err := s.store.CreateGoal(s.ctx, &models.Goal{UserID: uid, Title: "Laptop", TargetAmount: 1000, TargetDate: "2025-12-31"})
	require.NoError(s.T(), err)

	goals, err := s.store.ListGoals(s.ctx, uid)
	require.NoError(s.T(), err)
	require.Len(s.T(), goals, 1)
	assert.Equal(s.T(), id, goals[0].ID)
	assert.Equal(s.T(), 0.0, goals[0].SavedAmount)
	assert.Equal(s.T(), "2025-12-31", goals[0].TargetDate)
}

func (s *StoreTestSuite) TestSessionLifecycle() {
	uid := s.createUser("a@x.com")
	now := time.Now().Truncate(time.Second)
	sess := &models.Session{
		ID:         "sess-1",
		Principal:  models.Principal{UserID: uid, Email: "a@x.com", Name: "Test", UserType: "student"},
		CreatedAt:  now,
		LastSeenAt: now,
		ExpiresAt:  now.Add(time.Hour),
	}
	require.NoError(s.T(), s.store.CreateSession(s.ctx, sess))
	assert.ErrorIs(s.T(), s.store.CreateSession(s.ctx, sess), base.ErrDuplicate)

	got, err := s.store.GetSession(s.ctx, "sess-1")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), sess.Principal, got.Principal)
	assert.True(s.T(), got.ExpiresAt.Equal(sess.ExpiresAt))

	later := now.Add(30 * time.Minute)
	require.NoError(s.T(), s.store.TouchSession(s.ctx, "sess-1", later, later.Add(time.Hour)))
	got, err = s.store.GetSession(s.ctx, "sess-1")
	require.NoError(s.T(), err)
	assert.True(s.T(), got.LastSeenAt.Equal(later))

	require.NoError(s.T(), s.store.DeleteSession(s.ctx, "sess-1"))
	_, err = s.store.GetSession(s.ctx, "sess-1")
	assert.ErrorIs(s.T(), err, base.ErrNotFound)
}

func (s *StoreTestSuite) TestDeleteExpiredSessions() {
	uid := s.createUser("a@x.com")
	now := time.Now()
	p := models.Principal{UserID: uid, Email: "a@x.com", Name: "Test", UserType: "student"}

	require.NoError(s.T(), s.store.CreateSession(s.ctx, &models.Session{
		ID: "old", Principal: p, CreatedAt: now.Add(-2 * time.Hour), LastSeenAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour),
	}))
	require.NoError(s.T(), s.store.CreateSession(s.ctx, &models.Session{
		ID: "live", Principal: p, CreatedAt: now, LastSeenAt: now, ExpiresAt: now.Add(time.Hour),
	}))

	n, err := s.store.DeleteExpiredSessions(s.ctx, now)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), n)

	_, err = s.store.GetSession(s.ctx, "live")
	assert.NoError(s.T(), err)
}

func (s *StoreTestSuite) TestPing() {
	assert.NoError(s.T(), s.store.Ping(s.ctx))
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func TestDSNAppendsPragmas(t *testing.T) {
	assert.Equal(t, "a.db?"+pragmas, DSN("a.db"))
	assert.Equal(t, "a.db?mode=rwc&"+pragmas, DSN("a.db?mode=rwc"))
}
