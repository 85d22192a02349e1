package db

import (
	"context"
	"time"

	base "budgetit-server/src/db"
	"budgetit-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store adapts the query functions in this package to base.Store.
type Store struct {
	pool *pgxpool.Pool
}

var _ base.Store = (*Store)(nil)

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	return CreateUser(ctx, s.pool, u)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return GetUserByEmail(ctx, s.pool, email)
}

func (s *Store) UpdatePasswordHash(ctx context.Context, userID int64, hash string) error {
	return UpdateUserPasswordHash(ctx, s.pool, userID, hash)
}

func (s *Store) CreateExpense(ctx context.Context, e *models.Expense) (int64, error) {
	return CreateExpense(ctx, s.pool, e)
}

func (s *Store) ListExpenses(ctx context.Context, userID int64) ([]models.Expense, error) {
	return GetExpensesForUser(ctx, s.pool, userID)
}

func (s *Store) SumExpensesByCategory(ctx context.Context, userID int64, from, to string) (map[string]float64, error) {
	return SumExpensesByCategory(ctx, s.pool, userID, from, to)
}

func (s *Store) UpsertBudget(ctx context.Context, b *models.Budget) (int64, error) {
	return UpsertBudget(ctx, s.pool, b)
}

func (s *Store) ListBudgets(ctx context.Context, userID int64) ([]models.Budget, error) {
	return GetAllBudgetsForUser(ctx, s.pool, userID)
}

func (s *Store) ListBudgetsByPeriod(ctx context.Context, userID int64, period string) ([]models.Budget, error) {
	return GetBudgetsByPeriod(ctx, s.pool, userID, period)
}

func (s *Store) CreateGoal(ctx context.Context, g *models.Goal) (int64, error) {
	return CreateGoal(ctx, s.pool, g)
}

func (s *Store) ListGoals(ctx context.Context, userID int64) ([]models.Goal, error) {
	return GetAllGoalsForUser(ctx, s.pool, userID)
}

func (s *Store) CreateSession(ctx context.Context, sess *models.Session) error {
	return CreateSession(ctx, s.pool, sess)
}

func (s *Store) GetSession(ctx context.Context, id string) (*models.Session, error) {
	return GetSession(ctx, s.pool, id)
}

func (s *Store) TouchSession(ctx context.Context, id string, lastSeenAt, expiresAt time.Time) error {
	return TouchSession(ctx, s.pool, id, lastSeenAt, expiresAt)
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	return DeleteSession(ctx, s.pool, id)
}

func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return DeleteExpiredSessions(ctx, s.pool, now)
}
