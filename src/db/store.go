package db

import (
	"context"
	"errors"
	"time"

	"budgetit-server/src/models"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("duplicate key")
	ErrConstraint = errors.New("constraint violation")
)

// Store is the relational store behind every service. Reads are always
// scoped by the caller-supplied user id.
type Store interface {
	Ping(ctx context.Context) error
	Close() error

	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, userID int64, hash string) error

	CreateExpense(ctx context.Context, e *models.Expense) (int64, error)
	// ListExpenses orders by date desc, then id desc.
	ListExpenses(ctx context.Context, userID int64) ([]models.Expense, error)
	// SumExpensesByCategory totals expenses dated within [from, to], both inclusive.
	SumExpensesByCategory(ctx context.Context, userID int64, from, to string) (map[string]float64, error)

	// UpsertBudget replaces the user's budget for b.Category, keeping its id.
	UpsertBudget(ctx context.Context, b *models.Budget) (int64, error)
	ListBudgets(ctx context.Context, userID int64) ([]models.Budget, error)
	ListBudgetsByPeriod(ctx context.Context, userID int64, period string) ([]models.Budget, error)

	CreateGoal(ctx context.Context, g *models.Goal) (int64, error)
	ListGoals(ctx context.Context, userID int64) ([]models.Goal, error)

	SessionStore
}

type SessionStore interface {
	CreateSession(ctx context.Context, s *models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	TouchSession(ctx context.Context, id string, lastSeenAt, expiresAt time.Time) error
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}
