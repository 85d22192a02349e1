// Package sqlite is the single-file store used for local runs and tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	base "budgetit-server/src/db"
	"budgetit-server/src/models"

	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite"

type Store struct {
	db *sql.DB
}

var _ base.Store = (*Store)(nil)

// DSN appends the connection pragmas every connection needs.
func DSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + pragmas
	}
	return path + "?" + pragmas
}

// Open creates the database file if needed, migrates it and returns a store.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	if err := base.RunMigrations(base.DriverSQLite, DSN(path)); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// one writer at a time; sqlite serializes anyway and this avoids SQLITE_BUSY churn
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an already-migrated connection.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return base.ErrNotFound
	}
	var sqlErr *sqlitedriver.Error
	if errors.As(err, &sqlErr) {
		switch code := sqlErr.Code(); {
		case code == sqlite3.SQLITE_CONSTRAINT_UNIQUE, code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY,
			code == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqlErr.Error(), "UNIQUE constraint failed"):
			return fmt.Errorf("%w: %s", base.ErrDuplicate, sqlErr.Error())
		case code&0xff == sqlite3.SQLITE_CONSTRAINT:
			return fmt.Errorf("%w: %s", base.ErrConstraint, sqlErr.Error())
		}
	}
	return err
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, user_type) VALUES (?, ?, ?, ?)`,
		u.Name, u.Email, u.PasswordHash, u.UserType)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", mapError(err))
	}
	return res.LastInsertId()
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, user_type, created_at FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.UserType, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", mapError(err))
	}
	return &u, nil
}

func (s *Store) UpdatePasswordHash(ctx context.Context, userID int64, hash string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, userID)
	if err != nil {
		return fmt.Errorf("update password hash: %w", mapError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update password hash: %w", base.ErrNotFound)
	}
	return nil
}

func (s *Store) CreateExpense(ctx context.Context, e *models.Expense) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, amount, category, description, date) VALUES (?, ?, ?, ?, ?)`,
		e.UserID, e.Amount, e.Category, e.Description, e.Date)
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", mapError(err))
	}
	return res.LastInsertId()
}

func (s *Store) ListExpenses(ctx context.Context, userID int64) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, amount, category, description, date
		FROM expenses
		WHERE user_id = ?
		ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", mapError(err))
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Description, &e.Date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *Store) SumExpensesByCategory(ctx context.Context, userID int64, from, to string) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, SUM(amount)
		FROM expenses
		WHERE user_id = ? AND date BETWEEN ? AND ?
		GROUP BY category`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("sum expenses: %w", mapError(err))
	}
	defer rows.Close()

	totals := map[string]float64{}
	for rows.Next() {
		var category string
		var total float64
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("scan expense total: %w", err)
		}
		totals[category] = total
	}
	return totals, rows.Err()
}

func (s *Store) UpsertBudget(ctx context.Context, b *models.Budget) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO budgets (user_id, category, amount, period) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, category)
		DO UPDATE SET amount = excluded.amount, period = excluded.period, updated_at = CURRENT_TIMESTAMP
		RETURNING id`,
		b.UserID, b.Category, b.Amount, b.Period).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert budget: %w", mapError(err))
	}
	return id, nil
}

func (s *Store) ListBudgets(ctx context.Context, userID int64) ([]models.Budget, error) {
	return s.queryBudgets(ctx, `
		SELECT id, user_id, category, amount, period FROM budgets
		WHERE user_id = ? ORDER BY id`, userID)
}

func (s *Store) ListBudgetsByPeriod(ctx context.Context, userID int64, period string) ([]models.Budget, error) {
	return s.queryBudgets(ctx, `
		SELECT id, user_id, category, amount, period FROM budgets
		WHERE user_id = ? AND period = ? ORDER BY id`, userID, period)
}

func (s *Store) queryBudgets(ctx context.Context, query string, args ...any) ([]models.Budget, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", mapError(err))
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.Period); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (s *Store) CreateGoal(ctx context.Context, g *models.Goal) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO goals (user_id, title, target_amount, target_date) VALUES (?, ?, ?, ?)`,
		g.UserID, g.Title, g.TargetAmount, g.TargetDate)
	if err != nil {
		return 0, fmt.Errorf("create goal: %w", mapError(err))
	}
	return res.LastInsertId()
}

func (s *Store) ListGoals(ctx context.Context, userID int64) ([]models.Goal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, target_amount, saved_amount, target_date
		FROM goals WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", mapError(err))
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.TargetAmount, &g.SavedAmount, &g.TargetDate); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// Session timestamps are written in UTC so the text comparison in
// DeleteExpiredSessions orders them correctly.

func (s *Store) CreateSession(ctx context.Context, sess *models.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, email, name, user_type, created_at, last_seen_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.UserID, sess.Email, sess.Name, sess.UserType,
		sess.CreatedAt.UTC(), sess.LastSeenAt.UTC(), sess.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("create session: %w", mapError(err))
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var sess models.Session
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, email, name, user_type, created_at, last_seen_at, expires_at
		FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.UserID, &sess.Email, &sess.Name, &sess.UserType,
		&sess.CreatedAt, &sess.LastSeenAt, &sess.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", mapError(err))
	}
	return &sess, nil
}

func (s *Store) TouchSession(ctx context.Context, id string, lastSeenAt, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET last_seen_at = ?, expires_at = ? WHERE id = ?`,
		lastSeenAt.UTC(), expiresAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("touch session: %w", mapError(err))
	}
	return nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", mapError(err))
	}
	return nil
}

func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", mapError(err))
	}
	return res.RowsAffected()
}
