package db

import (
	"budgetit-server/src/models"
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

func UpsertBudget(ctx context.Context, pool *pgxpool.Pool, budget *models.Budget) (int64, error) {
	query := `
		INSERT INTO budgets (user_id, category, amount, period)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, category)
		DO UPDATE SET amount = EXCLUDED.amount, period = EXCLUDED.period, updated_at = NOW()
		RETURNING id
	`
	var id int64
	err := pool.QueryRow(ctx, query, budget.UserID, budget.Category, budget.Amount, budget.Period).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert budget: %w", mapError(err))
	}
	return id, nil
}

func GetAllBudgetsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.Budget, error) {
	query := `
		SELECT id, user_id, category, amount, period
		FROM budgets WHERE user_id = $1
		ORDER BY id
	`
	return queryBudgets(ctx, pool, query, userID)
}

func GetBudgetsByPeriod(ctx context.Context, pool *pgxpool.Pool, userID int64, period string) ([]models.Budget, error) {
	query := `
		SELECT id, user_id, category, amount, period
		FROM budgets WHERE user_id = $1 AND period = $2
		ORDER BY id
	`
	return queryBudgets(ctx, pool, query, userID, period)
}

func queryBudgets(ctx context.Context, pool *pgxpool.Pool, query string, args ...any) ([]models.Budget, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", mapError(err))
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.Period); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}
