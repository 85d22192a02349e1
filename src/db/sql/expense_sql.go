package db

import (
	"budgetit-server/src/models"
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateExpense(ctx context.Context, pool *pgxpool.Pool, e *models.Expense) (int64, error) {
	query := `
		INSERT INTO expenses (user_id, amount, category, description, date)
		VALUES ($1, $2, $3, $4, $5::date)
		RETURNING id
	`
	var id int64
	err := pool.QueryRow(ctx, query, e.UserID, e.Amount, e.Category, e.Description, e.Date).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create expense: %w", mapError(err))
	}
	return id, nil
}

func GetExpensesForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.Expense, error) {
	query := `
		SELECT id, user_id, amount, category, description, to_char(date, 'YYYY-MM-DD')
		FROM expenses
		WHERE user_id = $1
		ORDER BY date DESC, id DESC
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", mapError(err))
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Description, &e.Date); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func SumExpensesByCategory(ctx context.Context, pool *pgxpool.Pool, userID int64, from, to string) (map[string]float64, error) {
	query := `
		SELECT category, SUM(amount)
		FROM expenses
		WHERE user_id = $1 AND date BETWEEN $2::date AND $3::date
		GROUP BY category
	`
	rows, err := pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", mapError(err))
	}
	defer rows.Close()

	totals := map[string]float64{}
	for rows.Next() {
		var category string
		var total float64
		if err := rows.Scan(&category, &total); err != nil {
			return nil, err
		}
		totals[category] = total
	}
	return totals, rows.Err()
}
