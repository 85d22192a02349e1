package db

import (
	"budgetit-server/src/models"
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateGoal(ctx context.Context, pool *pgxpool.Pool, g *models.Goal) (int64, error) {
	query := `
		INSERT INTO goals (user_id, title, target_amount, target_date)
		VALUES ($1, $2, $3, $4::date)
		RETURNING id
	`
	var id int64
	err := pool.QueryRow(ctx, query, g.UserID, g.Title, g.TargetAmount, g.TargetDate).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create goal: %w", mapError(err))
	}
	return id, nil
}

func GetAllGoalsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.Goal, error) {
	query := `
		SELECT id, user_id, title, target_amount, saved_amount, to_char(target_date, 'YYYY-MM-DD')
		FROM goals
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", mapError(err))
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.TargetAmount, &g.SavedAmount, &g.TargetDate); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}
