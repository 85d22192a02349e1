package db

import (
	base "budgetit-server/src/db"
	"budgetit-server/src/models"
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateUser(ctx context.Context, pool *pgxpool.Pool, u *models.User) (int64, error) {
	query := `
		INSERT INTO users (name, email, password_hash, user_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var userID int64
	err := pool.QueryRow(ctx, query, u.Name, u.Email, u.PasswordHash, u.UserType).Scan(&userID)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", mapError(err))
	}
	return userID, nil
}

func GetUserByEmail(ctx context.Context, pool *pgxpool.Pool, email string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, name, email, password_hash, user_type, created_at
		FROM users
		WHERE email = $1
	`
	err := pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.UserType,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", mapError(err))
	}
	return &user, nil
}

func UpdateUserPasswordHash(ctx context.Context, pool *pgxpool.Pool, userID int64, hash string) error {
	query := `UPDATE users SET password_hash = $1 WHERE id = $2`
	cmd, err := pool.Exec(ctx, query, hash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", mapError(err))
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("failed to update password hash: %w", base.ErrNotFound)
	}
	return nil
}
