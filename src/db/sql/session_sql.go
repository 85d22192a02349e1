package db

import (
	"budgetit-server/src/models"
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateSession(ctx context.Context, pool *pgxpool.Pool, s *models.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, email, name, user_type, created_at, last_seen_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := pool.Exec(ctx, query, s.ID, s.UserID, s.Email, s.Name, s.UserType, s.CreatedAt, s.LastSeenAt, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", mapError(err))
	}
	return nil
}

func GetSession(ctx context.Context, pool *pgxpool.Pool, id string) (*models.Session, error) {
	query := `
		SELECT id, user_id, email, name, user_type, created_at, last_seen_at, expires_at
		FROM sessions
		WHERE id = $1
	`
	var s models.Session
	err := pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.Email, &s.Name, &s.UserType, &s.CreatedAt, &s.LastSeenAt, &s.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", mapError(err))
	}
	return &s, nil
}

func TouchSession(ctx context.Context, pool *pgxpool.Pool, id string, lastSeenAt, expiresAt time.Time) error {
	query := `UPDATE sessions SET last_seen_at = $1, expires_at = $2 WHERE id = $3`
	if _, err := pool.Exec(ctx, query, lastSeenAt, expiresAt, id); err != nil {
		return fmt.Errorf("failed to touch session: %w", mapError(err))
	}
	return nil
}

func DeleteSession(ctx context.Context, pool *pgxpool.Pool, id string) error {
	if _, err := pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", mapError(err))
	}
	return nil
}

func DeleteExpiredSessions(ctx context.Context, pool *pgxpool.Pool, now time.Time) (int64, error) {
	cmd, err := pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", mapError(err))
	}
	return cmd.RowsAffected(), nil
}
