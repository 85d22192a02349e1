package db

import (
	"errors"
	"fmt"
	"strings"

	base "budgetit-server/src/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// mapError translates driver errors into the storage errors services understand.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return base.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return fmt.Errorf("%w: %s", base.ErrDuplicate, pgErr.ConstraintName)
		case strings.HasPrefix(pgErr.Code, "23"), strings.HasPrefix(pgErr.Code, "22"):
			// integrity constraint violations and data exceptions (bad dates, overflow)
			return fmt.Errorf("%w: %s", base.ErrConstraint, pgErr.Message)
		}
	}
	return err
}
