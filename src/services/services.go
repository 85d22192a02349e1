// Package services holds the domain operations. Every operation takes the
// caller's principal explicitly and scopes its storage access to it.
package services

import (
	"errors"
	"fmt"
	"time"

	"budgetit-server/src/apperr"
	"budgetit-server/src/chat"
	"budgetit-server/src/db"
	"budgetit-server/src/models"
	"budgetit-server/src/session"
)

// Clock supplies the current time and the zone calendar dates are taken in.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func (c Clock) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Today is midnight of the current calendar date in the clock's zone.
func (c Clock) Today() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	y, m, d := c.now().In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

type Deps struct {
	Store      db.Store
	Sessions   *session.Manager
	Responder  chat.Responder
	Clock      Clock
	BcryptCost int
}

type Services struct {
	Auth      *AuthService
	Expenses  *ExpenseService
	Budgets   *BudgetService
	Goals     *GoalService
	Analytics *AnalyticsService
	Chat      *ChatService
}

func New(d Deps) *Services {
	if d.Responder == nil {
		d.Responder = chat.StaticLookup{}
	}
	return &Services{
		Auth:      &AuthService{store: d.Store, sessions: d.Sessions, bcryptCost: d.BcryptCost},
		Expenses:  &ExpenseService{store: d.Store, clock: d.Clock},
		Budgets:   &BudgetService{store: d.Store},
		Goals:     &GoalService{store: d.Store},
		Analytics: &AnalyticsService{store: d.Store, clock: d.Clock},
		Chat:      &ChatService{responder: d.Responder, clock: d.Clock},
	}
}

const msgNotAuthenticated = "Not authenticated"

func requirePrincipal(p models.Principal) error {
	if p.IsZero() {
		return apperr.Authentication(msgNotAuthenticated)
	}
	return nil
}

// storageError classifies a store failure for the HTTP layer.
func storageError(op string, err error) error {
	switch {
	case errors.Is(err, db.ErrDuplicate):
		return apperr.Wrap(apperr.KindConflict, "already exists", err)
	case errors.Is(err, db.ErrConstraint):
		return apperr.Wrap(apperr.KindValidation, "invalid input", err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
