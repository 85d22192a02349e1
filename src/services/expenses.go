package services

import (
	"context"
	"strings"

	"budgetit-server/src/db"
	"budgetit-server/src/logger"
	"budgetit-server/src/metrics"
	"budgetit-server/src/models"

	"go.uber.org/zap"
)

type ExpenseService struct {
	store db.Store
	clock Clock
}

// List returns p's expenses, newest date first.
func (s *ExpenseService) List(ctx context.Context, p models.Principal) ([]models.Expense, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, p.UserID)
	if err != nil {
		return nil, storageError("failed to list expenses", err)
	}
	return expenses, nil
}

// Add records an expense dated today unless the request names a date.
func (s *ExpenseService) Add(ctx context.Context, p models.Principal, req models.ExpenseRequest) (int64, error) {
	if err := requirePrincipal(p); err != nil {
		return 0, err
	}
	req.Category = strings.TrimSpace(req.Category)
	req.Date = strings.TrimSpace(req.Date)
	if err := validateRequest(req, msgMissingFields); err != nil {
		return 0, err
	}
	if req.Date == "" {
		req.Date = s.clock.Today().Format(models.DateLayout)
	}

	expense := &models.Expense{
		UserID:      p.UserID,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
	}
	id, err := s.store.CreateExpense(ctx, expense)
	if err != nil {
		return 0, storageError("failed to create expense", err)
	}

	logger.Get().Debug("expense added",
		zap.Int64("user_id", p.UserID),
		zap.Int64("expense_id", id),
		zap.String("category", expense.Category),
	)
	metrics.RecordExpenseCreated()
	return id, nil
}
