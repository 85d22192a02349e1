package services

import (
	"context"
	"strings"

	"budgetit-server/src/db"
	"budgetit-server/src/logger"
	"budgetit-server/src/models"

	"go.uber.org/zap"
)

type BudgetService struct {
	store db.Store
}

func (s *BudgetService) List(ctx context.Context, p models.Principal) ([]models.Budget, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	budgets, err := s.store.ListBudgets(ctx, p.UserID)
	if err != nil {
		return nil, storageError("failed to list budgets", err)
	}
	return budgets, nil
}

// Set creates or replaces p's budget for the category. Period defaults to weekly.
func (s *BudgetService) Set(ctx context.Context, p models.Principal, req models.BudgetRequest) error {
	if err := requirePrincipal(p); err != nil {
		return err
	}
	req.Category = strings.TrimSpace(req.Category)
	if err := validateRequest(req, msgMissingFields); err != nil {
		return err
	}
	if req.Period == "" {
		req.Period = models.PeriodWeekly
	}

	id, err := s.store.UpsertBudget(ctx, &models.Budget{
		UserID:   p.UserID,
		Category: req.Category,
		Amount:   req.Amount,
		Period:   req.Period,
	})
	if err != nil {
		return storageError("failed to set budget", err)
	}

	logger.Get().Debug("budget set",
		zap.Int64("user_id", p.UserID),
		zap.Int64("budget_id", id),
		zap.String("category", req.Category),
		zap.String("period", req.Period),
	)
	return nil
}
