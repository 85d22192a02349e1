package services

import (
	"context"

	"budgetit-server/src/db"
	"budgetit-server/src/models"
)

// rollupDays is the length of the weekly window, today included.
const rollupDays = 7

type AnalyticsService struct {
	store db.Store
	clock Clock
}

// WeeklyRollup totals p's spending per category over the last seven
// calendar days and lists p's weekly budgets beside it.
func (s *AnalyticsService) WeeklyRollup(ctx context.Context, p models.Principal) (*models.WeeklyRollup, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}

	today := s.clock.Today()
	from := today.AddDate(0, 0, -(rollupDays - 1)).Format(models.DateLayout)
	to := today.Format(models.DateLayout)

	spent, err := s.store.SumExpensesByCategory(ctx, p.UserID, from, to)
	if err != nil {
		return nil, storageError("failed to sum expenses", err)
	}

	budgets, err := s.store.ListBudgetsByPeriod(ctx, p.UserID, models.PeriodWeekly)
	if err != nil {
		return nil, storageError("failed to list weekly budgets", err)
	}

	limits := make(map[string]float64, len(budgets))
	for _, b := range budgets {
		limits[b.Category] = b.Amount
	}
	if spent == nil {
		spent = map[string]float64{}
	}

	return &models.WeeklyRollup{
		Expenses: spent,
		Budgets:  limits,
		Period:   models.PeriodWeekly,
	}, nil
}
