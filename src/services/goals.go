package services

import (
	"context"
	"strings"

	"budgetit-server/src/db"
	"budgetit-server/src/models"
)

type GoalService struct {
	store db.Store
}

func (s *GoalService) List(ctx context.Context, p models.Principal) ([]models.Goal, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	goals, err := s.store.ListGoals(ctx, p.UserID)
	if err != nil {
		return nil, storageError("failed to list goals", err)
	}
	return goals, nil
}

// Add creates a goal with nothing saved towards it yet.
func (s *GoalService) Add(ctx context.Context, p models.Principal, req models.GoalRequest) (int64, error) {
	if err := requirePrincipal(p); err != nil {
		return 0, err
	}
	req.Title = strings.TrimSpace(req.Title)
	req.TargetDate = strings.TrimSpace(req.TargetDate)
	if err := validateRequest(req, msgMissingFields); err != nil {
		return 0, err
	}

	id, err := s.store.CreateGoal(ctx, &models.Goal{
		UserID:       p.UserID,
		Title:        req.Title,
		TargetAmount: req.TargetAmount,
		TargetDate:   req.TargetDate,
	})
	if err != nil {
		return 0, storageError("failed to create goal", err)
	}
	return id, nil
}
