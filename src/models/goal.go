package models

type Goal struct {
	ID           int64   `json:"id"`
	UserID       int64   `json:"-"`
	Title        string  `json:"title"`
	TargetAmount float64 `json:"target_amount"`
	SavedAmount  float64 `json:"saved_amount"`
	TargetDate   string  `json:"target_date"`
}

type GoalRequest struct {
	Title        string  `json:"title" validate:"required"`
	TargetAmount float64 `json:"targetAmount" validate:"required,gt=0,lte=1e12"`
	TargetDate   string  `json:"targetDate" validate:"required,datetime=2006-01-02"`
}
