package models

const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

type Budget struct {
	ID       int64   `json:"id"`
	UserID   int64   `json:"-"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Period   string  `json:"period"`
}

type BudgetRequest struct {
	Category string  `json:"category" validate:"required"`
	Amount   float64 `json:"amount" validate:"required,gt=0,lte=1e12"`
	Period   string  `json:"period" validate:"omitempty,oneof=weekly monthly"`
}
