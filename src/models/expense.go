package models

// DateLayout is the calendar-date format used for expense and goal dates.
const DateLayout = "2006-01-02"

type Expense struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"-"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

type ExpenseRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0,lte=1e12"`
	Category    string  `json:"category" validate:"required"`
	Description string  `json:"description"`
	Date        string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
}
