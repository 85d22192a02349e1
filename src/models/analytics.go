package models

type WeeklyRollup struct {
	Expenses map[string]float64 `json:"expenses"`
	Budgets  map[string]float64 `json:"budgets"`
	Period   string             `json:"period"`
}
