package handlers

import (
	"net/http"

	"budgetit-server/src/middleware"
	"budgetit-server/src/models"
	"budgetit-server/src/services"
)

func GetBudgets(budgets *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := budgets.List(r.Context(), middleware.PrincipalFromContext(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func SetBudget(budgets *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.BudgetRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		if err := budgets.Set(r.Context(), middleware.PrincipalFromContext(r.Context()), req); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Budget set successfully"})
	}
}
