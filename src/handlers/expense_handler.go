package handlers

import (
	"net/http"

	"budgetit-server/src/middleware"
	"budgetit-server/src/models"
	"budgetit-server/src/services"
)

func GetExpenses(expenses *services.ExpenseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := expenses.List(r.Context(), middleware.PrincipalFromContext(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func AddExpense(expenses *services.ExpenseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.ExpenseRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		id, err := expenses.Add(r.Context(), middleware.PrincipalFromContext(r.Context()), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, models.CreatedResponse{ID: id, Message: "Expense added successfully"})
	}
}
