package handlers

import (
	"net/http"

	"budgetit-server/src/middleware"
	"budgetit-server/src/models"
	"budgetit-server/src/services"
)

func GetGoals(goals *services.GoalService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := goals.List(r.Context(), middleware.PrincipalFromContext(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func AddGoal(goals *services.GoalService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.GoalRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		id, err := goals.Add(r.Context(), middleware.PrincipalFromContext(r.Context()), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, models.CreatedResponse{ID: id, Message: "Goal added successfully"})
	}
}
