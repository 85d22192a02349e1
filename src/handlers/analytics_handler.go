package handlers

import (
	"net/http"

	"budgetit-server/src/middleware"
	"budgetit-server/src/services"
)

func WeeklyAnalytics(analytics *services.AnalyticsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rollup, err := analytics.WeeklyRollup(r.Context(), middleware.PrincipalFromContext(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rollup)
	}
}
