package handlers

import (
	"net/http"

	"budgetit-server/src/middleware"
	"budgetit-server/src/models"
	"budgetit-server/src/services"
)

func Chat(chat *services.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.ChatRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		reply, err := chat.Respond(r.Context(), middleware.PrincipalFromContext(r.Context()), req.Message)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, reply)
	}
}
