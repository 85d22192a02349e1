package handlers

import (
	"net/http"
	"time"

	"budgetit-server/src/middleware"
	"budgetit-server/src/models"
	"budgetit-server/src/services"
	"budgetit-server/src/session"
)

// CookieConfig controls the session cookie written on signup and signin.
type CookieConfig struct {
	Secure bool
	MaxAge time.Duration
}

func Signup(auth *services.AuthService, cookie CookieConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SignupRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		res, err := auth.Signup(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}

		session.SetCookie(w, res.Token, cookie.MaxAge, cookie.Secure)
		writeJSON(w, http.StatusCreated, models.AuthResponse{
			Message: "User created successfully",
			User:    res.User,
			Token:   res.Token,
		})
	}
}

func Signin(auth *services.AuthService, cookie CookieConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SigninRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		res, err := auth.Signin(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}

		session.SetCookie(w, res.Token, cookie.MaxAge, cookie.Secure)
		writeJSON(w, http.StatusOK, models.AuthResponse{
			Message: "Login successful",
			User:    res.User,
			Token:   res.Token,
		})
	}
}

// Logout always succeeds, with or without a live session.
func Logout(auth *services.AuthService, cookie CookieConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth.Logout(r.Context(), session.TokenFromRequest(r))
		session.ClearCookie(w, cookie.Secure)
		writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Logged out successfully"})
	}
}

func CurrentUser(auth *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := auth.CurrentUser(middleware.PrincipalFromContext(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, models.CurrentUserResponse{User: user})
	}
}
