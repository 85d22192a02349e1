package middleware

import (
	"context"
	"errors"
	"net/http"

	"budgetit-server/src/logger"
	"budgetit-server/src/models"
	"budgetit-server/src/session"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type contextKey string

const principalKey contextKey = "principal"

// PrincipalFromContext returns the caller set by SessionAuth, or the zero
// principal when there is none.
func PrincipalFromContext(ctx context.Context) models.Principal {
	p, _ := ctx.Value(principalKey).(models.Principal)
	return p
}

func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// SessionAuth rejects requests without a live session and stores the
// session's principal in the request context.
func SessionAuth(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := session.TokenFromRequest(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			sess, err := sessions.Resolve(r.Context(), token)
			if errors.Is(err, session.ErrInvalid) {
				writeError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			if err != nil {
				logger.Get().Error("failed to resolve session",
					zap.String("request_id", chimw.GetReqID(r.Context())),
					zap.Error(err),
				)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), sess.Principal)))
		})
	}
}
