package middleware

import (
	"context"
	"net/http"

	"github.com/bakhasuleiman/wesavefood-backend/api/responses"
	pkgerrors "github.com/bakhasuleiman/wesavefood-backend/pkg/errors"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/logger"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/models"
)

type sessionUserLoader interface {
	FindByID(ctx context.Context, id string) (models.User, error)
}

// SessionParams configure the cookie session resolver.
type SessionParams struct {
	CookieName string
	Users      sessionUserLoader
	Logger     *logger.Logger
}

// Session resolves the session cookie into a user and attaches the user id
// and role to the request context. Requests without a valid session pass
// through anonymous; RequireAuth draws the line further down the chain.
func Session(params SessionParams) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(params.CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			user, err := params.Users.FindByID(ctx, cookie.Value)
			if err != nil {
				// Stale cookie pointing at a deleted user; treat as anonymous.
				if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
					next.ServeHTTP(w, r)
					return
				}
				responses.WriteError(ctx, params.Logger, w, err)
				return
			}

			ctx = WithUserID(ctx, user.ID)
			ctx = WithRole(ctx, user.Role.String())
			if params.Logger != nil {
				ctx = params.Logger.WithUserID(ctx, user.ID)
				ctx = params.Logger.WithActorRole(ctx, user.Role.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that did not resolve to a session user.
func RequireAuth(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserIDFromContext(r.Context()) == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
