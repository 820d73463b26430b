package middleware

import (
	"net/http"
	"time"

	"github.com/angelmondragon/storefront-bff/api/responses"
	pkgauth "github.com/angelmondragon/storefront-bff/pkg/auth"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/session"
)

// RequireAuth short-circuits requests from sessions without a live token so the
// storefront can send the shopper to the login page before any remote call.
func RequireAuth(tokens tokenReader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, err := session.RequireID(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			token, err := tokens.Token(r.Context(), sessionID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read session token"))
				return
			}
			if token == "" || pkgauth.Expired(token, time.Now()) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required").
					WithDetails(map[string]any{"redirect": pkgauth.LoginPath}))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
