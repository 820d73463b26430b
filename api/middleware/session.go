package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	pkgauth "github.com/angelmondragon/storefront-bff/pkg/auth"
	"github.com/angelmondragon/storefront-bff/pkg/config"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/session"
)

const SessionHeader = "X-Session-Id"

type tokenReader interface {
	Token(ctx context.Context, sessionID string) (string, error)
}

// Session resolves the shopper session from the X-Session-Id header or the
// session cookie, minting a new id when neither carries a valid one. The id is
// echoed back in both places.
func Session(cfg config.SessionConfig, tokens tokenReader, logg *logger.Logger) func(http.Handler) http.Handler {
	cookieName := strings.TrimSpace(cfg.CookieName)
	if cookieName == "" {
		cookieName = config.DefaultSessionCookie
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(SessionHeader))
			if id == "" {
				if cookie, err := r.Cookie(cookieName); err == nil {
					id = strings.TrimSpace(cookie.Value)
				}
			}
			if !session.ValidID(id) {
				id = session.NewID()
			}

			w.Header().Set(SessionHeader, id)
			http.SetCookie(w, &http.Cookie{
				Name:     cookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(cfg.TTL.Seconds()),
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := session.WithID(r.Context(), id)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, id)
			}
			if userID := tokenSubject(ctx, tokens, id); userID != "" {
				ctx = WithUserID(ctx, userID)
				if logg != nil {
					ctx = logg.WithUserID(ctx, userID)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenSubject(ctx context.Context, tokens tokenReader, sessionID string) string {
	if tokens == nil {
		return ""
	}
	token, err := tokens.Token(ctx, sessionID)
	if err != nil || token == "" {
		return ""
	}
	claims, err := pkgauth.Inspect(token, time.Now())
	if claims == nil || (err != nil && !errors.Is(err, pkgauth.ErrTokenExpired)) {
		return ""
	}
	return claims.Subject()
}
