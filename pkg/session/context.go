package session

import (
	"context"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/google/uuid"
)

type ctxKey struct{}

// WithID stores the shopper session id on ctx.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IDFromContext returns the session id set by WithID.
func IDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// NewID mints a session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID accepts ids minted by NewID; anything else is replaced by the middleware.
func ValidID(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// RequireID is IDFromContext for operations that cannot run without a session.
func RequireID(ctx context.Context) (string, error) {
	id, ok := IDFromContext(ctx)
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return id, nil
}
