package session

import (
	"context"
	"time"

	"github.com/angelmondragon/storefront-bff/pkg/auth"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
)

// Credentials supplies the bearer token of the session found on the request context.
type Credentials struct {
	store *Store
	clock func() time.Time
}

func NewCredentials(store *Store) *Credentials {
	return &Credentials{store: store, clock: time.Now}
}

// Token returns "" for anonymous sessions. A token whose exp claim has passed is
// cleared and reported as unauthorized without contacting the remote API.
func (c *Credentials) Token(ctx context.Context) (string, error) {
	sessionID, ok := IDFromContext(ctx)
	if !ok {
		return "", nil
	}
	token, err := c.store.Token(ctx, sessionID)
	if err != nil || token == "" {
		return "", err
	}
	if auth.Expired(token, c.clock()) {
		if err := c.store.SignOut(ctx, sessionID); err != nil {
			return "", err
		}
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired").
			WithDetails(map[string]any{"redirect": auth.LoginPath})
	}
	return token, nil
}

// Clear signs the session out; called when the remote API answers 401.
func (c *Credentials) Clear(ctx context.Context) error {
	sessionID, ok := IDFromContext(ctx)
	if !ok {
		return nil
	}
	return c.store.SignOut(ctx, sessionID)
}
