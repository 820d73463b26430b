package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-bff/pkg/types"
)

const (
	KeyToken             = "token"
	KeyBuyNow            = "buy_now"
	KeyVisited           = "visited"
	KeyRedirectAfterAuth = "redirect_after_auth"
	KeyCheckout          = "checkout"
	KeyRegistration      = "registration"
)

// shopperKeys hold state tied to the signed-in shopper. The visited flag and the
// pending redirect belong to the device and survive a sign-out.
var shopperKeys = []string{
	KeyToken,
	KeyCheckout,
	KeyRegistration,
	KeyBuyNow,
}

var allKeys = []string{
	KeyToken,
	KeyBuyNow,
	KeyVisited,
	KeyRedirectAfterAuth,
	KeyCheckout,
	KeyRegistration,
}

// Store exposes typed accessors over a Backend.
type Store struct {
	backend Backend
	ttl     time.Duration
}

func NewStore(backend Backend, ttl time.Duration) *Store {
	return &Store{backend: backend, ttl: ttl}
}

func (s *Store) getJSON(ctx context.Context, sessionID, key string, dst any) (bool, error) {
	raw, err := s.backend.Get(ctx, sessionID, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read session %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode session %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) putJSON(ctx context.Context, sessionID, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", key, err)
	}
	if err := s.backend.Set(ctx, sessionID, key, raw, s.ttl); err != nil {
		return fmt.Errorf("write session %s: %w", key, err)
	}
	return nil
}

func (s *Store) del(ctx context.Context, sessionID string, keys ...string) error {
	if err := s.backend.Del(ctx, sessionID, keys...); err != nil {
		return fmt.Errorf("delete session %s: %w", strings.Join(keys, ","), err)
	}
	return nil
}

// Token returns the stored bearer token, or "" when the shopper is signed out.
func (s *Store) Token(ctx context.Context, sessionID string) (string, error) {
	var token string
	if _, err := s.getJSON(ctx, sessionID, KeyToken, &token); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Store) SetToken(ctx context.Context, sessionID, token string) error {
	return s.putJSON(ctx, sessionID, KeyToken, token)
}

func (s *Store) ClearToken(ctx context.Context, sessionID string) error {
	return s.del(ctx, sessionID, KeyToken)
}

// BuyNowItem returns the pending express-checkout item without consuming it.
func (s *Store) BuyNowItem(ctx context.Context, sessionID string) (*types.BuyNowItem, error) {
	var item types.BuyNowItem
	found, err := s.getJSON(ctx, sessionID, KeyBuyNow, &item)
	if err != nil || !found {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SetBuyNowItem(ctx context.Context, sessionID string, item types.BuyNowItem) error {
	return s.putJSON(ctx, sessionID, KeyBuyNow, item)
}

// TakeBuyNowItem reads and deletes the buy-now item. Not atomic across instances.
func (s *Store) TakeBuyNowItem(ctx context.Context, sessionID string) (*types.BuyNowItem, error) {
	item, err := s.BuyNowItem(ctx, sessionID)
	if err != nil || item == nil {
		return item, err
	}
	if err := s.ClearBuyNowItem(ctx, sessionID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Store) ClearBuyNowItem(ctx context.Context, sessionID string) error {
	return s.del(ctx, sessionID, KeyBuyNow)
}

func (s *Store) Visited(ctx context.Context, sessionID string) (bool, error) {
	var visited bool
	if _, err := s.getJSON(ctx, sessionID, KeyVisited, &visited); err != nil {
		return false, err
	}
	return visited, nil
}

func (s *Store) MarkVisited(ctx context.Context, sessionID string) error {
	return s.putJSON(ctx, sessionID, KeyVisited, true)
}

func (s *Store) RedirectAfterAuth(ctx context.Context, sessionID string) (string, error) {
	var path string
	if _, err := s.getJSON(ctx, sessionID, KeyRedirectAfterAuth, &path); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Store) SetRedirectAfterAuth(ctx context.Context, sessionID, path string) error {
	return s.putJSON(ctx, sessionID, KeyRedirectAfterAuth, path)
}

// TakeRedirectAfterAuth returns the stored path once and clears it.
func (s *Store) TakeRedirectAfterAuth(ctx context.Context, sessionID string) (string, error) {
	path, err := s.RedirectAfterAuth(ctx, sessionID)
	if err != nil || path == "" {
		return path, err
	}
	if err := s.del(ctx, sessionID, KeyRedirectAfterAuth); err != nil {
		return "", err
	}
	return path, nil
}

// Checkout decodes the persisted checkout state into dst.
func (s *Store) Checkout(ctx context.Context, sessionID string, dst any) (bool, error) {
	return s.getJSON(ctx, sessionID, KeyCheckout, dst)
}

func (s *Store) SaveCheckout(ctx context.Context, sessionID string, state any) error {
	return s.putJSON(ctx, sessionID, KeyCheckout, state)
}

func (s *Store) ClearCheckout(ctx context.Context, sessionID string) error {
	return s.del(ctx, sessionID, KeyCheckout)
}

// Registration decodes the registration wizard progress into dst.
func (s *Store) Registration(ctx context.Context, sessionID string, dst any) (bool, error) {
	return s.getJSON(ctx, sessionID, KeyRegistration, dst)
}

func (s *Store) SaveRegistration(ctx context.Context, sessionID string, progress any) error {
	return s.putJSON(ctx, sessionID, KeyRegistration, progress)
}

func (s *Store) ClearRegistration(ctx context.Context, sessionID string) error {
	return s.del(ctx, sessionID, KeyRegistration)
}

// SignOut drops the token together with the shopper's checkout, registration
// and buy-now state.
func (s *Store) SignOut(ctx context.Context, sessionID string) error {
	return s.del(ctx, sessionID, shopperKeys...)
}

// Destroy removes every entry of the session.
func (s *Store) Destroy(ctx context.Context, sessionID string) error {
	return s.del(ctx, sessionID, allKeys...)
}
